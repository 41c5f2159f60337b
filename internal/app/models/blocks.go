package models

import (
	"encoding/json"
	"fmt"
)

// BlockType identifies a block variant in the notebook document.
type BlockType string

const (
	BlockTypeHeader    BlockType = "header"
	BlockTypeDay       BlockType = "day"
	BlockTypePlace     BlockType = "place"
	BlockTypeHotel     BlockType = "hotel"
	BlockTypeParagraph BlockType = "paragraph"
)

// BlockData is the payload of a block. Each block kind carries its own
// typed payload, decoded once at the document boundary.
type BlockData interface {
	blockData()
}

// HeaderData is the payload of a header block.
type HeaderData struct {
	Text  string `json:"text"`
	Level int    `json:"level,omitempty"`
}

// ParagraphData is the payload of a paragraph block.
type ParagraphData struct {
	Text string `json:"text"`
}

// DayData is the payload of a day block. The places that belong to the day
// are not embedded here; they are the place/hotel blocks that follow this
// block in document order, up to the next day block.
type DayData struct {
	DayNumber   int    `json:"dayNumber"`
	Date        string `json:"date,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Region      string `json:"region,omitempty"`
	Expanded    bool   `json:"expanded,omitempty"`
	Collapsed   bool   `json:"collapsed,omitempty"`
}

// PlaceData is the payload of a place or hotel block. UID encodes day number
// and sequence as place_<dayNumber>_<token>.
type PlaceData struct {
	UID               string      `json:"uid,omitempty"`
	Name              string      `json:"name"`
	Latitude          float64     `json:"lat"`
	Longitude         float64     `json:"lng"`
	Paragraph         string      `json:"paragraph,omitempty"`
	ShortName         string      `json:"shortName,omitempty"`
	LinkedParagraphID string      `json:"linkedParagraphId,omitempty"`
	PlaceID           string      `json:"placeId,omitempty"`
	Address           string      `json:"address,omitempty"`
	Rating            float64     `json:"rating,omitempty"`
	PhotoReferences   []string    `json:"photoReferences,omitempty"`
	Description       string      `json:"description,omitempty"`
	ThumbnailURL      string      `json:"thumbnailUrl,omitempty"`
	Status            PlaceStatus `json:"status,omitempty"`
	Expanded          bool        `json:"expanded,omitempty"`
	Collapsed         bool        `json:"collapsed,omitempty"`
	HasBeenSearched   bool        `json:"hasBeenSearched,omitempty"`
}

// GenericData holds the payload of block kinds this service does not model.
// The editor may produce custom blocks; they round-trip untouched.
type GenericData map[string]any

func (HeaderData) blockData()    {}
func (ParagraphData) blockData() {}
func (DayData) blockData()       {}
func (PlaceData) blockData()     {}
func (GenericData) blockData()   {}

// Block is one typed content unit of the notebook document.
type Block struct {
	ID   string    `json:"id"`
	Type BlockType `json:"type"`
	Data BlockData `json:"data"`
}

// UnmarshalJSON decodes the payload into the variant matching the block type.
func (b *Block) UnmarshalJSON(raw []byte) error {
	var head struct {
		ID   string          `json:"id"`
		Type BlockType       `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return err
	}
	b.ID = head.ID
	b.Type = head.Type
	if len(head.Data) == 0 {
		b.Data = nil
		return nil
	}

	switch head.Type {
	case BlockTypeHeader:
		var data HeaderData
		if err := json.Unmarshal(head.Data, &data); err != nil {
			return fmt.Errorf("decode header block %q: %w", head.ID, err)
		}
		b.Data = data
	case BlockTypeParagraph:
		var data ParagraphData
		if err := json.Unmarshal(head.Data, &data); err != nil {
			return fmt.Errorf("decode paragraph block %q: %w", head.ID, err)
		}
		b.Data = data
	case BlockTypeDay:
		var data DayData
		if err := json.Unmarshal(head.Data, &data); err != nil {
			return fmt.Errorf("decode day block %q: %w", head.ID, err)
		}
		b.Data = data
	case BlockTypePlace, BlockTypeHotel:
		var data PlaceData
		if err := json.Unmarshal(head.Data, &data); err != nil {
			return fmt.Errorf("decode place block %q: %w", head.ID, err)
		}
		b.Data = data
	default:
		var data GenericData
		if err := json.Unmarshal(head.Data, &data); err != nil {
			return fmt.Errorf("decode %s block %q: %w", head.Type, head.ID, err)
		}
		b.Data = data
	}
	return nil
}

// BlockDocument is the notebook editor's native document model: an ordered
// sequence of typed blocks. Ordering is semantically meaningful — a day block
// followed by place/hotel blocks up to the next day block defines that day's
// place list.
type BlockDocument struct {
	Version string  `json:"version"`
	Time    int64   `json:"time,omitempty"`
	Blocks  []Block `json:"blocks"`
}

// BlockDocumentVersion is the document format version written by this service.
const BlockDocumentVersion = "2.28.2"
