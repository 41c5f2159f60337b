package notebook

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// normalizeText reduces a text field to its semantic content: HTML tags
// stripped, non-breaking spaces collapsed to regular spaces, whitespace runs
// collapsed, trimmed, unicode-normalized.
func normalizeText(text string) string {
	text = norm.NFC.String(text)
	text = htmlTagRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, " ", " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// hashBlock is the content projection of a block. The block id is deliberately
// excluded: identity must not affect content equality.
type hashBlock struct {
	Type models.BlockType `json:"type"`
	Data any              `json:"data"`
}

type hashPlace struct {
	Name              string             `json:"name"`
	Latitude          float64            `json:"lat"`
	Longitude         float64            `json:"lng"`
	Paragraph         string             `json:"paragraph,omitempty"`
	ShortName         string             `json:"shortName,omitempty"`
	LinkedParagraphID string             `json:"linkedParagraphId,omitempty"`
	PlaceID           string             `json:"placeId,omitempty"`
	Address           string             `json:"address,omitempty"`
	Rating            float64            `json:"rating,omitempty"`
	PhotoReferences   []string           `json:"photoReferences,omitempty"`
	Description       string             `json:"description,omitempty"`
	Status            models.PlaceStatus `json:"status,omitempty"`
}

type hashDay struct {
	DayNumber   int    `json:"dayNumber"`
	Date        string `json:"date,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Region      string `json:"region,omitempty"`
}

type hashText struct {
	Text  string `json:"text"`
	Level int    `json:"level,omitempty"`
}

type hashDocument struct {
	Blocks  []hashBlock `json:"blocks"`
	Version string      `json:"version"`
}

// placeStatusForHash treats a transient loading status as absent. Any other
// status value is part of the content.
func placeStatusForHash(status models.PlaceStatus) models.PlaceStatus {
	if status == models.PlaceStatusLoading {
		return ""
	}
	return status
}

func isEmptyPlace(data models.PlaceData) bool {
	return strings.TrimSpace(data.Name) == ""
}

// Hash fingerprints the semantic content of a block document. Two documents
// differing only in block ids, UI flags (expanded, collapsed,
// hasBeenSearched), thumbnail URLs or a transient loading status hash
// identically; any other difference changes the digest.
func Hash(doc *models.BlockDocument) string {
	projection := hashDocument{Blocks: []hashBlock{}}
	if doc != nil {
		projection.Version = doc.Version
		projection.Blocks = projectBlocks(doc)
	}

	serialized, err := json.Marshal(projection)
	if err != nil {
		// Only reachable with non-serializable generic payloads; fall back to
		// an empty-document digest rather than failing the caller.
		serialized = []byte(`{"blocks":[],"version":""}`)
	}

	digest := sha256.Sum256(serialized)
	return hex.EncodeToString(digest[:])
}

func projectBlocks(doc *models.BlockDocument) []hashBlock {
	// Day emptiness depends on the places grouped under the day block, so the
	// projection reuses the positional grouping traversal.
	_, sections := splitSections(doc)
	sectionHasContent := make([]bool, len(sections))
	for i, section := range sections {
		for _, block := range section.places {
			if data, ok := block.Data.(models.PlaceData); ok && !isEmptyPlace(data) {
				sectionHasContent[i] = true
				break
			}
		}
	}

	blocks := []hashBlock{}
	dayIndex := -1
	for _, block := range doc.Blocks {
		switch data := block.Data.(type) {
		case models.HeaderData:
			text := normalizeText(data.Text)
			if text == "" {
				continue
			}
			blocks = append(blocks, hashBlock{Type: block.Type, Data: hashText{Text: text, Level: data.Level}})
		case models.ParagraphData:
			text := normalizeText(data.Text)
			if text == "" {
				continue
			}
			blocks = append(blocks, hashBlock{Type: block.Type, Data: hashText{Text: text}})
		case models.DayData:
			dayIndex++
			if dayIndex >= len(sectionHasContent) || !sectionHasContent[dayIndex] {
				continue
			}
			blocks = append(blocks, hashBlock{Type: block.Type, Data: hashDay{
				DayNumber:   data.DayNumber,
				Date:        data.Date,
				Title:       normalizeText(data.Title),
				Description: normalizeText(data.Description),
				Region:      data.Region,
			}})
		case models.PlaceData:
			if isEmptyPlace(data) {
				continue
			}
			blocks = append(blocks, hashBlock{Type: block.Type, Data: hashPlace{
				Name:              data.Name,
				Latitude:          data.Latitude,
				Longitude:         data.Longitude,
				Paragraph:         normalizeText(data.Paragraph),
				ShortName:         data.ShortName,
				LinkedParagraphID: data.LinkedParagraphID,
				PlaceID:           data.PlaceID,
				Address:           data.Address,
				Rating:            data.Rating,
				PhotoReferences:   data.PhotoReferences,
				Description:       data.Description,
				Status:            placeStatusForHash(data.Status),
			}})
		case models.GenericData:
			blocks = append(blocks, hashBlock{Type: block.Type, Data: data})
		}
	}
	return blocks
}
