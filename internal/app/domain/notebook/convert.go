// Package notebook implements the itinerary synchronization core: the
// block-document converter, the content hasher and the per-user session
// state store that drives debounced persistence.
package notebook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

// PlaceUID builds the canonical place identifier encoding day number and
// sequence, e.g. place_2_3. The sequence token is the 1-based position of the
// place within its day so that converting the same itinerary twice yields the
// same identifiers.
func PlaceUID(dayNumber, sequence int) string {
	return fmt.Sprintf("place_%d_%d", dayNumber, sequence)
}

// ParsePlaceUID extracts day number and sequence token from a place UID.
func ParsePlaceUID(uid string) (dayNumber int, sequence string, ok bool) {
	parts := strings.SplitN(uid, "_", 3)
	if len(parts) != 3 || parts[0] != "place" {
		return 0, "", false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", false
	}
	return n, parts[2], true
}

// daySection groups a day block with the place/hotel and paragraph blocks
// that follow it, up to the next day block. Day membership is positional in
// the block document; this traversal is the single place that derives it.
type daySection struct {
	day        models.DayData
	places     []models.Block
	paragraphs []models.ParagraphData
}

// splitSections walks the document once, extracting the title from the first
// header block and grouping the remaining blocks under the preceding day
// block. Blocks before the first day block are ignored for day/place
// purposes.
func splitSections(doc *models.BlockDocument) (title string, sections []daySection) {
	for _, block := range doc.Blocks {
		switch data := block.Data.(type) {
		case models.HeaderData:
			if title == "" {
				title = data.Text
			}
		case models.DayData:
			sections = append(sections, daySection{day: data})
		case models.PlaceData:
			if len(sections) == 0 {
				continue
			}
			cur := &sections[len(sections)-1]
			cur.places = append(cur.places, block)
		case models.ParagraphData:
			if len(sections) == 0 {
				continue
			}
			cur := &sections[len(sections)-1]
			cur.paragraphs = append(cur.paragraphs, data)
		}
	}
	return title, sections
}

// ToDocument lays out a structured itinerary as a block document: one header
// block with the title, then for each day a day block followed by its
// place/hotel blocks in sequence order, then a paragraph block for the day's
// narrative text.
func ToDocument(it *models.StructuredItinerary) *models.BlockDocument {
	doc := &models.BlockDocument{
		Version: models.BlockDocumentVersion,
		Time:    time.Now().UnixMilli(),
	}

	doc.Blocks = append(doc.Blocks, models.Block{
		ID:   uuid.New().String(),
		Type: models.BlockTypeHeader,
		Data: models.HeaderData{Text: it.Title, Level: 1},
	})

	for _, day := range it.Days {
		doc.Blocks = append(doc.Blocks, models.Block{
			ID:   uuid.New().String(),
			Type: models.BlockTypeDay,
			Data: models.DayData{
				DayNumber: day.DayNumber,
				Date:      day.Date,
				Title:     day.Title,
				Region:    day.Region,
			},
		})

		for i, place := range day.Places {
			blockType := models.BlockTypePlace
			if place.Type == models.PlaceTypeHotel {
				blockType = models.BlockTypeHotel
			}
			doc.Blocks = append(doc.Blocks, models.Block{
				ID:   uuid.New().String(),
				Type: blockType,
				Data: models.PlaceData{
					UID:               PlaceUID(day.DayNumber, i+1),
					Name:              place.Name,
					Latitude:          place.Latitude,
					Longitude:         place.Longitude,
					Paragraph:         place.Paragraph,
					ShortName:         place.ShortName,
					LinkedParagraphID: place.LinkedParagraphID,
					PlaceID:           place.PlaceID,
					Address:           place.Address,
					Rating:            place.Rating,
					PhotoReferences:   place.PhotoReferences,
					Description:       place.Description,
					ThumbnailURL:      place.ThumbnailURL,
					Status:            place.Status,
				},
			})
		}

		if day.Description != "" {
			doc.Blocks = append(doc.Blocks, models.Block{
				ID:   uuid.New().String(),
				Type: models.BlockTypeParagraph,
				Data: models.ParagraphData{Text: day.Description},
			})
		}
	}

	return doc
}

// ToItinerary derives the structured itinerary view from a block document.
// The result is a pure projection: callers must never mutate it as a way of
// editing the itinerary — edits always go through the block document.
func ToItinerary(doc *models.BlockDocument) *models.StructuredItinerary {
	it := &models.StructuredItinerary{}
	if doc == nil {
		return it
	}

	title, sections := splitSections(doc)
	it.Title = title

	for i, section := range sections {
		day := models.Day{
			DayNumber:   i + 1,
			Date:        section.day.Date,
			Title:       section.day.Title,
			Description: section.day.Description,
			Region:      section.day.Region,
			Places:      []models.Place{},
		}

		for _, block := range section.places {
			data, ok := block.Data.(models.PlaceData)
			if !ok {
				continue
			}
			placeType := models.PlaceTypePlace
			if block.Type == models.BlockTypeHotel {
				placeType = models.PlaceTypeHotel
			}
			status := data.Status
			if status == "" {
				status = models.PlaceStatusIdle
			}
			day.Places = append(day.Places, models.Place{
				Name:              data.Name,
				Latitude:          data.Latitude,
				Longitude:         data.Longitude,
				Paragraph:         data.Paragraph,
				ShortName:         data.ShortName,
				LinkedParagraphID: data.LinkedParagraphID,
				PlaceID:           data.PlaceID,
				Address:           data.Address,
				Rating:            data.Rating,
				PhotoReferences:   data.PhotoReferences,
				Description:       data.Description,
				ThumbnailURL:      data.ThumbnailURL,
				Status:            status,
				Type:              placeType,
			})
		}

		for _, paragraph := range section.paragraphs {
			if day.Description == "" {
				day.Description = paragraph.Text
			} else {
				day.Description += "\n\n" + paragraph.Text
			}
		}

		it.Days = append(it.Days, day)
	}

	it.TotalDays = len(it.Days)
	return it
}
