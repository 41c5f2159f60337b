package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

func sampleItinerary() *models.StructuredItinerary {
	return &models.StructuredItinerary{
		Title:       "Tokyo Highlights",
		Destination: "Tokyo",
		TotalDays:   2,
		Days: []models.Day{
			{
				DayNumber:   1,
				Date:        "2026-04-01",
				Title:       "Arrival",
				Description: "Settle in and explore.",
				Region:      "Tokyo",
				Places: []models.Place{
					{Name: "Senso-ji Temple", Latitude: 35.7148, Longitude: 139.7967, Paragraph: "Tokyo's oldest temple.", Status: models.PlaceStatusFound, Type: models.PlaceTypePlace},
					{Name: "Park Hyatt", Latitude: 35.6853, Longitude: 139.6904, Status: models.PlaceStatusIdle, Type: models.PlaceTypeHotel},
				},
			},
			{
				DayNumber: 2,
				Date:      "2026-04-02",
				Title:     "Modern Tokyo",
				Region:    "Tokyo",
				Places: []models.Place{
					{Name: "Shibuya Crossing", Latitude: 35.6595, Longitude: 139.7005, Status: models.PlaceStatusIdle, Type: models.PlaceTypePlace},
				},
			},
		},
	}
}

func TestToDocumentLayout(t *testing.T) {
	doc := ToDocument(sampleItinerary())

	require.Len(t, doc.Blocks, 7)
	assert.Equal(t, models.BlockTypeHeader, doc.Blocks[0].Type)
	assert.Equal(t, models.BlockTypeDay, doc.Blocks[1].Type)
	assert.Equal(t, models.BlockTypePlace, doc.Blocks[2].Type)
	assert.Equal(t, models.BlockTypeHotel, doc.Blocks[3].Type)
	assert.Equal(t, models.BlockTypeParagraph, doc.Blocks[4].Type)
	assert.Equal(t, models.BlockTypeDay, doc.Blocks[5].Type)
	assert.Equal(t, models.BlockTypePlace, doc.Blocks[6].Type)

	// Day 2's place follows its day block; day 2 has no narrative paragraph.
	assert.Equal(t, models.BlockDocumentVersion, doc.Version)
	assert.NotZero(t, doc.Time)

	header := doc.Blocks[0].Data.(models.HeaderData)
	assert.Equal(t, "Tokyo Highlights", header.Text)

	for _, block := range doc.Blocks {
		assert.NotEmpty(t, block.ID)
	}
}

func TestPlaceUIDsAreDeterministic(t *testing.T) {
	first := ToDocument(sampleItinerary())
	second := ToDocument(sampleItinerary())

	uids := func(doc *models.BlockDocument) []string {
		var out []string
		for _, block := range doc.Blocks {
			if data, ok := block.Data.(models.PlaceData); ok {
				out = append(out, data.UID)
			}
		}
		return out
	}

	assert.Equal(t, []string{"place_1_1", "place_1_2"}, uids(first)[:2])
	assert.Equal(t, uids(first), uids(second))

	dayNumber, sequence, ok := ParsePlaceUID("place_2_1")
	require.True(t, ok)
	assert.Equal(t, 2, dayNumber)
	assert.Equal(t, "1", sequence)

	_, _, ok = ParsePlaceUID("hotel_2_1")
	assert.False(t, ok)
}

func TestRoundTripPreservesContent(t *testing.T) {
	it := sampleItinerary()
	projected := ToItinerary(ToDocument(it))

	assert.Equal(t, it.Title, projected.Title)
	require.Len(t, projected.Days, 2)
	assert.Equal(t, it.Days[0].Description, projected.Days[0].Description)
	assert.Equal(t, it.Days[0].Region, projected.Days[0].Region)
	require.Len(t, projected.Days[0].Places, 2)
	assert.Equal(t, models.PlaceTypeHotel, projected.Days[0].Places[1].Type)
	assert.Equal(t, it.Days[1].Places[0].Name, projected.Days[1].Places[0].Name)
	assert.Equal(t, 2, projected.TotalDays)
}

func TestToItineraryRenumbersDaysPositionally(t *testing.T) {
	doc := &models.BlockDocument{
		Version: models.BlockDocumentVersion,
		Blocks: []models.Block{
			{ID: "d5", Type: models.BlockTypeDay, Data: models.DayData{DayNumber: 5, Title: "Old Five"}},
			{ID: "d9", Type: models.BlockTypeDay, Data: models.DayData{DayNumber: 9, Title: "Old Nine"}},
		},
	}

	it := ToItinerary(doc)
	require.Len(t, it.Days, 2)
	assert.Equal(t, 1, it.Days[0].DayNumber)
	assert.Equal(t, 2, it.Days[1].DayNumber)
	assert.Equal(t, "Old Five", it.Days[0].Title)
}

func TestToItineraryIgnoresOrphanBlocks(t *testing.T) {
	doc := &models.BlockDocument{
		Version: models.BlockDocumentVersion,
		Blocks: []models.Block{
			// Place and paragraph before any day block belong to no day.
			{ID: "p0", Type: models.BlockTypePlace, Data: models.PlaceData{UID: "place_1_1", Name: "Orphan"}},
			{ID: "t0", Type: models.BlockTypeParagraph, Data: models.ParagraphData{Text: "floating text"}},
			{ID: "d1", Type: models.BlockTypeDay, Data: models.DayData{DayNumber: 1, Title: "Real Day"}},
		},
	}

	it := ToItinerary(doc)
	require.Len(t, it.Days, 1)
	assert.Empty(t, it.Days[0].Places)
	assert.Empty(t, it.Days[0].Description)
}

func TestToItineraryDefaultsStatus(t *testing.T) {
	doc := &models.BlockDocument{
		Blocks: []models.Block{
			{ID: "d1", Type: models.BlockTypeDay, Data: models.DayData{DayNumber: 1}},
			{ID: "p1", Type: models.BlockTypePlace, Data: models.PlaceData{UID: "place_1_1", Name: "Somewhere"}},
		},
	}

	it := ToItinerary(doc)
	require.Len(t, it.Days, 1)
	require.Len(t, it.Days[0].Places, 1)
	assert.Equal(t, models.PlaceStatusIdle, it.Days[0].Places[0].Status)
}

func TestToItineraryNilDocument(t *testing.T) {
	it := ToItinerary(nil)
	require.NotNil(t, it)
	assert.Empty(t, it.Days)
	assert.Zero(t, it.TotalDays)
}
