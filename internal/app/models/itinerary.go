package models

// PlaceStatus tracks the enrichment lifecycle of a place record.
type PlaceStatus string

const (
	PlaceStatusIdle     PlaceStatus = "idle"
	PlaceStatusLoading  PlaceStatus = "loading"
	PlaceStatusFound    PlaceStatus = "found"
	PlaceStatusFreeText PlaceStatus = "free-text"
	PlaceStatusError    PlaceStatus = "error"
)

// PlaceType determines which block variant represents the place in the
// notebook document.
type PlaceType string

const (
	PlaceTypePlace PlaceType = "place"
	PlaceTypeHotel PlaceType = "hotel"
)

// Place is a single stop inside a day. Coordinates start out as the
// LLM-generated values and may be replaced during enrichment.
type Place struct {
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
	Status            PlaceStatus `json:"status"`
	Type              PlaceType   `json:"type"`
}

// Day holds one calendar day of the itinerary. DayNumber is 1-based and
// contiguous. Region is inherited forward: once a day sets it, later days
// without an explicit region carry the last known value.
type Day struct {
	DayNumber   int     `json:"dayNumber"`
	Date        string  `json:"date"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Region      string  `json:"region,omitempty"`
	Places      []Place `json:"places"`
}

// FinishPlace returns the designated last stop of the day, used for
// cross-day route continuity. Returns nil for a day without places.
func (d *Day) FinishPlace() *Place {
	if len(d.Places) == 0 {
		return nil
	}
	return &d.Places[len(d.Places)-1]
}

// StructuredItinerary is the parsed, structured view of an itinerary.
// Once a notebook session is live this is always a projection recomputed
// from the block document, never mutated directly.
type StructuredItinerary struct {
	Title       string `json:"title"`
	Destination string `json:"destination"`
	TotalDays   int    `json:"totalDays"`
	Days        []Day  `json:"days"`
}
