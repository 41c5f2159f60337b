package models

import (
	"time"

	"github.com/google/uuid"
)

// TripMetadata is the descriptive metadata persisted with an itinerary.
type TripMetadata struct {
	Destination string `json:"destination,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	TotalDays   int    `json:"totalDays,omitempty"`
}

// SaveItineraryRequest carries the current notebook state to persistence.
type SaveItineraryRequest struct {
	ID         *uuid.UUID     `json:"id,omitempty"`
	Title      string         `json:"title,omitempty"`
	EditorData *BlockDocument `json:"editorData"`
	Directions *RouteData     `json:"directions,omitempty"`
	Metadata   *TripMetadata  `json:"metadata,omitempty"`
	// LastSaved is the client's view of the last persisted revision, used
	// for conflict detection. Zero means "first save".
	LastSaved time.Time `json:"lastSaved,omitempty"`
}

// SaveItineraryResult reports the outcome of a save.
type SaveItineraryResult struct {
	ID               uuid.UUID `json:"id"`
	Success          bool      `json:"success"`
	Unchanged        bool      `json:"unchanged,omitempty"`
	ConflictResolved bool      `json:"conflictResolved,omitempty"`
	SavedAt          time.Time `json:"savedAt"`
}

// StoredItinerary is a persisted itinerary as loaded from storage.
type StoredItinerary struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"userId"`
	Title       string         `json:"title"`
	EditorData  *BlockDocument `json:"editorData"`
	Directions  *RouteData     `json:"directions,omitempty"`
	Metadata    *TripMetadata  `json:"metadata,omitempty"`
	ContentHash string         `json:"contentHash"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// ItinerarySummary is the list-view projection of a stored itinerary.
type ItinerarySummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Destination string    `json:"destination,omitempty"`
	TotalDays   int       `json:"totalDays,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}
