// Package places provides place lookup and itinerary enrichment against an
// external geocoding/places provider.
package places

import (
	"context"
	"errors"
	"math"
)

// ErrPlaceNotFound is returned when the provider has no candidate for a query.
var ErrPlaceNotFound = errors.New("place not found")

// PlaceDetails is the provider-side view of a place.
type PlaceDetails struct {
	PlaceID         string   `json:"placeId"`
	Name            string   `json:"name"`
	Latitude        float64  `json:"lat"`
	Longitude       float64  `json:"lng"`
	Address         string   `json:"address,omitempty"`
	Rating          float64  `json:"rating,omitempty"`
	PhotoReferences []string `json:"photoReferences,omitempty"`
	Description     string   `json:"description,omitempty"`
	ThumbnailURL    string   `json:"thumbnailUrl,omitempty"`
}

// Provider is the place lookup collaborator.
type Provider interface {
	FindPlaceByName(ctx context.Context, query string) (*PlaceDetails, error)
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
