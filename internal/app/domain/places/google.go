package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	findPlaceEndpoint  = "https://maps.googleapis.com/maps/api/place/findplacefromtext/json"
	placePhotoEndpoint = "https://maps.googleapis.com/maps/api/place/photo"
	thumbnailMaxWidth  = 400
)

// googleFindPlaceResponse mirrors the Places API "Find Place" payload.
type googleFindPlaceResponse struct {
	Candidates []googlePlaceCandidate `json:"candidates"`
	Status     string                 `json:"status"`
}

type googlePlaceCandidate struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Rating           float64       `json:"rating"`
	Geometry         googleGeom    `json:"geometry"`
	Photos           []googlePhoto `json:"photos"`
	Types            []string      `json:"types"`
}

type googleGeom struct {
	Location googleLatLng `json:"location"`
}

type googleLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type googlePhoto struct {
	PhotoReference string `json:"photo_reference"`
}

// GoogleProvider looks places up via the Google Places API, caching results
// by query to spare quota on repeated enrichment runs.
type GoogleProvider struct {
	apiKey     string
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *zap.Logger
}

func NewGoogleProvider(apiKey string, cacheTTL time.Duration, logger *zap.Logger) *GoogleProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      gocache.New(cacheTTL, cacheTTL/2),
		logger:     logger,
	}
}

var _ Provider = (*GoogleProvider)(nil)

func (g *GoogleProvider) FindPlaceByName(ctx context.Context, query string) (*PlaceDetails, error) {
	if cached, found := g.cache.Get(query); found {
		if details, ok := cached.(*PlaceDetails); ok {
			g.logger.Debug("Place lookup cache hit", zap.String("query", query))
			return details, nil
		}
	}

	params := url.Values{}
	params.Set("input", query)
	params.Set("inputtype", "textquery")
	params.Set("fields", "place_id,name,formatted_address,geometry,rating,photos,types")
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, findPlaceEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build find place request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("find place request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("find place request returned status %d", resp.StatusCode)
	}

	var payload googleFindPlaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode find place response: %w", err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrPlaceNotFound
	default:
		return nil, fmt.Errorf("find place returned status %s", payload.Status)
	}
	if len(payload.Candidates) == 0 {
		return nil, ErrPlaceNotFound
	}

	candidate := payload.Candidates[0]
	details := &PlaceDetails{
		PlaceID:   candidate.PlaceID,
		Name:      candidate.Name,
		Latitude:  candidate.Geometry.Location.Lat,
		Longitude: candidate.Geometry.Location.Lng,
		Address:   candidate.FormattedAddress,
		Rating:    candidate.Rating,
	}
	if len(candidate.Types) > 0 {
		details.Description = candidate.Types[0]
	}
	for _, photo := range candidate.Photos {
		details.PhotoReferences = append(details.PhotoReferences, photo.PhotoReference)
	}
	if len(details.PhotoReferences) > 0 {
		details.ThumbnailURL = g.photoURL(details.PhotoReferences[0])
	}

	g.cache.SetDefault(query, details)
	g.logger.Debug("Place lookup succeeded",
		zap.String("query", query),
		zap.String("place_id", details.PlaceID))
	return details, nil
}

// photoURL builds a photo fetch URL for a photo reference. Photo URLs expire
// and are therefore excluded from content hashing downstream.
func (g *GoogleProvider) photoURL(photoReference string) string {
	params := url.Values{}
	params.Set("maxwidth", fmt.Sprintf("%d", thumbnailMaxWidth))
	params.Set("photoreference", photoReference)
	params.Set("key", g.apiKey)
	return placePhotoEndpoint + "?" + params.Encode()
}
