// Package directions computes driving routes between itinerary stops, with a
// straight-line fallback when no drivable route exists.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

const directionsEndpoint = "https://maps.googleapis.com/maps/api/directions/json"

// assumed straight-line cruising speed used for fallback duration estimates
const fallbackSpeedKmh = 60.0

// Calculator is the directions collaborator.
type Calculator interface {
	Calculate(ctx context.Context, coordinates []models.Coordinate) ([]models.RouteLeg, error)
}

// GoogleCalculator resolves legs via the Google Directions API. A route the
// provider cannot drive degrades to a straight-line leg tagged as such; that
// is valid data, not an error.
type GoogleCalculator struct {
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewGoogleCalculator(apiKey string, logger *zap.Logger) *GoogleCalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleCalculator{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

var _ Calculator = (*GoogleCalculator)(nil)

type googleDirectionsResponse struct {
	Status string        `json:"status"`
	Routes []googleRoute `json:"routes"`
}

type googleRoute struct {
	OverviewPolyline googlePolyline `json:"overview_polyline"`
	Legs             []googleLeg    `json:"legs"`
}

type googlePolyline struct {
	Points string `json:"points"`
}

type googleLeg struct {
	Distance googleValue `json:"distance"`
	Duration googleValue `json:"duration"`
}

type googleValue struct {
	Value int `json:"value"`
}

// Calculate resolves one leg per consecutive coordinate pair.
func (g *GoogleCalculator) Calculate(ctx context.Context, coordinates []models.Coordinate) ([]models.RouteLeg, error) {
	if len(coordinates) < 2 {
		return nil, nil
	}

	legs := make([]models.RouteLeg, 0, len(coordinates)-1)
	for i := 0; i < len(coordinates)-1; i++ {
		leg, err := g.calculateLeg(ctx, coordinates[i], coordinates[i+1])
		if err != nil {
			return nil, err
		}
		legs = append(legs, *leg)
	}
	return legs, nil
}

func (g *GoogleCalculator) calculateLeg(ctx context.Context, origin, destination models.Coordinate) (*models.RouteLeg, error) {
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude))
	params.Set("mode", "driving")
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, directionsEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directions request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions request returned status %d", resp.StatusCode)
	}

	var payload googleDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode directions response: %w", err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		// No drivable route (e.g. across water): fall back to a straight line.
		g.logger.Debug("No drivable route, using straight-line fallback")
		return StraightLineLeg(origin, destination), nil
	default:
		return nil, fmt.Errorf("directions returned status %s", payload.Status)
	}
	if len(payload.Routes) == 0 || len(payload.Routes[0].Legs) == 0 {
		return StraightLineLeg(origin, destination), nil
	}

	route := payload.Routes[0]
	return &models.RouteLeg{
		Origin:          origin,
		Destination:     destination,
		DistanceMeters:  route.Legs[0].Distance.Value,
		DurationSeconds: route.Legs[0].Duration.Value,
		Polyline:        route.OverviewPolyline.Points,
		Source:          models.RouteSourceDirections,
	}, nil
}

// StraightLineLeg builds a great-circle fallback leg between two points.
func StraightLineLeg(origin, destination models.Coordinate) *models.RouteLeg {
	distanceKm := haversineKm(origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
	return &models.RouteLeg{
		Origin:          origin,
		Destination:     destination,
		DistanceMeters:  int(distanceKm * 1000),
		DurationSeconds: int(distanceKm / fallbackSpeedKmh * 3600),
		Source:          models.RouteSourceStraightLine,
	}
}

// BuildRouteData computes per-day routes plus the connections between each
// day's finishing place and the next day's first place.
func BuildRouteData(ctx context.Context, calc Calculator, it *models.StructuredItinerary, logger *zap.Logger) (*models.RouteData, error) {
	if calc == nil || it == nil {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	routeData := &models.RouteData{}

	for _, day := range it.Days {
		coords := dayCoordinates(day)
		if len(coords) < 2 {
			continue
		}
		legs, err := calc.Calculate(ctx, coords)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate route for day %d: %w", day.DayNumber, err)
		}
		routeData.DayRoutes = append(routeData.DayRoutes, models.DayRoute{
			DayNumber: day.DayNumber,
			Legs:      legs,
		})
	}

	for i := 0; i < len(it.Days)-1; i++ {
		finish := it.Days[i].FinishPlace()
		if finish == nil {
			continue
		}
		next := firstPlace(it.Days[i+1])
		if next == nil {
			continue
		}

		origin := models.Coordinate{Latitude: finish.Latitude, Longitude: finish.Longitude}
		destination := models.Coordinate{Latitude: next.Latitude, Longitude: next.Longitude}
		legs, err := calc.Calculate(ctx, []models.Coordinate{origin, destination})
		if err != nil {
			return nil, fmt.Errorf("failed to calculate connection from day %d: %w", it.Days[i].DayNumber, err)
		}
		if len(legs) == 0 {
			continue
		}
		routeData.Connections = append(routeData.Connections, models.DayConnection{
			FromDay: it.Days[i].DayNumber,
			ToDay:   it.Days[i+1].DayNumber,
			Leg:     legs[0],
		})
	}

	return routeData, nil
}

func dayCoordinates(day models.Day) []models.Coordinate {
	coords := make([]models.Coordinate, 0, len(day.Places))
	for _, place := range day.Places {
		if place.Latitude == 0 && place.Longitude == 0 {
			continue
		}
		coords = append(coords, models.Coordinate{Latitude: place.Latitude, Longitude: place.Longitude})
	}
	return coords
}

func firstPlace(day models.Day) *models.Place {
	if len(day.Places) == 0 {
		return nil
	}
	return &day.Places[0]
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
