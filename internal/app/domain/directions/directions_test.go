package directions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

type fakeCalculator struct {
	err   error
	calls [][]models.Coordinate
}

func (f *fakeCalculator) Calculate(_ context.Context, coordinates []models.Coordinate) ([]models.RouteLeg, error) {
	f.calls = append(f.calls, coordinates)
	if f.err != nil {
		return nil, f.err
	}
	legs := make([]models.RouteLeg, 0, len(coordinates)-1)
	for i := 0; i < len(coordinates)-1; i++ {
		legs = append(legs, *StraightLineLeg(coordinates[i], coordinates[i+1]))
	}
	return legs, nil
}

func routedItinerary() *models.StructuredItinerary {
	return &models.StructuredItinerary{
		Title:     "Coastal Drive",
		TotalDays: 2,
		Days: []models.Day{
			{
				DayNumber: 1,
				Places: []models.Place{
					{Name: "Lisbon", Latitude: 38.7223, Longitude: -9.1393},
					{Name: "Sintra", Latitude: 38.7980, Longitude: -9.3878},
					{Name: "Cascais", Latitude: 38.6979, Longitude: -9.4215},
				},
			},
			{
				DayNumber: 2,
				Places: []models.Place{
					{Name: "Porto", Latitude: 41.1579, Longitude: -8.6291},
				},
			},
		},
	}
}

func TestStraightLineLeg(t *testing.T) {
	lisbon := models.Coordinate{Latitude: 38.7223, Longitude: -9.1393}
	porto := models.Coordinate{Latitude: 41.1579, Longitude: -8.6291}

	leg := StraightLineLeg(lisbon, porto)
	assert.Equal(t, models.RouteSourceStraightLine, leg.Source)
	assert.Empty(t, leg.Polyline)
	assert.InDelta(t, 274000, leg.DistanceMeters, 10000)
	// 60 km/h over the straight-line distance
	assert.InDelta(t, leg.DistanceMeters*3600/60000, leg.DurationSeconds, 2)
}

func TestBuildRouteDataDaysAndConnections(t *testing.T) {
	calc := &fakeCalculator{}
	routeData, err := BuildRouteData(context.Background(), calc, routedItinerary(), nil)
	require.NoError(t, err)
	require.NotNil(t, routeData)

	// Day 2 has a single place, so only day 1 gets a route.
	require.Len(t, routeData.DayRoutes, 1)
	assert.Equal(t, 1, routeData.DayRoutes[0].DayNumber)
	assert.Len(t, routeData.DayRoutes[0].Legs, 2)

	require.Len(t, routeData.Connections, 1)
	conn := routeData.Connections[0]
	assert.Equal(t, 1, conn.FromDay)
	assert.Equal(t, 2, conn.ToDay)
	// connection runs from day 1's finish place (Cascais) to day 2's first place
	assert.InDelta(t, 38.6979, conn.Leg.Origin.Latitude, 0.0001)
	assert.InDelta(t, 41.1579, conn.Leg.Destination.Latitude, 0.0001)
}

func TestBuildRouteDataSkipsZeroCoordinates(t *testing.T) {
	it := routedItinerary()
	it.Days[0].Places[1].Latitude = 0
	it.Days[0].Places[1].Longitude = 0

	calc := &fakeCalculator{}
	routeData, err := BuildRouteData(context.Background(), calc, it, nil)
	require.NoError(t, err)

	require.Len(t, routeData.DayRoutes, 1)
	assert.Len(t, routeData.DayRoutes[0].Legs, 1)
}

func TestBuildRouteDataPropagatesCalculatorError(t *testing.T) {
	calc := &fakeCalculator{err: errors.New("quota exceeded")}
	_, err := BuildRouteData(context.Background(), calc, routedItinerary(), nil)
	assert.Error(t, err)
}

func TestBuildRouteDataNilInputs(t *testing.T) {
	routeData, err := BuildRouteData(context.Background(), nil, routedItinerary(), nil)
	require.NoError(t, err)
	assert.Nil(t, routeData)

	routeData, err = BuildRouteData(context.Background(), &fakeCalculator{}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, routeData)
}
