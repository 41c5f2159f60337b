package models

// RouteSource tags where route geometry came from. A straight-line fallback
// is valid data, not an error.
type RouteSource string

const (
	RouteSourceDirections   RouteSource = "directions"
	RouteSourceStraightLine RouteSource = "straight-line"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// RouteLeg is a drivable (or straight-line) segment between two stops.
type RouteLeg struct {
	Origin          Coordinate  `json:"origin"`
	Destination     Coordinate  `json:"destination"`
	DistanceMeters  int         `json:"distanceMeters"`
	DurationSeconds int         `json:"durationSeconds"`
	Polyline        string      `json:"polyline,omitempty"`
	Source          RouteSource `json:"source"`
}

// DayRoute holds the legs between consecutive places of one day.
type DayRoute struct {
	DayNumber int        `json:"dayNumber"`
	Legs      []RouteLeg `json:"legs"`
}

// DayConnection links a day's finishing place to the first place of the
// next day.
type DayConnection struct {
	FromDay int      `json:"fromDay"`
	ToDay   int      `json:"toDay"`
	Leg     RouteLeg `json:"leg"`
}

// RouteData is the directions payload kept alongside the notebook document
// and persisted with it.
type RouteData struct {
	DayRoutes   []DayRoute      `json:"dayRoutes"`
	Connections []DayConnection `json:"connections,omitempty"`
}
