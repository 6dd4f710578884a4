package collab

import (
	"context"
	"math"
	"time"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
)

const earthRadiusMiles = 3958.8

// FixtureTravel is a deterministic, dependency-free travel estimator backed
// by great-circle distance. Useful for tests and local runs where the real
// travel service is unavailable.
type FixtureTravel struct{}

// Distance returns the haversine distance between two coordinates in miles.
func (FixtureTravel) Distance(_ context.Context, from, to domain.Coordinates) (float64, error) {
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := (to.Latitude - from.Latitude) * math.Pi / 180
	dLon := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a)), nil
}

// FixtureWeather always forecasts a clear day.
type FixtureWeather struct{}

func (FixtureWeather) Forecast(_ context.Context, _ domain.Venue, _ time.Time) (Forecast, error) {
	return Forecast{Condition: "clear", Temperature: 68, Precipitation: 0}, nil
}

// IdentityOptimizer returns an untouched clone of the input schedule. It
// stands in for the real optimizer collaborator in tests and dry runs.
type IdentityOptimizer struct{}

func (IdentityOptimizer) Optimize(_ context.Context, s *domain.Schedule, _ []constraint.Definition) (*domain.Schedule, error) {
	return s.Clone(), nil
}

// StaticWeights serves a fixed weight-override map.
type StaticWeights map[string]float64

func (w StaticWeights) Weights(_ context.Context, _ string) (map[string]float64, error) {
	return w, nil
}
