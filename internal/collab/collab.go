// Package collab defines the external collaborator contracts the engine
// consumes: travel-distance and weather lookups, the schedule optimizer,
// and the per-constraint weight provider. All are read-only from the
// engine's perspective and owned by the caller.
package collab

import (
	"context"
	"time"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
)

// TravelEstimator answers distance queries in miles.
type TravelEstimator interface {
	Distance(ctx context.Context, from, to domain.Coordinates) (float64, error)
}

// Forecast is the minimal weather shape constraints consult.
type Forecast struct {
	Condition     string  `json:"condition"`
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"` // probability in [0,1]
}

// WeatherService answers per-venue, per-date forecast queries.
type WeatherService interface {
	Forecast(ctx context.Context, venue domain.Venue, date time.Time) (Forecast, error)
}

// Optimizer produces an improved schedule under the given constraint set.
// The contract only: implementations live outside this repository.
type Optimizer interface {
	Optimize(ctx context.Context, s *domain.Schedule, defs []constraint.Definition) (*domain.Schedule, error)
}

// WeightProvider optionally overrides per-constraint weights before
// aggregation. A missing entry means the definition weight stands.
type WeightProvider interface {
	Weights(ctx context.Context, scheduleID string) (map[string]float64, error)
}
