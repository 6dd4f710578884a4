// Package rules holds the built-in constraint catalog: the rule families a
// league schedule is judged against, each packaged as a constraint
// definition with typed parameters.
package rules

import (
	"schedule-engine/internal/collab"
	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
)

// Deps are the external collaborators some rules consult.
type Deps struct {
	Travel  collab.TravelEstimator
	Weather collab.WeatherService
}

// RegisterDefaults installs the standard catalog for a sport into the
// registry. Series integrity only applies to series-based sports.
func RegisterDefaults(reg *constraint.Registry, sport domain.Sport, deps Deps) error {
	defs := []constraint.Definition{
		VenueAvailability(VenueAvailabilityParams{EnforceSportHosting: true}),
		VenueConflictPrevention(),
		TeamRest(DefaultRestParams),
		HomeAwayBalance(DefaultBalanceParams),
		WeekendDistribution(DefaultWeekendParams),
	}
	if deps.Travel != nil {
		defs = append(defs, TravelBurden(DefaultTravelParams, deps.Travel))
	}
	if deps.Weather != nil {
		defs = append(defs, WeatherRisk(DefaultWeatherParams, deps.Weather))
	}
	if sport == domain.SportBaseball || sport == domain.SportSoftball {
		defs = append(defs, SeriesIntegrity(sport, DefaultSeriesParams))
	}

	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}
