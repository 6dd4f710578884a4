package rules

import (
	"context"
	"fmt"
	"sort"

	"schedule-engine/internal/collab"
	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
)

// TravelParams configures the travel-burden rule.
type TravelParams struct {
	// MaxSeasonMiles caps one team's total season travel.
	MaxSeasonMiles float64 `json:"maxSeasonMiles"`
}

func (p TravelParams) Validate() error {
	if p.MaxSeasonMiles <= 0 {
		return fmt.Errorf("maxSeasonMiles must be positive, got %v", p.MaxSeasonMiles)
	}
	return nil
}

// DefaultTravelParams caps season travel at 10,000 miles per team.
var DefaultTravelParams = TravelParams{MaxSeasonMiles: 10000}

// TravelBurden returns the soft rule capping per-team season travel. The
// distance lookup goes through the external travel collaborator, so the
// evaluation respects ctx deadlines and surfaces lookup failures to the
// engine for local recovery.
func TravelBurden(params TravelParams, estimator collab.TravelEstimator) constraint.Definition {
	return constraint.Definition{
		ID:       "travel-burden",
		Name:     "Travel Burden",
		Hardness: constraint.Soft,
		Weight:   7,
		Tags:     []string{"travel"},
		Params:   params,
		// Results depend on an external service, so they are not reused
		// from cache.
		Cacheable:      false,
		Parallelizable: true,
		Evaluate: func(ctx context.Context, s *domain.Schedule, p constraint.Params) (*constraint.Result, error) {
			tp, ok := p.(TravelParams)
			if !ok {
				tp = DefaultTravelParams
			}
			return evaluateTravelBurden(ctx, s, tp, estimator)
		},
	}
}

// TeamTravelMiles sums a team's round-trip miles to away venues, using its
// most common home venue as the origin.
func TeamTravelMiles(ctx context.Context, s *domain.Schedule, teamID string, estimator collab.TravelEstimator) (float64, error) {
	origin, ok := homeVenue(s, teamID)
	if !ok {
		return 0, nil
	}

	total := 0.0
	for _, g := range s.GamesForTeam(teamID) {
		if g.HomeTeamID == teamID {
			continue
		}
		venue, ok := s.VenueByID(g.VenueID)
		if !ok {
			continue
		}
		miles, err := estimator.Distance(ctx, origin.Location, venue.Location)
		if err != nil {
			return 0, fmt.Errorf("travel lookup for %s: %w", teamID, err)
		}
		total += miles * 2 // round trip
	}
	return total, nil
}

func homeVenue(s *domain.Schedule, teamID string) (domain.Venue, bool) {
	counts := make(map[string]int)
	for _, g := range s.Games {
		if g.HomeTeamID == teamID {
			counts[g.VenueID]++
		}
	}
	bestID, best := "", 0
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if counts[id] > best {
			bestID, best = id, counts[id]
		}
	}
	if bestID == "" {
		return domain.Venue{}, false
	}
	return s.VenueByID(bestID)
}

func evaluateTravelBurden(ctx context.Context, s *domain.Schedule, p TravelParams, estimator collab.TravelEstimator) (*constraint.Result, error) {
	result := &constraint.Result{Confidence: 0.9} // distances are estimates
	over := 0

	for _, team := range s.Teams {
		miles, err := TeamTravelMiles(ctx, s, team.ID, estimator)
		if err != nil {
			return nil, err
		}
		if miles <= p.MaxSeasonMiles {
			continue
		}
		over++
		result.Violations = append(result.Violations, constraint.Violation{
			Type:             "excessive_travel",
			Severity:         constraint.SeverityMajor,
			AffectedEntities: []string{team.ID},
			Description: fmt.Sprintf("%s travels %.0f miles this season; cap is %.0f",
				team.ID, miles, p.MaxSeasonMiles),
			PossibleResolutions: []string{
				fmt.Sprintf("cluster %s road games into regional trips", team.ID),
			},
		})
	}

	result.Score = fractionClean(len(s.Teams), over)
	result.Message = fmt.Sprintf("%d of %d teams within the travel cap", len(s.Teams)-over, len(s.Teams))
	return result, nil
}
