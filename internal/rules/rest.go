package rules

import (
	"context"
	"fmt"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/timeutil"
)

// RestParams configures the team-rest-days rule.
type RestParams struct {
	MinRestDays   int `json:"minRestDays"`
	IdealRestDays int `json:"idealRestDays"`
}

func (p RestParams) Validate() error {
	if p.MinRestDays < 0 {
		return fmt.Errorf("minRestDays must be non-negative, got %d", p.MinRestDays)
	}
	if p.IdealRestDays < p.MinRestDays {
		return fmt.Errorf("idealRestDays %d below minRestDays %d", p.IdealRestDays, p.MinRestDays)
	}
	return nil
}

// DefaultRestParams allows back-to-back days but prefers two days between games.
var DefaultRestParams = RestParams{MinRestDays: 1, IdealRestDays: 2}

// TeamRest returns the soft rule that teams get adequate days off between
// games.
func TeamRest(params RestParams) constraint.Definition {
	return constraint.Definition{
		ID:             "team-rest-days",
		Name:           "Team Rest Days",
		Hardness:       constraint.Soft,
		Weight:         6,
		Tags:           []string{"welfare", "balance"},
		Params:         params,
		Cacheable:      true,
		Parallelizable: true,
		Evaluate:       evaluateTeamRest,
	}
}

func evaluateTeamRest(_ context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
	p, ok := params.(RestParams)
	if !ok {
		p = DefaultRestParams
	}

	result := &constraint.Result{Confidence: 1}
	gapCount := 0
	shortGaps := 0

	for _, team := range s.Teams {
		games := s.GamesForTeam(team.ID)
		// Series games are exempt: consecutive days are the point of a series.
		sameSeries := func(a, b domain.Game) bool {
			return a.PairKey() == b.PairKey() && timeutil.WeekKey(a.DateTime()) == timeutil.WeekKey(b.DateTime())
		}

		for i := 0; i+1 < len(games); i++ {
			prev, next := games[i], games[i+1]
			if sameSeries(prev, next) {
				continue
			}
			gapCount++
			gap := timeutil.DaysBetween(prev.DateTime(), next.DateTime())

			if gap < p.MinRestDays {
				shortGaps++
				result.Violations = append(result.Violations, constraint.Violation{
					Type:             "insufficient_rest",
					Severity:         constraint.SeverityMajor,
					AffectedEntities: []string{team.ID, prev.ID, next.ID},
					Description: fmt.Sprintf("%s plays %s and %s with %d rest day(s); minimum is %d",
						team.ID, prev.ID, next.ID, gap, p.MinRestDays),
					PossibleResolutions: []string{
						fmt.Sprintf("move game %s at least %d day(s) later", next.ID, p.MinRestDays-gap),
					},
				})
			} else if gap < p.IdealRestDays {
				result.Suggestions = append(result.Suggestions, constraint.Suggestion{
					Type:                "tight_rest",
					Priority:            constraint.PriorityLow,
					Description:         fmt.Sprintf("%s has %d rest day(s) between %s and %s; %d is preferred", team.ID, gap, prev.ID, next.ID, p.IdealRestDays),
					ExpectedImprovement: 2,
				})
			}
		}
	}

	result.Score = fractionClean(gapCount, shortGaps)
	result.Message = fmt.Sprintf("%d of %d game gaps meet the rest minimum", gapCount-shortGaps, gapCount)
	return result, nil
}
