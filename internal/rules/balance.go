package rules

import (
	"context"
	"fmt"
	"math"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/timeutil"
)

// BalanceParams configures the home-away-balance rule.
type BalanceParams struct {
	// Tolerance is the acceptable deviation of a team's home share from
	// 0.5, e.g. 0.15 accepts anything in [0.35, 0.65].
	Tolerance float64 `json:"tolerance"`
	// MinGames is the smallest sample worth judging.
	MinGames int `json:"minGames"`
}

func (p BalanceParams) Validate() error {
	if p.Tolerance <= 0 || p.Tolerance >= 0.5 {
		return fmt.Errorf("tolerance must be in (0, 0.5), got %v", p.Tolerance)
	}
	return nil
}

// DefaultBalanceParams accepts a 35/65 home/away split on 4+ games.
var DefaultBalanceParams = BalanceParams{Tolerance: 0.15, MinGames: 4}

// HomeAwayBalance returns the soft rule that each team's home share stays
// near 50%.
func HomeAwayBalance(params BalanceParams) constraint.Definition {
	return constraint.Definition{
		ID:             "home-away-balance",
		Name:           "Home/Away Balance",
		Hardness:       constraint.Soft,
		Weight:         5,
		Tags:           []string{"balance"},
		Params:         params,
		Cacheable:      true,
		Parallelizable: true,
		Evaluate:       evaluateHomeAwayBalance,
	}
}

func evaluateHomeAwayBalance(_ context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
	p, ok := params.(BalanceParams)
	if !ok {
		p = DefaultBalanceParams
	}

	result := &constraint.Result{Confidence: 1}
	judged, unbalanced := 0, 0

	for _, team := range s.Teams {
		games := s.GamesForTeam(team.ID)
		if len(games) < p.MinGames {
			continue
		}
		judged++

		home := 0
		for _, g := range games {
			if g.HomeTeamID == team.ID {
				home++
			}
		}
		share := float64(home) / float64(len(games))
		deviation := math.Abs(share - 0.5)
		if deviation <= p.Tolerance {
			continue
		}

		unbalanced++
		severity := constraint.SeverityMinor
		if deviation > 2*p.Tolerance {
			severity = constraint.SeverityMajor
		}
		result.Violations = append(result.Violations, constraint.Violation{
			Type:             "home_away_imbalance",
			Severity:         severity,
			AffectedEntities: []string{team.ID},
			Description: fmt.Sprintf("%s plays %d of %d games at home (%.0f%%)",
				team.ID, home, len(games), share*100),
		})
		direction := "home"
		if share < 0.5 {
			direction = "away"
		}
		result.Suggestions = append(result.Suggestions, constraint.Suggestion{
			Type:                "rebalance_sites",
			Priority:            constraint.PriorityMedium,
			Description:         fmt.Sprintf("swap a %s game for %s to rebalance", direction, team.ID),
			Implementation:      "flip the home site of one matchup played twice",
			ExpectedImprovement: deviation * 100,
		})
	}

	result.Score = fractionClean(judged, unbalanced)
	result.Message = fmt.Sprintf("%d of %d teams within home/away tolerance", judged-unbalanced, judged)
	return result, nil
}

// WeekendParams configures the weekend-distribution rule.
type WeekendParams struct {
	// MinWeekendShare is the desired floor on the fraction of games
	// played on weekends.
	MinWeekendShare float64 `json:"minWeekendShare"`
}

func (p WeekendParams) Validate() error {
	if p.MinWeekendShare < 0 || p.MinWeekendShare > 1 {
		return fmt.Errorf("minWeekendShare must be in [0,1], got %v", p.MinWeekendShare)
	}
	return nil
}

// DefaultWeekendParams asks for at least 40% weekend games.
var DefaultWeekendParams = WeekendParams{MinWeekendShare: 0.4}

// WeekendDistribution returns the advisory rule preferring weekend dates
// for attendance. It emits suggestions, never violations.
func WeekendDistribution(params WeekendParams) constraint.Definition {
	return constraint.Definition{
		ID:             "weekend-distribution",
		Name:           "Weekend Distribution",
		Hardness:       constraint.Soft,
		Weight:         3,
		Tags:           []string{"attendance"},
		Params:         params,
		Cacheable:      true,
		Parallelizable: true,
		Evaluate:       evaluateWeekendDistribution,
	}
}

func evaluateWeekendDistribution(_ context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
	p, ok := params.(WeekendParams)
	if !ok {
		p = DefaultWeekendParams
	}

	result := &constraint.Result{Confidence: 1}
	if len(s.Games) == 0 {
		result.Score = 1
		result.Message = "no games scheduled"
		return result, nil
	}

	weekend := 0
	for _, g := range s.Games {
		if timeutil.IsWeekend(g.DateTime()) {
			weekend++
		}
	}
	share := float64(weekend) / float64(len(s.Games))

	if p.MinWeekendShare <= 0 || share >= p.MinWeekendShare {
		result.Score = 1
	} else {
		result.Score = share / p.MinWeekendShare
		deficit := int(math.Ceil((p.MinWeekendShare - share) * float64(len(s.Games))))
		result.Suggestions = append(result.Suggestions, constraint.Suggestion{
			Type:                "shift_to_weekend",
			Priority:            constraint.PriorityMedium,
			Description:         fmt.Sprintf("only %.0f%% of games fall on weekends; target is %.0f%%", share*100, p.MinWeekendShare*100),
			Implementation:      fmt.Sprintf("move roughly %d midweek game(s) to Saturday or Sunday", deficit),
			ExpectedImprovement: (p.MinWeekendShare - share) * 100,
		})
	}
	result.Message = fmt.Sprintf("%d of %d games on weekends", weekend, len(s.Games))
	return result, nil
}
