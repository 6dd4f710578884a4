package scenario

import (
	"fmt"
	"sort"
	"time"
)

// MetricComparison names the best and worst scenario on one dimension.
type MetricComparison struct {
	BestScenarioID       string  `json:"bestScenarioId"`
	WorstScenarioID      string  `json:"worstScenarioId"`
	BestValue            float64 `json:"bestValue"`
	WorstValue           float64 `json:"worstValue"`
	PercentageDifference float64 `json:"percentageDifference"`
}

// Ranking is one scenario's place in the composite ordering.
type Ranking struct {
	Rank           int     `json:"rank"`
	ScenarioID     string  `json:"scenarioId"`
	Name           string  `json:"name"`
	CompositeScore float64 `json:"compositeScore"`
	OverallScore   float64 `json:"overallScore"`
}

// Recommendation points at one scenario for one reason.
type Recommendation struct {
	Type       string `json:"type"` // best_overall | best_travel | best_balance | compromise
	ScenarioID string `json:"scenarioId"`
	Reason     string `json:"reason"`
}

// Comparison is the outcome of comparing two or more valid scenarios.
type Comparison struct {
	ScenarioIDs     []string         `json:"scenarioIds"`
	Travel          MetricComparison `json:"travel"`
	Balance         MetricComparison `json:"balance"`
	Rankings        []Ranking        `json:"rankings"`
	Recommendations []Recommendation `json:"recommendations"`
	ComparedAt      time.Time        `json:"comparedAt"`
}

// CompareScenarios ranks previously generated scenarios. It requires at
// least two valid (non-errored) scenarios among the given identities.
func (c *Comparator) CompareScenarios(ids []string) (*Comparison, error) {
	var valid []Scenario
	for _, id := range ids {
		sc, ok := c.Scenario(id)
		if !ok {
			return nil, fmt.Errorf("scenario %q not found", id)
		}
		if sc.Valid() {
			valid = append(valid, sc)
		}
	}
	if len(valid) < 2 {
		return nil, fmt.Errorf("comparison needs at least 2 valid scenarios, have %d", len(valid))
	}

	cmp := &Comparison{ComparedAt: time.Now()}
	for _, sc := range valid {
		cmp.ScenarioIDs = append(cmp.ScenarioIDs, sc.ID)
	}

	cmp.Travel = compareTravel(valid)
	cmp.Balance = compareBalance(valid)
	cmp.Rankings = rank(valid)
	cmp.Recommendations = c.recommend(valid, cmp)
	return cmp, nil
}

// compareTravel treats fewer miles as better.
func compareTravel(scenarios []Scenario) MetricComparison {
	best, worst := scenarios[0], scenarios[0]
	for _, sc := range scenarios[1:] {
		if sc.Metrics.TotalTravelMiles < best.Metrics.TotalTravelMiles {
			best = sc
		}
		if sc.Metrics.TotalTravelMiles > worst.Metrics.TotalTravelMiles {
			worst = sc
		}
	}
	out := MetricComparison{
		BestScenarioID:  best.ID,
		WorstScenarioID: worst.ID,
		BestValue:       best.Metrics.TotalTravelMiles,
		WorstValue:      worst.Metrics.TotalTravelMiles,
	}
	if out.BestValue > 0 {
		out.PercentageDifference = (out.WorstValue - out.BestValue) / out.BestValue * 100
	}
	return out
}

// compareBalance treats a higher balance score as better.
func compareBalance(scenarios []Scenario) MetricComparison {
	best, worst := scenarios[0], scenarios[0]
	for _, sc := range scenarios[1:] {
		if sc.Metrics.BalanceScore > best.Metrics.BalanceScore {
			best = sc
		}
		if sc.Metrics.BalanceScore < worst.Metrics.BalanceScore {
			worst = sc
		}
	}
	out := MetricComparison{
		BestScenarioID:  best.ID,
		WorstScenarioID: worst.ID,
		BestValue:       best.Metrics.BalanceScore,
		WorstValue:      worst.Metrics.BalanceScore,
	}
	if out.WorstValue > 0 {
		out.PercentageDifference = (out.BestValue - out.WorstValue) / out.WorstValue * 100
	}
	return out
}

// rank orders scenarios by composite score descending; identity breaks
// ties so the ordering is a total order.
func rank(scenarios []Scenario) []Ranking {
	sorted := append([]Scenario(nil), scenarios...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CompositeScore() != sorted[j].CompositeScore() {
			return sorted[i].CompositeScore() > sorted[j].CompositeScore()
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([]Ranking, len(sorted))
	for i, sc := range sorted {
		out[i] = Ranking{
			Rank:           i + 1,
			ScenarioID:     sc.ID,
			Name:           sc.Name,
			CompositeScore: sc.CompositeScore(),
			OverallScore:   sc.OverallScore(),
		}
	}
	return out
}

func (c *Comparator) recommend(valid []Scenario, cmp *Comparison) []Recommendation {
	var out []Recommendation
	best := cmp.Rankings[0]
	out = append(out, Recommendation{
		Type:       "best_overall",
		ScenarioID: best.ScenarioID,
		Reason:     fmt.Sprintf("highest composite score (%.3f)", best.CompositeScore),
	})

	if cmp.Travel.PercentageDifference > c.cfg.ComparisonThreshold {
		out = append(out, Recommendation{
			Type:       "best_travel",
			ScenarioID: cmp.Travel.BestScenarioID,
			Reason: fmt.Sprintf("%.1f%% less travel than the worst scenario (%.0f vs %.0f miles)",
				cmp.Travel.PercentageDifference, cmp.Travel.BestValue, cmp.Travel.WorstValue),
		})
	}
	if cmp.Balance.PercentageDifference > c.cfg.ComparisonThreshold {
		out = append(out, Recommendation{
			Type:       "best_balance",
			ScenarioID: cmp.Balance.BestScenarioID,
			Reason:     fmt.Sprintf("%.1f%% better home/away balance than the worst scenario", cmp.Balance.PercentageDifference),
		})
	}
	if len(valid) >= 3 {
		second := cmp.Rankings[1]
		out = append(out, Recommendation{
			Type:       "compromise",
			ScenarioID: second.ScenarioID,
			Reason:     fmt.Sprintf("second-ranked composite score (%.3f), a fallback if the leader proves infeasible", second.CompositeScore),
		})
	}
	return out
}
