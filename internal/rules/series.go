package rules

import (
	"context"
	"fmt"
	"sort"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/timeutil"
)

// Series is a run of games between the same two teams within one week, the
// baseball/softball scheduling unit.
type Series struct {
	PairKey string
	WeekKey string
	Games   []domain.Game
}

// GameIDs returns the series game identities in date order.
func (s Series) GameIDs() []string {
	ids := make([]string, len(s.Games))
	for i, g := range s.Games {
		ids[i] = g.ID
	}
	return ids
}

// Venues returns the distinct venue identities the series touches.
func (s Series) Venues() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range s.Games {
		if _, ok := seen[g.VenueID]; !ok {
			seen[g.VenueID] = struct{}{}
			out = append(out, g.VenueID)
		}
	}
	return out
}

// Consecutive reports whether the series runs on back-to-back days.
func (s Series) Consecutive() bool {
	for i := 0; i+1 < len(s.Games); i++ {
		if timeutil.DaysBetween(s.Games[i].DateTime(), s.Games[i+1].DateTime()) != 1 {
			return false
		}
	}
	return true
}

// BuildSeries groups a schedule's games into series by team pair and week,
// each series sorted by date. Output order is deterministic (pair key,
// then week).
func BuildSeries(s *domain.Schedule) []Series {
	type key struct{ pair, week string }
	grouped := make(map[key][]domain.Game)
	for _, g := range s.Games {
		k := key{pair: g.PairKey(), week: timeutil.WeekKey(g.DateTime())}
		grouped[k] = append(grouped[k], g)
	}

	keys := make([]key, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].pair != keys[j].pair {
			return keys[i].pair < keys[j].pair
		}
		return keys[i].week < keys[j].week
	})

	out := make([]Series, 0, len(keys))
	for _, k := range keys {
		games := grouped[k]
		sort.Slice(games, func(i, j int) bool { return games[i].StartAt().Before(games[j].StartAt()) })
		out = append(out, Series{PairKey: k.pair, WeekKey: k.week, Games: games})
	}
	return out
}

// SeriesIntegrityParams configures the bs-series-integrity rule.
type SeriesIntegrityParams struct {
	StandardLength int `json:"standardLength"`
	MinLength      int `json:"minLength"`
	MaxLength      int `json:"maxLength"`
}

func (p SeriesIntegrityParams) Validate() error {
	if p.StandardLength < p.MinLength || p.StandardLength > p.MaxLength {
		return fmt.Errorf("standard series length %d outside [%d,%d]", p.StandardLength, p.MinLength, p.MaxLength)
	}
	return nil
}

// DefaultSeriesParams is the conventional 3-game weekend series shape.
var DefaultSeriesParams = SeriesIntegrityParams{StandardLength: 3, MinLength: 2, MaxLength: 4}

// SeriesIntegrity returns the hard baseball/softball rule: a series must
// stay at one venue. Length and day-spacing departures are advisory only.
func SeriesIntegrity(sport domain.Sport, params SeriesIntegrityParams) constraint.Definition {
	return constraint.Definition{
		ID:             "bs-series-integrity",
		Name:           "Series Integrity",
		Sport:          sport,
		Hardness:       constraint.Hard,
		Weight:         9,
		Tags:           []string{"series", "pattern"},
		Params:         params,
		Cacheable:      true,
		Parallelizable: true,
		Evaluate:       evaluateSeriesIntegrity,
	}
}

func evaluateSeriesIntegrity(_ context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
	p, ok := params.(SeriesIntegrityParams)
	if !ok {
		p = DefaultSeriesParams
	}

	result := &constraint.Result{Confidence: 1}
	series := BuildSeries(s)

	flawed := 0
	hostCounts := make(map[string]map[string]int) // pair -> home team -> series hosted

	for _, sr := range series {
		if len(sr.Games) < 2 {
			continue // standalone game, not a series
		}

		home := sr.Games[0].HomeTeamID
		if hostCounts[sr.PairKey] == nil {
			hostCounts[sr.PairKey] = make(map[string]int)
		}
		hostCounts[sr.PairKey][home]++

		// Only a split-venue series breaks the hard guarantee. Length and
		// spacing problems stay advisory.
		if venues := sr.Venues(); len(venues) > 1 {
			entities := append(sr.GameIDs(), venues...)
			result.Violations = append(result.Violations, constraint.Violation{
				Type:             "split_series_venue",
				Severity:         constraint.SeverityCritical,
				AffectedEntities: entities,
				Description: fmt.Sprintf("series %s (week of %s) is split across %d venues",
					sr.PairKey, sr.WeekKey, len(venues)),
				PossibleResolutions: []string{
					fmt.Sprintf("consolidate all %d games at venue %s", len(sr.Games), venues[0]),
				},
			})
			flawed++
		}

		if n := len(sr.Games); n < p.MinLength || n > p.MaxLength {
			result.Suggestions = append(result.Suggestions, constraint.Suggestion{
				Type:     "series_length",
				Priority: constraint.PriorityMedium,
				Description: fmt.Sprintf("series %s has %d games; acceptable range is %d-%d",
					sr.PairKey, n, p.MinLength, p.MaxLength),
				Implementation: "trim or extend the series to fit the acceptable range",
			})
		} else if n != p.StandardLength {
			result.Suggestions = append(result.Suggestions, constraint.Suggestion{
				Type:        "series_length",
				Priority:    constraint.PriorityLow,
				Description: fmt.Sprintf("series %s (week of %s) has %d games; the standard is %d", sr.PairKey, sr.WeekKey, n, p.StandardLength),
			})
		}

		if !sr.Consecutive() {
			result.Suggestions = append(result.Suggestions, constraint.Suggestion{
				Type:     "non_consecutive_series",
				Priority: constraint.PriorityMedium,
				Description: fmt.Sprintf("series %s (week of %s) has gaps between game days",
					sr.PairKey, sr.WeekKey),
				Implementation: "reschedule the series onto consecutive days",
			})
		}
	}

	// Unbalanced hosting stays advisory pending product clarification: the
	// original flags it as a suggestion even though its own invariant says
	// two series per matchup should split home/away.
	pairs := make([]string, 0, len(hostCounts))
	for pair := range hostCounts {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)
	for _, pair := range pairs {
		for host, count := range hostCounts[pair] {
			if count >= 2 && len(hostCounts[pair]) == 1 {
				result.Suggestions = append(result.Suggestions, constraint.Suggestion{
					Type:                "series_hosting_balance",
					Priority:            constraint.PriorityMedium,
					Description:         fmt.Sprintf("%s hosts all %d series of matchup %s", host, count, pair),
					Implementation:      "alternate the home site between series of the same matchup",
					ExpectedImprovement: 5,
				})
			}
		}
	}

	total := 0
	for _, sr := range series {
		if len(sr.Games) >= 2 {
			total++
		}
	}
	result.Score = fractionClean(total, flawed)
	result.Message = fmt.Sprintf("%d of %d series intact", total-flawed, total)
	return result, nil
}
