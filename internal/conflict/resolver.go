package conflict

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
)

// Impact is a qualitative tag for how disruptive a resolution would be to
// the rest of the schedule.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Resolution is a descriptive instruction for fixing a conflict. It is
// never auto-applied; acting on it is the caller's call.
type Resolution struct {
	ID          string  `json:"id"`
	ConflictID  string  `json:"conflictId"`
	Description string  `json:"description"`
	Feasibility float64 `json:"feasibility"` // estimated ease of the fix, [0,1]
	Impact      Impact  `json:"impact"`
	Confidence  float64 `json:"confidence"`
}

// SuggestResolutions proposes fixes for one conflict, ranked by
// feasibility descending. When feasibility cannot be estimated the
// resolution is still emitted with low confidence rather than dropped.
func (d *Detector) SuggestResolutions(conflict Conflict, s *domain.Schedule) []Resolution {
	var out []Resolution
	seen := make(map[string]bool)
	add := func(r Resolution) {
		if r.Description == "" || seen[r.Description] {
			return
		}
		seen[r.Description] = true
		r.ID = uuid.NewString()
		r.ConflictID = conflict.ID
		out = append(out, r)
	}

	for _, v := range conflict.Violations {
		switch v.Type {
		case "venue_overlap", "insufficient_changeover", "tight_changeover":
			resolveChangeover(v, s, add)
		case "split_series_venue":
			resolveSplitSeries(v, s, add)
		case "insufficient_rest", "tight_rest":
			if game, ok := lastGameEntity(v, s); ok {
				add(Resolution{
					Description: fmt.Sprintf("push game %s to a later date to restore the rest gap", game.ID),
					Feasibility: 0.7,
					Impact:      ImpactMedium,
					Confidence:  0.8,
				})
			}
		case "venue_unavailable", "venue_outside_availability":
			add(Resolution{
				Description: "reschedule the game to a time the venue is open",
				Feasibility: 0.5,
				Impact:      ImpactHigh,
				Confidence:  0.8,
			})
		default:
			// Fall back to the violation's own resolution hints; without a
			// model of the fix, feasibility is a guess and confidence low.
			for _, hint := range v.PossibleResolutions {
				add(Resolution{
					Description: hint,
					Feasibility: 0.5,
					Impact:      ImpactLow,
					Confidence:  0.3,
				})
			}
		}
	}

	if len(out) == 0 {
		add(Resolution{
			Description: fmt.Sprintf("manually review entities %v", conflict.EntityIDs),
			Feasibility: 0.5,
			Impact:      ImpactLow,
			Confidence:  0.2,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Feasibility > out[j].Feasibility })
	return out
}

// resolveChangeover proposes either delaying the later event or relocating
// it. Relocation feasibility depends on whether the schedule carries an
// alternate venue that hosts the sport.
func resolveChangeover(v constraint.Violation, s *domain.Schedule, add func(Resolution)) {
	game, ok := lastGameEntity(v, s)
	if !ok {
		for _, hint := range v.PossibleResolutions {
			add(Resolution{Description: hint, Feasibility: 0.5, Impact: ImpactLow, Confidence: 0.3})
		}
		return
	}

	add(Resolution{
		Description: fmt.Sprintf("delay game %s to a later start or the next day", game.ID),
		Feasibility: 0.8,
		Impact:      ImpactMedium,
		Confidence:  0.9,
	})

	if alt, ok := alternateVenue(s, game); ok {
		add(Resolution{
			Description: fmt.Sprintf("relocate game %s to %s", game.ID, alt.Name),
			Feasibility: 0.6,
			Impact:      ImpactHigh,
			Confidence:  0.8,
		})
	} else {
		add(Resolution{
			Description: fmt.Sprintf("relocate game %s to another venue", game.ID),
			Feasibility: 0.2,
			Impact:      ImpactHigh,
			Confidence:  0.3, // no alternate venue on file to estimate against
		})
	}
}

func resolveSplitSeries(v constraint.Violation, s *domain.Schedule, add func(Resolution)) {
	// Pick the venue hosting most of the series as the consolidation target.
	counts := make(map[string]int)
	for _, id := range v.AffectedEntities {
		if g, ok := s.GameByID(id); ok {
			counts[g.VenueID]++
		}
	}
	target, best := "", 0
	for _, venueID := range sortedCountKeys(counts) {
		if counts[venueID] > best {
			target, best = venueID, counts[venueID]
		}
	}
	if venue, ok := s.VenueByID(target); ok {
		add(Resolution{
			Description: fmt.Sprintf("consolidate the series at %s", venue.Name),
			Feasibility: 0.7,
			Impact:      ImpactMedium,
			Confidence:  0.8,
		})
		return
	}
	add(Resolution{
		Description: "consolidate the series at a single venue",
		Feasibility: 0.5,
		Impact:      ImpactMedium,
		Confidence:  0.3,
	})
}

// lastGameEntity returns the latest-starting game named by the violation's
// affected entities.
func lastGameEntity(v constraint.Violation, s *domain.Schedule) (domain.Game, bool) {
	var last domain.Game
	found := false
	for _, id := range v.AffectedEntities {
		g, ok := s.GameByID(id)
		if !ok {
			continue
		}
		if !found || g.StartAt().After(last.StartAt()) {
			last, found = g, true
		}
	}
	return last, found
}

// alternateVenue finds another venue in the schedule hosting the game's sport.
func alternateVenue(s *domain.Schedule, game domain.Game) (domain.Venue, bool) {
	for _, v := range s.Venues {
		if v.ID == game.VenueID {
			continue
		}
		if len(v.Sports) == 0 || v.HostsSport(game.Sport) {
			return v, true
		}
	}
	return domain.Venue{}, false
}

func sortedCountKeys(counts map[string]int) []string {
	out := make([]string, 0, len(counts))
	for k := range counts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
