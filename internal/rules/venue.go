package rules

import (
	"context"
	"fmt"
	"sort"
	"time"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/timeutil"
)

// VenueAvailabilityParams configures the venue-availability rule.
type VenueAvailabilityParams struct {
	// EnforceSportHosting flags games booked at venues that do not list
	// the game's sport.
	EnforceSportHosting bool `json:"enforceSportHosting"`
}

func (VenueAvailabilityParams) Validate() error { return nil }

// VenueAvailability returns the hard rule that every game must land inside
// its venue's availability and outside explicit blocks.
func VenueAvailability(params VenueAvailabilityParams) constraint.Definition {
	return constraint.Definition{
		ID:             "venue-availability",
		Name:           "Venue Availability",
		Hardness:       constraint.Hard,
		Weight:         10,
		Tags:           []string{"venue", "feasibility"},
		Params:         params,
		Cacheable:      true,
		Parallelizable: true,
		Evaluate:       evaluateVenueAvailability,
	}
}

func evaluateVenueAvailability(_ context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
	p, _ := params.(VenueAvailabilityParams)

	result := &constraint.Result{Confidence: 1}
	for _, g := range s.Games {
		venue, ok := s.VenueByID(g.VenueID)
		if !ok {
			result.Violations = append(result.Violations, constraint.Violation{
				Type:             "venue_missing",
				Severity:         constraint.SeverityCritical,
				AffectedEntities: []string{g.ID, g.VenueID},
				Description:      fmt.Sprintf("game %s references unknown venue %s", g.ID, g.VenueID),
				PossibleResolutions: []string{
					fmt.Sprintf("assign game %s to a registered venue", g.ID),
				},
			})
			continue
		}

		if p.EnforceSportHosting && len(venue.Sports) > 0 && !venue.HostsSport(g.Sport) {
			result.Violations = append(result.Violations, constraint.Violation{
				Type:             "sport_not_hosted",
				Severity:         constraint.SeverityMajor,
				AffectedEntities: []string{g.ID, venue.ID},
				Description:      fmt.Sprintf("venue %s does not host %s", venue.Name, g.Sport),
			})
		}

		start := g.StartAt()
		end := start.Add(GameDuration(g.Sport))
		if window, blocked := blockingWindow(venue, start, end); blocked {
			desc := fmt.Sprintf("game %s at %s falls inside an unavailable window", g.ID, venue.Name)
			if window.Reason != "" {
				desc += " (" + window.Reason + ")"
			}
			result.Violations = append(result.Violations, constraint.Violation{
				Type:             "venue_unavailable",
				Severity:         constraint.SeverityCritical,
				AffectedEntities: []string{g.ID, venue.ID},
				Description:      desc,
				PossibleResolutions: []string{
					fmt.Sprintf("move game %s outside %s–%s", g.ID, timeutil.FormatDate(window.Start), timeutil.FormatDate(window.End)),
				},
			})
		} else if !insideAvailableWindow(venue, start, end) {
			result.Violations = append(result.Violations, constraint.Violation{
				Type:             "venue_outside_availability",
				Severity:         constraint.SeverityCritical,
				AffectedEntities: []string{g.ID, venue.ID},
				Description:      fmt.Sprintf("game %s falls outside every declared available window of %s", g.ID, venue.Name),
				PossibleResolutions: []string{
					fmt.Sprintf("move game %s into one of %s's available windows", g.ID, venue.Name),
				},
			})
		}
	}

	result.Score = fractionClean(len(s.Games), len(result.Violations))
	result.Message = fmt.Sprintf("%d of %d games inside venue availability", len(s.Games)-len(result.Violations), len(s.Games))
	return result, nil
}

// blockingWindow reports whether [start, end) intersects an explicit
// unavailable window of the venue.
func blockingWindow(venue domain.Venue, start, end time.Time) (domain.AvailabilityWindow, bool) {
	for _, w := range venue.Availability {
		if w.Available {
			continue
		}
		if start.Before(w.End) && w.Start.Before(end) {
			return w, true
		}
	}
	return domain.AvailabilityWindow{}, false
}

// insideAvailableWindow reports whether [start, end) fits entirely inside
// one of the venue's declared available windows. A venue that declares no
// available windows is open at any time not explicitly blocked.
func insideAvailableWindow(venue domain.Venue, start, end time.Time) bool {
	declared := false
	for _, w := range venue.Availability {
		if !w.Available {
			continue
		}
		declared = true
		if !start.Before(w.Start) && !end.After(w.End) {
			return true
		}
	}
	return !declared
}

// VenueChangeoverParams configures the vs-conflict-prevention rule.
type VenueChangeoverParams struct{}

func (VenueChangeoverParams) Validate() error { return nil }

// VenueConflictPrevention returns the hard rule guarding same-venue,
// same-day events: no overlaps and no changeover gaps below the sport-pair
// minimum. It needs the whole schedule's venue picture, so it is not
// parallelizable.
func VenueConflictPrevention() constraint.Definition {
	return constraint.Definition{
		ID:             "vs-conflict-prevention",
		Name:           "Venue Conflict Prevention",
		Hardness:       constraint.Hard,
		Weight:         10,
		Tags:           []string{"venue", "changeover"},
		Params:         VenueChangeoverParams{},
		Cacheable:      true,
		Parallelizable: false,
		Evaluate: func(_ context.Context, s *domain.Schedule, _ constraint.Params) (*constraint.Result, error) {
			violations, pairs := DetectVenueChangeover(s)
			result := &constraint.Result{
				Violations: violations,
				Confidence: 1,
				Score:      fractionClean(pairs, len(violations)),
				Message:    fmt.Sprintf("%d changeover issues across %d same-day venue pairings", len(violations), pairs),
			}
			return result, nil
		},
	}
}

// DetectVenueChangeover walks each venue's per-day game list in start-time
// order and compares the gap between consecutive events to the sport-pair
// changeover requirement. It returns the violations and the number of
// same-day pairings examined.
func DetectVenueChangeover(s *domain.Schedule) ([]constraint.Violation, int) {
	var violations []constraint.Violation
	pairs := 0

	byVenue := s.GamesByVenue()
	venueIDs := make([]string, 0, len(byVenue))
	for id := range byVenue {
		venueIDs = append(venueIDs, id)
	}
	sort.Strings(venueIDs)

	for _, venueID := range venueIDs {
		venue, _ := s.VenueByID(venueID)

		byDay := make(map[string][]domain.Game)
		for _, g := range byVenue[venueID] {
			byDay[g.Date] = append(byDay[g.Date], g)
		}
		days := make([]string, 0, len(byDay))
		for d := range byDay {
			days = append(days, d)
		}
		sort.Strings(days)

		for _, day := range days {
			games := byDay[day]
			sort.Slice(games, func(i, j int) bool { return games[i].StartAt().Before(games[j].StartAt()) })

			for i := 0; i+1 < len(games); i++ {
				prev, next := games[i], games[i+1]
				pairs++

				prevEnd := prev.StartAt().Add(GameDuration(prev.Sport))
				gap := next.StartAt().Sub(prevEnd)
				minimum, ideal := ChangeoverRequirement(prev.Sport, next.Sport, venue.Dedicated())

				switch {
				case gap < 0:
					violations = append(violations, constraint.Violation{
						Type:             "venue_overlap",
						Severity:         constraint.SeverityCritical,
						AffectedEntities: []string{prev.ID, next.ID, venueID},
						Description: fmt.Sprintf("games %s and %s overlap at %s on %s",
							prev.ID, next.ID, venue.Name, day),
						PossibleResolutions: []string{
							fmt.Sprintf("move game %s to a later start or another date", next.ID),
							fmt.Sprintf("relocate game %s to another venue", next.ID),
						},
					})
				case gap < minimum:
					violations = append(violations, constraint.Violation{
						Type:             "insufficient_changeover",
						Severity:         constraint.SeverityCritical,
						AffectedEntities: []string{prev.ID, next.ID, venueID},
						Description: fmt.Sprintf("only %s between %s (%s) and %s (%s) at %s; %s ↔ %s requires at least %s",
							gap, prev.ID, prev.Sport, next.ID, next.Sport, venue.Name, prev.Sport, next.Sport, minimum),
						PossibleResolutions: []string{
							fmt.Sprintf("delay game %s by %s", next.ID, minimum-gap),
						},
					})
				case gap < ideal:
					violations = append(violations, constraint.Violation{
						Type:             "tight_changeover",
						Severity:         constraint.SeverityMinor,
						AffectedEntities: []string{prev.ID, next.ID, venueID},
						Description: fmt.Sprintf("%s between %s and %s at %s is workable but below the ideal %s",
							gap, prev.ID, next.ID, venue.Name, ideal),
					})
				}
			}
		}
	}

	return violations, pairs
}

// fractionClean maps (total units, issue count) onto a [0,1] score.
func fractionClean(total, issues int) float64 {
	if total <= 0 {
		return 1
	}
	score := 1 - float64(issues)/float64(total)
	if score < 0 {
		return 0
	}
	return score
}
