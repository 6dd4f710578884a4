package domain

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Signature returns a stable 64-bit digest of the schedule's identity-bearing
// fields. Two schedules with the same games (ids, teams, venues, dates,
// start times) hash identically regardless of game order, so repeated
// evaluation of an unchanged schedule hits the result cache.
func (s *Schedule) Signature() uint64 {
	lines := make([]string, 0, len(s.Games)+1)
	lines = append(lines, fmt.Sprintf("%s|%s|%s|%s", s.ID, s.Sport, s.Season, s.Conference))
	for _, g := range s.Games {
		lines = append(lines, fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%s",
			g.ID, g.HomeTeamID, g.AwayTeamID, g.VenueID, g.Date, g.StartTime, g.Sport, g.Type))
	}
	sort.Strings(lines[1:])

	h := xxhash.New()
	for _, line := range lines {
		_, _ = h.WriteString(line)
		_, _ = h.WriteString("\n")
	}
	return h.Sum64()
}
