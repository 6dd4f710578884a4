package domain

import "sort"

// Schedule is the read-only input to every evaluation: an ordered set of
// games plus the teams and venues they reference. The engine never mutates
// a Schedule it is handed.
type Schedule struct {
	ID         string  `json:"id"`
	Sport      Sport   `json:"sport"`
	Season     string  `json:"season"`
	Conference string  `json:"conference,omitempty"`
	Games      []Game  `json:"games"`
	Teams      []Team  `json:"teams"`
	Venues     []Venue `json:"venues"`
}

// TeamByID looks up a team by identity.
func (s *Schedule) TeamByID(id string) (Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// VenueByID looks up a venue by identity.
func (s *Schedule) VenueByID(id string) (Venue, bool) {
	for _, v := range s.Venues {
		if v.ID == id {
			return v, true
		}
	}
	return Venue{}, false
}

// GameByID looks up a game by identity.
func (s *Schedule) GameByID(id string) (Game, bool) {
	for _, g := range s.Games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// GamesForTeam returns the team's games in chronological order.
func (s *Schedule) GamesForTeam(teamID string) []Game {
	var out []Game
	for _, g := range s.Games {
		if g.Involves(teamID) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt().Before(out[j].StartAt()) })
	return out
}

// GamesByVenue groups games by venue identity.
func (s *Schedule) GamesByVenue() map[string][]Game {
	out := make(map[string][]Game)
	for _, g := range s.Games {
		out[g.VenueID] = append(out[g.VenueID], g)
	}
	return out
}

// Clone returns a deep copy; scenario generation mutates copies, never the base.
func (s *Schedule) Clone() *Schedule {
	cp := &Schedule{
		ID:         s.ID,
		Sport:      s.Sport,
		Season:     s.Season,
		Conference: s.Conference,
		Games:      make([]Game, len(s.Games)),
		Teams:      make([]Team, len(s.Teams)),
		Venues:     make([]Venue, len(s.Venues)),
	}
	copy(cp.Games, s.Games)
	copy(cp.Teams, s.Teams)
	for i, v := range s.Venues {
		vc := v
		vc.Sports = append([]Sport(nil), v.Sports...)
		vc.SharedTeams = append([]string(nil), v.SharedTeams...)
		vc.Availability = append([]AvailabilityWindow(nil), v.Availability...)
		cp.Venues[i] = vc
	}
	return cp
}
