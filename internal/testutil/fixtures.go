// Package testutil provides shared schedule fixtures for tests.
package testutil

import (
	"fmt"

	"schedule-engine/internal/domain"
)

// BasketballSchedule returns a small two-team conference schedule with
// venue coordinates suitable for travel estimates.
func BasketballSchedule() *domain.Schedule {
	return &domain.Schedule{
		ID:         "bb-2026",
		Sport:      domain.SportBasketball,
		Season:     "2025-26",
		Conference: "big12",
		Teams: []domain.Team{
			{ID: "kansas", Name: "Kansas", Conference: "big12"},
			{ID: "baylor", Name: "Baylor", Conference: "big12"},
		},
		Venues: []domain.Venue{
			{
				ID: "allen", Name: "Allen Fieldhouse", Capacity: 16300,
				Location: domain.Coordinates{Latitude: 38.9544, Longitude: -95.2528},
				Sports:   []domain.Sport{domain.SportBasketball},
			},
			{
				ID: "ferrell", Name: "Ferrell Center", Capacity: 10284,
				Location: domain.Coordinates{Latitude: 31.5572, Longitude: -97.1120},
				Sports:   []domain.Sport{domain.SportBasketball},
			},
		},
		Games: []domain.Game{
			{ID: "bb-1", HomeTeamID: "kansas", AwayTeamID: "baylor", VenueID: "allen", Date: "2026-01-10", StartTime: "19:00", Sport: domain.SportBasketball, Type: domain.GameConference},
			{ID: "bb-2", HomeTeamID: "baylor", AwayTeamID: "kansas", VenueID: "ferrell", Date: "2026-01-24", StartTime: "19:00", Sport: domain.SportBasketball, Type: domain.GameConference},
		},
	}
}

// SeriesSchedule returns a baseball schedule with one Fri/Sat/Sun series
// for teams A/B. When split is true the Sunday game moves to a second
// venue, breaking series integrity.
func SeriesSchedule(split bool) *domain.Schedule {
	sundayVenue := "diamond-a"
	if split {
		sundayVenue = "diamond-b"
	}
	return &domain.Schedule{
		ID:     "bsb-2025",
		Sport:  domain.SportBaseball,
		Season: "2025",
		Teams: []domain.Team{
			{ID: "team-a", Name: "Team A"},
			{ID: "team-b", Name: "Team B"},
		},
		Venues: []domain.Venue{
			{ID: "diamond-a", Name: "Diamond A", Sports: []domain.Sport{domain.SportBaseball}},
			{ID: "diamond-b", Name: "Diamond B", Sports: []domain.Sport{domain.SportBaseball}},
		},
		Games: []domain.Game{
			// 2025-06-06 is a Friday.
			{ID: "bs-1", HomeTeamID: "team-a", AwayTeamID: "team-b", VenueID: "diamond-a", Date: "2025-06-06", StartTime: "18:00", Sport: domain.SportBaseball, Type: domain.GameConference},
			{ID: "bs-2", HomeTeamID: "team-a", AwayTeamID: "team-b", VenueID: "diamond-a", Date: "2025-06-07", StartTime: "14:00", Sport: domain.SportBaseball, Type: domain.GameConference},
			{ID: "bs-3", HomeTeamID: "team-a", AwayTeamID: "team-b", VenueID: sundayVenue, Date: "2025-06-08", StartTime: "13:00", Sport: domain.SportBaseball, Type: domain.GameConference},
		},
	}
}

// SharedVenueSchedule returns a basketball game followed by a wrestling
// match at the same shared arena with the given whole-hour gap after the
// basketball game's estimated end.
func SharedVenueSchedule(gapHours int) *domain.Schedule {
	// Basketball at 14:00 runs an estimated two hours.
	wrestlingStart := fmt.Sprintf("%02d:00", 16+gapHours)
	return &domain.Schedule{
		ID:     "arena-day",
		Sport:  domain.SportBasketball,
		Season: "2025-26",
		Teams: []domain.Team{
			{ID: "home-bb", Name: "Home Hoops"},
			{ID: "away-bb", Name: "Away Hoops"},
			{ID: "home-wr", Name: "Home Mat"},
			{ID: "away-wr", Name: "Away Mat"},
		},
		Venues: []domain.Venue{
			{
				ID: "fieldhouse", Name: "Shared Fieldhouse",
				Sports:      []domain.Sport{domain.SportBasketball, domain.SportWrestling},
				SharedTeams: []string{"home-bb", "home-wr"},
			},
		},
		Games: []domain.Game{
			{ID: "vs-1", HomeTeamID: "home-bb", AwayTeamID: "away-bb", VenueID: "fieldhouse", Date: "2026-02-07", StartTime: "14:00", Sport: domain.SportBasketball, Type: domain.GameConference},
			{ID: "vs-2", HomeTeamID: "home-wr", AwayTeamID: "away-wr", VenueID: "fieldhouse", Date: "2026-02-07", StartTime: wrestlingStart, Sport: domain.SportWrestling, Type: domain.GameConference},
		},
	}
}
