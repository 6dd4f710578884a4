package domain

import (
	"time"

	"schedule-engine/internal/timeutil"
)

// Sport tags the sport a game or schedule belongs to.
type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
	SportBaseball   Sport = "baseball"
	SportSoftball   Sport = "softball"
	SportSoccer     Sport = "soccer"
	SportVolleyball Sport = "volleyball"
	SportWrestling  Sport = "wrestling"
	SportGymnastics Sport = "gymnastics"
	SportTennis     Sport = "tennis"
)

// GameType distinguishes conference play from other matchups.
type GameType string

const (
	GameConference    GameType = "conference"
	GameNonConference GameType = "non-conference"
	GameExhibition    GameType = "exhibition"
)

// Team identifies one participating program.
type Team struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Conference string `json:"conference"`
}

// Coordinates holds a venue's geographic position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AvailabilityWindow marks a span of time a venue is explicitly available
// or blocked, with an operator-facing reason.
type AvailabilityWindow struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
}

// Venue describes a playing site, including which sports it hosts and
// which teams share it.
type Venue struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Location     Coordinates          `json:"location"`
	Capacity     int                  `json:"capacity"`
	Sports       []Sport              `json:"sports"`
	SharedTeams  []string             `json:"sharedTeams,omitempty"`
	Availability []AvailabilityWindow `json:"availability,omitempty"`
}

// Dedicated reports whether the venue hosts a single sport.
func (v Venue) Dedicated() bool {
	return len(v.Sports) <= 1
}

// HostsSport reports whether the venue lists the given sport.
func (v Venue) HostsSport(sport Sport) bool {
	for _, s := range v.Sports {
		if s == sport {
			return true
		}
	}
	return false
}

// Game is one scheduled contest. Exactly one home and one away team, at one
// venue, on one date with a local start time.
type Game struct {
	ID         string   `json:"id"`
	HomeTeamID string   `json:"homeTeamId"`
	AwayTeamID string   `json:"awayTeamId"`
	VenueID    string   `json:"venueId"`
	Date       string   `json:"date"`      // YYYY-MM-DD
	StartTime  string   `json:"startTime"` // HH:MM local
	Sport      Sport    `json:"sport"`
	Type       GameType `json:"type"`
}

// DateTime resolves the game's date to a time.Time at local midnight.
// Unparseable dates resolve to the zero time.
func (g Game) DateTime() time.Time {
	t, err := timeutil.ParseDate(g.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StartAt resolves the game's date plus local start time.
func (g Game) StartAt() time.Time {
	return timeutil.CombineDateClock(g.DateTime(), g.StartTime)
}

// Involves reports whether the team plays in this game, home or away.
func (g Game) Involves(teamID string) bool {
	return g.HomeTeamID == teamID || g.AwayTeamID == teamID
}

// PairKey returns an order-independent key for the two teams in this game.
func (g Game) PairKey() string {
	if g.AwayTeamID < g.HomeTeamID {
		return g.AwayTeamID + "|" + g.HomeTeamID
	}
	return g.HomeTeamID + "|" + g.AwayTeamID
}
