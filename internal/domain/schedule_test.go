package domain

import "testing"

func sampleSchedule() *Schedule {
	return &Schedule{
		ID:     "sched-1",
		Sport:  SportBasketball,
		Season: "2025-26",
		Games: []Game{
			{ID: "g2", HomeTeamID: "baylor", AwayTeamID: "kansas", VenueID: "v1", Date: "2025-02-08", StartTime: "19:00", Sport: SportBasketball},
			{ID: "g1", HomeTeamID: "kansas", AwayTeamID: "baylor", VenueID: "v2", Date: "2025-02-01", StartTime: "19:00", Sport: SportBasketball},
		},
		Teams: []Team{
			{ID: "kansas", Name: "Kansas", Conference: "big12"},
			{ID: "baylor", Name: "Baylor", Conference: "big12"},
		},
		Venues: []Venue{
			{ID: "v1", Name: "Ferrell Center", Sports: []Sport{SportBasketball}},
			{ID: "v2", Name: "Allen Fieldhouse", Sports: []Sport{SportBasketball}},
		},
	}
}

func TestGamesForTeamSortedChronologically(t *testing.T) {
	s := sampleSchedule()
	games := s.GamesForTeam("kansas")
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	if games[0].ID != "g1" || games[1].ID != "g2" {
		t.Fatalf("expected chronological order g1,g2; got %s,%s", games[0].ID, games[1].ID)
	}
}

func TestLookupsByID(t *testing.T) {
	s := sampleSchedule()
	if _, ok := s.TeamByID("kansas"); !ok {
		t.Fatal("expected team lookup to succeed")
	}
	if _, ok := s.TeamByID("nowhere"); ok {
		t.Fatal("expected team lookup to fail")
	}
	if v, ok := s.VenueByID("v2"); !ok || v.Name != "Allen Fieldhouse" {
		t.Fatalf("unexpected venue lookup: %+v ok=%v", v, ok)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleSchedule()
	cp := s.Clone()
	cp.Games[0].VenueID = "elsewhere"
	cp.Venues[0].Sports[0] = SportWrestling

	if s.Games[0].VenueID == "elsewhere" {
		t.Fatal("expected game copy to be independent")
	}
	if s.Venues[0].Sports[0] == SportWrestling {
		t.Fatal("expected venue sports copy to be independent")
	}
}
