package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/testutil"
)

// withThirdOpponent adds a non-conference opponent so a short gap is not
// mistaken for a series between the same pair.
func withThirdOpponent(s *domain.Schedule, date string) *domain.Schedule {
	s.Teams = append(s.Teams, domain.Team{ID: "cyclones", Name: "Cyclones"})
	s.Games = append(s.Games, domain.Game{
		ID: "bb-3", HomeTeamID: "kansas", AwayTeamID: "cyclones", VenueID: "allen",
		Date: date, StartTime: "19:00", Sport: domain.SportBasketball, Type: domain.GameNonConference,
	})
	return s
}

func TestTeamRestCleanGaps(t *testing.T) {
	// Two weeks between the home-and-home games.
	result := evaluate(t, TeamRest(DefaultRestParams), testutil.BasketballSchedule())

	assert.True(t, result.Satisfied)
	assert.Equal(t, 1.0, result.Score)
	assert.Empty(t, result.Suggestions)
}

func TestTeamRestBackToBackSameDay(t *testing.T) {
	s := withThirdOpponent(testutil.BasketballSchedule(), "2026-01-10")

	result := evaluate(t, TeamRest(DefaultRestParams), s)

	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	assert.Equal(t, "insufficient_rest", v.Type)
	assert.Equal(t, constraint.SeverityMajor, v.Severity)
	assert.Contains(t, v.AffectedEntities, "kansas")
	assert.Equal(t, constraint.StatusPartiallySatisfied, result.Status)
}

func TestTeamRestTightGapIsSuggestionOnly(t *testing.T) {
	// One rest day against an ideal of two.
	s := withThirdOpponent(testutil.BasketballSchedule(), "2026-01-11")

	result := evaluate(t, TeamRest(DefaultRestParams), s)

	assert.True(t, result.Satisfied)
	assert.Equal(t, 1.0, result.Score)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "tight_rest", result.Suggestions[0].Type)
}

func TestTeamRestSeriesGamesExempt(t *testing.T) {
	// Fri/Sat/Sun baseball series: consecutive days are expected.
	result := evaluate(t, TeamRest(DefaultRestParams), testutil.SeriesSchedule(false))

	assert.True(t, result.Satisfied)
	assert.Equal(t, 1.0, result.Score)
	assert.Empty(t, result.Suggestions)
}

func TestRestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultRestParams.Validate())
	assert.Error(t, RestParams{MinRestDays: -1}.Validate())
	assert.Error(t, RestParams{MinRestDays: 3, IdealRestDays: 1}.Validate())
}
