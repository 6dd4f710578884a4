package conflict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/engine"
	"schedule-engine/internal/testutil"
)

func staticDef(id string, violations ...constraint.Violation) constraint.Definition {
	return constraint.Definition{
		ID:             id,
		Name:           id,
		Hardness:       constraint.Soft,
		Weight:         1,
		Parallelizable: true,
		Evaluate: func(context.Context, *domain.Schedule, constraint.Params) (*constraint.Result, error) {
			return &constraint.Result{Score: 0.5, Violations: violations}, nil
		},
	}
}

func newDetector() *Detector {
	return NewDetector(engine.New(engine.Config{}), nil)
}

func TestFindConflictsGroupsAcrossConstraints(t *testing.T) {
	defs := []constraint.Definition{
		staticDef("rule-a", constraint.Violation{
			Type: "a_issue", Severity: constraint.SeverityMajor,
			AffectedEntities: []string{"bb-1", "allen"},
		}),
		staticDef("rule-b", constraint.Violation{
			Type: "b_issue", Severity: constraint.SeverityCritical,
			AffectedEntities: []string{"bb-1"},
		}),
	}

	conflicts, err := newDetector().FindConflicts(context.Background(), testutil.BasketballSchedule(), defs)

	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, []string{"rule-a", "rule-b"}, c.ConstraintIDs)
	assert.Equal(t, []string{"allen", "bb-1"}, c.EntityIDs)
	assert.Equal(t, constraint.SeverityCritical, c.Severity, "conflict takes the worst grouped severity")
	assert.Len(t, c.Violations, 2)
	assert.NotEmpty(t, c.ID)
}

func TestFindConflictsNeedsTwoConstraints(t *testing.T) {
	defs := []constraint.Definition{
		staticDef("rule-a",
			constraint.Violation{Type: "a_issue", Severity: constraint.SeverityMajor, AffectedEntities: []string{"bb-1"}},
			constraint.Violation{Type: "a_issue", Severity: constraint.SeverityMajor, AffectedEntities: []string{"bb-1", "bb-2"}},
		),
	}

	conflicts, err := newDetector().FindConflicts(context.Background(), testutil.BasketballSchedule(), defs)

	require.NoError(t, err)
	assert.Empty(t, conflicts, "overlap within a single constraint is not a conflict")
}

func TestFindConflictsTransitiveGrouping(t *testing.T) {
	defs := []constraint.Definition{
		staticDef("rule-a", constraint.Violation{Type: "a", Severity: constraint.SeverityMinor, AffectedEntities: []string{"g1", "g2"}}),
		staticDef("rule-b", constraint.Violation{Type: "b", Severity: constraint.SeverityMinor, AffectedEntities: []string{"g2", "g3"}}),
		staticDef("rule-c", constraint.Violation{Type: "c", Severity: constraint.SeverityMinor, AffectedEntities: []string{"g3"}}),
	}

	conflicts, err := newDetector().FindConflicts(context.Background(), testutil.BasketballSchedule(), defs)

	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, []string{"rule-a", "rule-b", "rule-c"}, conflicts[0].ConstraintIDs)
	assert.Equal(t, []string{"g1", "g2", "g3"}, conflicts[0].EntityIDs)
}

func TestFindConflictsDisjointEntitiesStaySeparate(t *testing.T) {
	defs := []constraint.Definition{
		staticDef("rule-a",
			constraint.Violation{Type: "a", Severity: constraint.SeverityMinor, AffectedEntities: []string{"g1"}},
			constraint.Violation{Type: "a", Severity: constraint.SeverityMinor, AffectedEntities: []string{"g9"}},
		),
		staticDef("rule-b",
			constraint.Violation{Type: "b", Severity: constraint.SeverityMinor, AffectedEntities: []string{"g1"}},
			constraint.Violation{Type: "b", Severity: constraint.SeverityMinor, AffectedEntities: []string{"g9"}},
		),
	}

	conflicts, err := newDetector().FindConflicts(context.Background(), testutil.BasketballSchedule(), defs)

	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.NotEqual(t, conflicts[0].Key(), conflicts[1].Key())
}

func TestFindConflictsEmptyConstraintSet(t *testing.T) {
	_, err := newDetector().FindConflicts(context.Background(), testutil.BasketballSchedule(), nil)
	assert.ErrorIs(t, err, engine.ErrNoConstraints)
}

func TestSuggestResolutionsChangeoverRankedByFeasibility(t *testing.T) {
	s := testutil.SharedVenueSchedule(1)
	c := Conflict{
		ID:            "c-1",
		ConstraintIDs: []string{"venue-availability", "vs-conflict-prevention"},
		EntityIDs:     []string{"fieldhouse", "vs-1", "vs-2"},
		Severity:      constraint.SeverityCritical,
		Violations: []constraint.Violation{{
			Type:             "insufficient_changeover",
			Severity:         constraint.SeverityCritical,
			AffectedEntities: []string{"vs-1", "vs-2", "fieldhouse"},
		}},
	}

	resolutions := newDetector().SuggestResolutions(c, s)

	require.Len(t, resolutions, 2)
	// Delaying beats relocating: only one venue hosts wrestling here.
	assert.Contains(t, resolutions[0].Description, "delay game vs-2")
	assert.Equal(t, 0.8, resolutions[0].Feasibility)
	assert.Equal(t, ImpactMedium, resolutions[0].Impact)
	assert.Less(t, resolutions[1].Feasibility, 0.5)
	assert.Less(t, resolutions[1].Confidence, 0.5, "unestimable relocation reports low confidence")
	for _, r := range resolutions {
		assert.Equal(t, "c-1", r.ConflictID)
		assert.GreaterOrEqual(t, r.Feasibility, 0.0)
		assert.LessOrEqual(t, r.Feasibility, 1.0)
	}
}

func TestSuggestResolutionsRelocationWithAlternateVenue(t *testing.T) {
	s := testutil.SharedVenueSchedule(1)
	s.Venues = append(s.Venues, domain.Venue{
		ID: "annex", Name: "Annex Gym",
		Sports: []domain.Sport{domain.SportWrestling},
	})
	c := Conflict{
		ID: "c-2",
		Violations: []constraint.Violation{{
			Type:             "venue_overlap",
			Severity:         constraint.SeverityCritical,
			AffectedEntities: []string{"vs-1", "vs-2", "fieldhouse"},
		}},
	}

	resolutions := newDetector().SuggestResolutions(c, s)

	require.Len(t, resolutions, 2)
	assert.Contains(t, resolutions[1].Description, "Annex Gym")
	assert.Equal(t, 0.6, resolutions[1].Feasibility)
	assert.Equal(t, ImpactHigh, resolutions[1].Impact)
}

func TestSuggestResolutionsSplitSeriesConsolidates(t *testing.T) {
	s := testutil.SeriesSchedule(true)
	c := Conflict{
		ID: "c-3",
		Violations: []constraint.Violation{{
			Type:             "split_series_venue",
			Severity:         constraint.SeverityCritical,
			AffectedEntities: []string{"bs-1", "bs-2", "bs-3", "diamond-a", "diamond-b"},
		}},
	}

	resolutions := newDetector().SuggestResolutions(c, s)

	require.Len(t, resolutions, 1)
	// Two of three games already sit at Diamond A.
	assert.Contains(t, resolutions[0].Description, "Diamond A")
	assert.Equal(t, ImpactMedium, resolutions[0].Impact)
}

func TestSuggestResolutionsFallbackUsesViolationHints(t *testing.T) {
	c := Conflict{
		ID: "c-4",
		Violations: []constraint.Violation{{
			Type:                "custom_rule_breach",
			Severity:            constraint.SeverityMajor,
			AffectedEntities:    []string{"bb-1"},
			PossibleResolutions: []string{"swap the home site of game bb-1"},
		}},
	}

	resolutions := newDetector().SuggestResolutions(c, testutil.BasketballSchedule())

	require.Len(t, resolutions, 1)
	assert.Equal(t, "swap the home site of game bb-1", resolutions[0].Description)
	assert.InDelta(t, 0.3, resolutions[0].Confidence, 0.001)
}

func TestSuggestResolutionsNeverEmpty(t *testing.T) {
	c := Conflict{ID: "c-5", EntityIDs: []string{"x"}, Violations: []constraint.Violation{{Type: "mystery"}}}

	resolutions := newDetector().SuggestResolutions(c, testutil.BasketballSchedule())

	require.Len(t, resolutions, 1)
	assert.Less(t, resolutions[0].Confidence, 0.5)
}
