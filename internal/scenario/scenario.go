// Package scenario generates schedule variants under modified constraint
// sets and compares them across travel, balance, and overall quality.
package scenario

import (
	"fmt"
	"time"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/engine"
)

// Action is a constraint-set modification kind.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionModify Action = "modify"
)

// Modification alters the active constraint set for one scenario.
// Add pulls the definition from the registry unless one is supplied inline;
// Modify overrides weight and/or parameters of an active definition.
type Modification struct {
	Action       Action                 `json:"action" yaml:"action"`
	ConstraintID string                 `json:"constraintId" yaml:"constraintId"`
	Definition   *constraint.Definition `json:"-" yaml:"-"`
	Weight       *float64               `json:"weight,omitempty" yaml:"weight,omitempty"`
	Params       constraint.Params      `json:"-" yaml:"-"`
}

// Definition names one scenario to generate.
type Definition struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	Modifications []Modification `json:"modifications,omitempty" yaml:"modifications,omitempty"`
}

// Validate rejects malformed scenario definitions before any work starts.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("scenario definition requires a name")
	}
	for _, m := range d.Modifications {
		switch m.Action {
		case ActionAdd, ActionRemove, ActionModify:
		default:
			return fmt.Errorf("scenario %q: unknown modification action %q", d.Name, m.Action)
		}
		if m.ConstraintID == "" && m.Definition == nil {
			return fmt.Errorf("scenario %q: modification requires a constraint id", d.Name)
		}
	}
	return nil
}

// Metrics summarizes one generated scenario for comparison.
type Metrics struct {
	TotalTravelMiles float64 `json:"totalTravelMiles"`
	TravelScore      float64 `json:"travelScore"`  // [0,1], higher is less travel
	BalanceScore     float64 `json:"balanceScore"` // [0,1], higher is closer to 50/50
	WeekendGames     int     `json:"weekendGames"`
	WeekdayGames     int     `json:"weekdayGames"`
	WeekendShare     float64 `json:"weekendShare"`
}

// Scenario is one generated schedule variant. A failed generation carries
// Error and no report; it still occupies its slot in the batch output.
type Scenario struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Schedule    *domain.Schedule `json:"-"`
	Report      *engine.Report   `json:"report,omitempty"`
	Metrics     Metrics          `json:"metrics"`
	Error       string           `json:"error,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// Valid reports whether the scenario generated cleanly.
func (s Scenario) Valid() bool { return s.Error == "" }

// OverallScore is the engine score, zero for errored scenarios.
func (s Scenario) OverallScore() float64 {
	if s.Report == nil {
		return 0
	}
	return s.Report.OverallScore
}

// CompositeScore blends schedule quality with travel and balance.
func (s Scenario) CompositeScore() float64 {
	return 0.4*s.OverallScore() + 0.3*s.Metrics.TravelScore + 0.3*s.Metrics.BalanceScore
}
