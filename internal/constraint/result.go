package constraint

import "time"

// Status describes how well a schedule met one constraint.
type Status string

const (
	StatusSatisfied          Status = "SATISFIED"
	StatusPartiallySatisfied Status = "PARTIALLY_SATISFIED"
	StatusViolated           Status = "VIOLATED"
)

// Severity ranks a violation's impact.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// Priority ranks a suggestion's urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Violation is one concrete rule breach, naming the entities involved.
type Violation struct {
	Type                string   `json:"type"`
	Severity            Severity `json:"severity"`
	AffectedEntities    []string `json:"affectedEntities"`
	Description         string   `json:"description"`
	PossibleResolutions []string `json:"possibleResolutions,omitempty"`
}

// Suggestion is an advisory improvement with an expected gain in
// percentage points.
type Suggestion struct {
	Type                string   `json:"type"`
	Priority            Priority `json:"priority"`
	Description         string   `json:"description"`
	Implementation      string   `json:"implementation,omitempty"`
	ExpectedImprovement float64  `json:"expectedImprovement,omitempty"`
}

// Result is the outcome of evaluating one constraint against one schedule.
// Violation and suggestion order preserves the evaluation routine's
// emission order for reproducibility.
type Result struct {
	ConstraintID  string         `json:"constraintId"`
	Status        Status         `json:"status"`
	Satisfied     bool           `json:"satisfied"`
	Score         float64        `json:"score"`
	Message       string         `json:"message"`
	Violations    []Violation    `json:"violations"`
	Suggestions   []Suggestion   `json:"suggestions"`
	Confidence    float64        `json:"confidence,omitempty"`
	ExecutionTime time.Duration  `json:"executionTime,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// Finalize enforces the result invariants for the given hardness:
// score clamped to [0,1], satisfied iff no violations, and a violated
// hard constraint forced to score 0 with status VIOLATED.
func (r *Result) Finalize(hardness Hardness) {
	if r.Score < 0 {
		r.Score = 0
	}
	if r.Score > 1 {
		r.Score = 1
	}

	r.Satisfied = len(r.Violations) == 0
	switch {
	case r.Satisfied:
		r.Status = StatusSatisfied
	case hardness == Hard:
		r.Score = 0
		r.Status = StatusViolated
	case r.Score > 0:
		r.Status = StatusPartiallySatisfied
	default:
		r.Status = StatusViolated
	}
}

// CriticalViolations returns the subset of violations marked critical.
func (r *Result) CriticalViolations() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityCritical {
			out = append(out, v)
		}
	}
	return out
}
