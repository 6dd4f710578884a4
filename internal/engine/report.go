package engine

import (
	"time"

	"schedule-engine/internal/constraint"
)

// Report is the aggregated outcome of evaluating one schedule.
//
// A high OverallScore does not imply legality: callers must also check
// HardConstraintsSatisfied.
type Report struct {
	ScheduleID               string              `json:"scheduleId"`
	OverallScore             float64             `json:"overallScore"`
	HardConstraintsSatisfied bool                `json:"hardConstraintsSatisfied"`
	Results                  []constraint.Result `json:"results"`
	CacheHitRate             float64             `json:"cacheHitRate"`
	Duration                 time.Duration       `json:"duration"`
	EvaluatedAt              time.Time           `json:"evaluatedAt"`
}

// ResultFor returns the result for one constraint identity.
func (r *Report) ResultFor(constraintID string) (constraint.Result, bool) {
	for _, res := range r.Results {
		if res.ConstraintID == constraintID {
			return res, true
		}
	}
	return constraint.Result{}, false
}

// Violations flattens every violation in the report, preserving
// per-result emission order.
func (r *Report) Violations() []constraint.Violation {
	var out []constraint.Violation
	for _, res := range r.Results {
		out = append(out, res.Violations...)
	}
	return out
}

// CacheHitRatePercent reports the hit rate scaled to [0,100]. A report
// with no recorded rate reads as 0, never a scaled nil.
func (r *Report) CacheHitRatePercent() float64 {
	return r.CacheHitRate * 100
}
