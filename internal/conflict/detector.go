// Package conflict cross-references violations from multiple constraints
// into higher-level conflicts and proposes ranked resolutions.
package conflict

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/engine"
	"schedule-engine/internal/logging"
	"schedule-engine/internal/metrics"
)

// Conflict groups violations from two or more constraints that touch the
// same schedule entities.
type Conflict struct {
	ID            string                 `json:"id"`
	ConstraintIDs []string               `json:"constraintIds"`
	EntityIDs     []string               `json:"entityIds"`
	Severity      constraint.Severity    `json:"severity"`
	Description   string                 `json:"description"`
	Violations    []constraint.Violation `json:"violations"`
}

// Key is the symmetric identity of a conflict: the same entity/constraint
// pairing always produces the same key, regardless of detection order.
func (c Conflict) Key() string {
	return strings.Join(c.EntityIDs, ",") + "|" + strings.Join(c.ConstraintIDs, ",")
}

// Detector finds cross-constraint conflicts by evaluating a schedule and
// correlating the resulting violations.
type Detector struct {
	engine   *engine.Engine
	logger   *slog.Logger
	recorder *metrics.Recorder
}

// Option configures a Detector at construction time.
type Option func(*Detector)

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(d *Detector) { d.recorder = rec }
}

// NewDetector wraps an engine. The logger may be nil.
func NewDetector(eng *engine.Engine, logger *slog.Logger, opts ...Option) *Detector {
	d := &Detector{engine: eng, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FindConflicts evaluates the schedule and groups violations whose
// affected entities intersect across at least two constraint identities.
// Each distinct entity/constraint pairing is reported exactly once.
func (d *Detector) FindConflicts(ctx context.Context, s *domain.Schedule, defs []constraint.Definition) ([]Conflict, error) {
	started := time.Now()
	report, err := d.engine.Evaluate(ctx, s, defs, engine.Options{})
	if err != nil {
		return nil, fmt.Errorf("conflict detection: %w", err)
	}

	conflicts := Correlate(report)
	d.recorder.RecordConflicts(len(conflicts), time.Since(started))
	logging.Info(d.logger, "conflict detection complete",
		logging.FieldSchedule, s.ID,
		logging.FieldCount, len(conflicts),
	)
	return conflicts, nil
}

// violationRef ties one violation back to the constraint that emitted it.
type violationRef struct {
	constraintID string
	violation    constraint.Violation
	entities     map[string]bool
}

// Correlate extracts conflicts from an existing report without
// re-evaluating. Violations are grouped transitively: two violations join
// the same group when their affected entities overlap, and a group becomes
// a conflict when it spans at least two constraint identities.
func Correlate(report *engine.Report) []Conflict {
	var refs []violationRef
	for _, res := range report.Results {
		for _, v := range res.Violations {
			entities := make(map[string]bool, len(v.AffectedEntities))
			for _, id := range v.AffectedEntities {
				entities[id] = true
			}
			refs = append(refs, violationRef{constraintID: res.ConstraintID, violation: v, entities: entities})
		}
	}

	parent := make([]int, len(refs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) { parent[find(a)] = find(b) }

	for i := 0; i < len(refs); i++ {
		for j := i + 1; j < len(refs); j++ {
			if intersects(refs[i].entities, refs[j].entities) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]violationRef)
	order := make([]int, 0)
	for i, ref := range refs {
		root := find(i)
		if _, seen := groups[root]; !seen {
			order = append(order, root)
		}
		groups[root] = append(groups[root], ref)
	}

	seenKeys := make(map[string]bool)
	var conflicts []Conflict
	for _, root := range order {
		group := groups[root]

		constraintSet := make(map[string]bool)
		entitySet := make(map[string]bool)
		severity := constraint.SeverityMinor
		var violations []constraint.Violation
		for _, ref := range group {
			constraintSet[ref.constraintID] = true
			for id := range ref.entities {
				entitySet[id] = true
			}
			if severityRank(ref.violation.Severity) > severityRank(severity) {
				severity = ref.violation.Severity
			}
			violations = append(violations, ref.violation)
		}
		if len(constraintSet) < 2 {
			continue
		}

		c := Conflict{
			ID:            uuid.NewString(),
			ConstraintIDs: sortedKeys(constraintSet),
			EntityIDs:     sortedKeys(entitySet),
			Severity:      severity,
			Violations:    violations,
		}
		if seenKeys[c.Key()] {
			continue
		}
		seenKeys[c.Key()] = true
		c.Description = fmt.Sprintf("%d violations across constraints %s affect %s",
			len(violations), strings.Join(c.ConstraintIDs, ", "), strings.Join(c.EntityIDs, ", "))
		conflicts = append(conflicts, c)
	}
	return conflicts
}

func intersects(a, b map[string]bool) bool {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for id := range small {
		if large[id] {
			return true
		}
	}
	return false
}

func severityRank(s constraint.Severity) int {
	switch s {
	case constraint.SeverityCritical:
		return 3
	case constraint.SeverityMajor:
		return 2
	default:
		return 1
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
