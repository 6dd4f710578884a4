package constraint

import (
	"context"
	"encoding/json"

	"github.com/cespare/xxhash/v2"

	"schedule-engine/internal/domain"
)

// Hardness classifies a constraint as mandatory or advisory.
type Hardness string

const (
	Hard Hardness = "HARD"
	Soft Hardness = "SOFT"
)

// Params is the typed parameter bag for one constraint family. Parameters
// are validated at registration time, not at evaluation time.
type Params interface {
	Validate() error
}

// EvalFunc is the evaluation routine contract: a pure function of the
// schedule, its parameters, and read-only collaborators reachable through
// ctx deadlines. It must not mutate the schedule.
type EvalFunc func(ctx context.Context, s *domain.Schedule, params Params) (*Result, error)

// Definition is an immutable description of one scheduling rule.
type Definition struct {
	ID         string
	Name       string
	Sport      domain.Sport // empty means all sports
	Conference string       // empty means all conferences
	Hardness   Hardness
	Weight     float64
	Tags       []string
	Params     Params
	Evaluate   EvalFunc

	// Cacheable results may be reused verbatim while the schedule
	// signature is unchanged. Parallelizable evaluations may run in the
	// concurrent batch; the rest run sequentially afterwards.
	Cacheable      bool
	Parallelizable bool
}

// HasTag reports whether the definition carries the given tag.
func (d Definition) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AppliesTo reports whether the definition is in scope for the schedule's
// sport and conference.
func (d Definition) AppliesTo(s *domain.Schedule) bool {
	if d.Sport != "" && d.Sport != s.Sport {
		return false
	}
	if d.Conference != "" && s.Conference != "" && d.Conference != s.Conference {
		return false
	}
	return true
}

// HashParams digests a parameter bag for cache keying. Structured hashing
// (JSON canonical form of a typed struct) keeps correctness independent of
// string formatting.
func HashParams(p Params) uint64 {
	if p == nil {
		return 0
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(raw)
}
