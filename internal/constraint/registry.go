package constraint

import (
	"fmt"
	"sort"
	"sync"

	"schedule-engine/internal/domain"
)

// DuplicateConstraintError flags two registrations sharing an identity with
// conflicting hardness. The intent is ambiguous, so the registry refuses to
// pick a winner.
type DuplicateConstraintError struct {
	ID       string
	Existing Hardness
	Incoming Hardness
}

func (e *DuplicateConstraintError) Error() string {
	return fmt.Sprintf("constraint %q registered with conflicting hardness (%s vs %s)", e.ID, e.Existing, e.Incoming)
}

// Filter scopes a registry query. Zero-valued fields match everything.
type Filter struct {
	Sport    domain.Sport
	Hardness Hardness
	Tag      string
}

type entry struct {
	def Definition
	seq int // registration order; replacement keeps the original slot
}

// Registry holds the known constraint definitions. It is caller-owned:
// construct one per engine context, no process-wide state.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	nextSeq int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a definition, replacing any prior definition with the same
// identity and hardness. Re-registering an identity under a different
// hardness fails with DuplicateConstraintError.
func (r *Registry) Register(def Definition) error {
	if def.ID == "" {
		return fmt.Errorf("constraint definition requires an id")
	}
	if def.Evaluate == nil {
		return fmt.Errorf("constraint %q requires an evaluation routine", def.ID)
	}
	if def.Params != nil {
		if err := def.Params.Validate(); err != nil {
			return fmt.Errorf("constraint %q parameters: %w", def.ID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[def.ID]; ok {
		if existing.def.Hardness != def.Hardness {
			return &DuplicateConstraintError{ID: def.ID, Existing: existing.def.Hardness, Incoming: def.Hardness}
		}
		r.entries[def.ID] = entry{def: def, seq: existing.seq}
		return nil
	}

	r.entries[def.ID] = entry{def: def, seq: r.nextSeq}
	r.nextSeq++
	return nil
}

// Get returns the definition registered under id.
func (r *Registry) Get(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e.def, ok
}

// Query returns definitions matching the filter in a stable order:
// registration order, ties broken by weight descending.
func (r *Registry) Query(f Filter) []Definition {
	r.mu.RLock()
	matched := make([]entry, 0, len(r.entries))
	for _, e := range r.entries {
		if f.Sport != "" && e.def.Sport != "" && e.def.Sport != f.Sport {
			continue
		}
		if f.Hardness != "" && e.def.Hardness != f.Hardness {
			continue
		}
		if f.Tag != "" && !e.def.HasTag(f.Tag) {
			continue
		}
		matched = append(matched, e)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].seq != matched[j].seq {
			return matched[i].seq < matched[j].seq
		}
		return matched[i].def.Weight > matched[j].def.Weight
	})

	out := make([]Definition, len(matched))
	for i, e := range matched {
		out[i] = e.def
	}
	return out
}

// All returns every registered definition in stable order.
func (r *Registry) All() []Definition {
	return r.Query(Filter{})
}

// Len reports the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
