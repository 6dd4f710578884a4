package metrics

import (
	"sync"
	"time"
)

type constraintStats struct {
	evaluations int
	failures    int
	cacheHits   int
	cacheMisses int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about constraint
// evaluations. It is intentionally simple so it can be swapped for a real
// backend later; all methods are nil-safe.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*constraintStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*constraintStats),
		otel:  otel,
	}
}

// RecordEvaluation increments counters for one constraint evaluation and
// stores the last observed latency.
func (r *Recorder) RecordEvaluation(constraintID string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	stats := r.ensureStats(constraintID)
	stats.evaluations++
	stats.lastLatency = duration
	if err != nil {
		stats.failures++
	}
	if r.otel != nil {
		r.otel.recordEvaluation(constraintID, duration, err)
	}
}

// RecordCacheLookup tracks a cache hit or miss for a constraint.
func (r *Recorder) RecordCacheLookup(constraintID string, hit bool) {
	if r == nil {
		return
	}

	stats := r.ensureStats(constraintID)
	if hit {
		stats.cacheHits++
	} else {
		stats.cacheMisses++
	}
	if r.otel != nil {
		r.otel.recordCacheLookup(constraintID, hit)
	}
}

// RecordScenario tracks one scenario generation cycle.
func (r *Recorder) RecordScenario(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordScenario(duration, err)
}

// RecordConflicts tracks a conflict detection pass and how many conflicts it found.
func (r *Recorder) RecordConflicts(count int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordConflicts(count, duration)
}

// Snapshot is a copy of the current stats for one constraint.
type Snapshot struct {
	Evaluations int
	Failures    int
	CacheHits   int
	CacheMisses int
	LastLatency time.Duration
}

func (r *Recorder) Snapshot(constraintID string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(constraintID)
	return Snapshot{
		Evaluations: stats.evaluations,
		Failures:    stats.failures,
		CacheHits:   stats.cacheHits,
		CacheMisses: stats.cacheMisses,
		LastLatency: stats.lastLatency,
	}
}

// Evaluations returns the total evaluations recorded for a constraint.
func (r *Recorder) Evaluations(constraintID string) int {
	return r.Snapshot(constraintID).Evaluations
}

// CacheHits returns the cache hits recorded for a constraint.
func (r *Recorder) CacheHits(constraintID string) int {
	return r.Snapshot(constraintID).CacheHits
}

func (r *Recorder) ensureStats(constraintID string) *constraintStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[constraintID]
	if !ok {
		stats = &constraintStats{}
		r.stats[constraintID] = stats
	}
	return stats
}

func (r *Recorder) snapshot(constraintID string) constraintStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[constraintID]; ok && stats != nil {
		return *stats
	}
	return constraintStats{}
}
