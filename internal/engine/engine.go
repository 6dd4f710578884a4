// Package engine evaluates a schedule against a set of constraint
// definitions and aggregates the per-constraint results into one report.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"schedule-engine/internal/collab"
	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/logging"
	"schedule-engine/internal/metrics"
)

// ErrNoConstraints rejects an evaluation request with an empty constraint
// set before any work starts.
var ErrNoConstraints = errors.New("engine: no constraints to evaluate")

// FeedbackSink receives completed reports for later analysis. Emission is
// fire-and-forget: sink failures never fail an evaluation.
type FeedbackSink interface {
	Record(ctx context.Context, s *domain.Schedule, report *Report) error
}

// Options tunes one evaluation call. Zero values fall back to the
// engine-level defaults.
type Options struct {
	MaxParallel       int
	ConstraintTimeout time.Duration
	CacheEnabled      *bool // nil means engine default
}

// Config carries engine-level defaults, usually from internal/config.
type Config struct {
	MaxParallel       int
	ConstraintTimeout time.Duration
	CacheEnabled      bool
	CacheSize         int
	CacheTTL          time.Duration
}

// Engine runs constraint evaluations with caching and bounded parallelism.
// It owns the result cache (the only shared mutable structure) and treats
// every schedule it is handed as an immutable snapshot.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	recorder *metrics.Recorder
	weights  collab.WeightProvider
	sink     FeedbackSink
	cache    *resultCache

	janitorOnce sync.Once
	janitorStop chan struct{}
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = rec }
}

// WithWeightProvider installs per-constraint weight overrides applied
// before aggregation.
func WithWeightProvider(p collab.WeightProvider) Option {
	return func(e *Engine) { e.weights = p }
}

// WithFeedbackSink installs a sink that receives completed reports.
func WithFeedbackSink(s FeedbackSink) Option {
	return func(e *Engine) { e.sink = s }
}

// New constructs an Engine with the given defaults.
func New(cfg Config, opts ...Option) *Engine {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 4
	}
	if cfg.ConstraintTimeout <= 0 {
		cfg.ConstraintTimeout = 10 * time.Second
	}

	e := &Engine{
		cfg:         cfg,
		cache:       newResultCache(cfg.CacheSize, cfg.CacheTTL),
		janitorStop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartJanitor begins periodic TTL sweeps of the result cache. The ticker
// is owned by the hosting process: start it deliberately, stop it with
// StopJanitor. Calling StartJanitor twice is a no-op.
func (e *Engine) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	e.janitorOnce.Do(func() {
		ticker := time.NewTicker(interval)
		go func() {
			for {
				select {
				case <-e.janitorStop:
					ticker.Stop()
					return
				case <-ticker.C:
					if removed := e.cache.Sweep(); removed > 0 {
						logging.Info(e.logger, "cache sweep", logging.FieldCount, removed)
					}
				}
			}
		}()
	})
}

// StopJanitor halts the sweep loop.
func (e *Engine) StopJanitor() {
	select {
	case <-e.janitorStop:
	default:
		close(e.janitorStop)
	}
}

// Evaluate runs every definition against the schedule and aggregates the
// results. Parallelizable definitions run concurrently up to MaxParallel;
// the rest run sequentially afterwards, once the batch results are final.
// A single failing evaluation degrades its own result and never aborts
// the batch.
func (e *Engine) Evaluate(ctx context.Context, s *domain.Schedule, defs []constraint.Definition, opts Options) (*Report, error) {
	if s == nil {
		return nil, errors.New("engine: schedule is required")
	}
	if len(defs) == 0 {
		return nil, ErrNoConstraints
	}

	started := time.Now()
	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = e.cfg.MaxParallel
	}
	timeout := opts.ConstraintTimeout
	if timeout <= 0 {
		timeout = e.cfg.ConstraintTimeout
	}
	cacheEnabled := e.cfg.CacheEnabled
	if opts.CacheEnabled != nil {
		cacheEnabled = *opts.CacheEnabled
	}

	signature := s.Signature()
	results := make([]constraint.Result, len(defs))
	cacheHits := 0
	var hitMu sync.Mutex

	runOne := func(ctx context.Context, i int) {
		def := defs[i]
		key := cacheKey{Signature: signature, ConstraintID: def.ID, ParamsHash: constraint.HashParams(def.Params)}

		if cacheEnabled && def.Cacheable {
			if cached, ok := e.cache.Get(key); ok {
				e.recorder.RecordCacheLookup(def.ID, true)
				hitMu.Lock()
				cacheHits++
				hitMu.Unlock()
				results[i] = cached
				return
			}
			e.recorder.RecordCacheLookup(def.ID, false)
		}

		result, evalErr := e.evaluateOne(ctx, s, def, timeout)
		results[i] = *result

		// Degraded results are never cached; a timeout or panic is not a
		// statement about the schedule.
		if cacheEnabled && def.Cacheable && evalErr == nil && ctx.Err() == nil {
			e.cache.Put(key, *result)
		}
	}

	var parallel, sequential []int
	for i, def := range defs {
		if def.Parallelizable {
			parallel = append(parallel, i)
		} else {
			sequential = append(sequential, i)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for _, i := range parallel {
		i := i
		g.Go(func() error {
			runOne(gctx, i)
			return nil
		})
	}
	_ = g.Wait() // individual failures are folded into degraded results

	// Non-parallelizable constraints assume the batch results are final.
	for _, i := range sequential {
		if ctx.Err() != nil {
			results[i] = degradedResult(defs[i], ctx.Err())
			continue
		}
		runOne(ctx, i)
	}

	report := e.aggregate(ctx, s, defs, results, started)
	report.CacheHitRate = float64(cacheHits) / float64(len(defs))

	e.emitFeedback(s, report)

	logging.Info(e.logger, "schedule evaluated",
		logging.FieldSchedule, s.ID,
		logging.FieldCount, len(defs),
		logging.FieldScore, report.OverallScore,
		logging.FieldCacheHits, cacheHits,
		logging.FieldDurationMS, time.Since(started).Milliseconds(),
	)
	return report, nil
}

// evaluateOne runs a single constraint with timeout and panic recovery.
// The returned error reports *why* the result is degraded; the result
// itself is always usable.
func (e *Engine) evaluateOne(ctx context.Context, s *domain.Schedule, def constraint.Definition, timeout time.Duration) (*constraint.Result, error) {
	evalCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	type outcome struct {
		result *constraint.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("constraint %s panicked: %v", def.ID, r)}
			}
		}()
		res, err := def.Evaluate(evalCtx, s, def.Params)
		done <- outcome{result: res, err: err}
	}()

	var result *constraint.Result
	var evalErr error
	select {
	case <-evalCtx.Done():
		evalErr = fmt.Errorf("constraint %s: %w", def.ID, evalCtx.Err())
	case out := <-done:
		result, evalErr = out.result, out.err
	}

	elapsed := time.Since(started)
	e.recorder.RecordEvaluation(def.ID, elapsed, evalErr)

	if evalErr != nil || result == nil {
		if evalErr == nil {
			evalErr = fmt.Errorf("constraint %s returned no result", def.ID)
		}
		logging.Error(e.logger, "constraint evaluation degraded", evalErr, logging.FieldConstraint, def.ID)
		degraded := degradedResult(def, evalErr)
		return &degraded, evalErr
	}

	result.ConstraintID = def.ID
	result.ExecutionTime = elapsed
	result.Finalize(def.Hardness)
	return result, nil
}

func degradedResult(def constraint.Definition, err error) constraint.Result {
	r := constraint.Result{
		ConstraintID: def.ID,
		Score:        0,
		Message:      fmt.Sprintf("evaluation failed: %v", err),
		Violations: []constraint.Violation{{
			Type:             "evaluation_error",
			Severity:         constraint.SeverityCritical,
			AffectedEntities: []string{def.ID},
			Description:      fmt.Sprintf("constraint %s did not complete: %v", def.ID, err),
		}},
		Confidence: 0,
	}
	r.Finalize(def.Hardness)
	return r
}

func (e *Engine) aggregate(ctx context.Context, s *domain.Schedule, defs []constraint.Definition, results []constraint.Result, started time.Time) *Report {
	overrides := e.weightOverrides(ctx, s.ID)

	var weightedSum, totalWeight float64
	hardSatisfied := true
	for i, def := range defs {
		weight := def.Weight
		if weight <= 0 {
			weight = 1
		}
		// An explicit zero override mutes the constraint's score
		// contribution; negative overrides are ignored.
		if w, ok := overrides[def.ID]; ok && w >= 0 {
			weight = w
		}
		weightedSum += weight * results[i].Score
		totalWeight += weight

		if def.Hardness == constraint.Hard && !results[i].Satisfied {
			hardSatisfied = false
		}
	}

	overall := 0.0
	if totalWeight > 0 {
		overall = weightedSum / totalWeight
	}

	return &Report{
		ScheduleID:               s.ID,
		OverallScore:             overall,
		HardConstraintsSatisfied: hardSatisfied,
		Results:                  results,
		Duration:                 time.Since(started),
		EvaluatedAt:              started,
	}
}

func (e *Engine) weightOverrides(ctx context.Context, scheduleID string) map[string]float64 {
	if e.weights == nil {
		return nil
	}
	overrides, err := e.weights.Weights(ctx, scheduleID)
	if err != nil {
		logging.Warn(e.logger, "weight provider unavailable, using definition weights", "err", err)
		return nil
	}
	return overrides
}

func (e *Engine) emitFeedback(s *domain.Schedule, report *Report) {
	if e.sink == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.sink.Record(ctx, s, report); err != nil {
			logging.Warn(e.logger, "feedback sink rejected report", "err", err)
		}
	}()
}
