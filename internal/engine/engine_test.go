package engine

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
)

func testSchedule() *domain.Schedule {
	return &domain.Schedule{
		ID:     "sched-engine",
		Sport:  domain.SportBasketball,
		Season: "2025-26",
		Games: []domain.Game{
			{ID: "g1", HomeTeamID: "kansas", AwayTeamID: "baylor", VenueID: "v1", Date: "2025-02-01", StartTime: "19:00", Sport: domain.SportBasketball},
		},
		Teams:  []domain.Team{{ID: "kansas"}, {ID: "baylor"}},
		Venues: []domain.Venue{{ID: "v1", Sports: []domain.Sport{domain.SportBasketball}}},
	}
}

func scoringDef(id string, hardness constraint.Hardness, weight, score float64) constraint.Definition {
	return constraint.Definition{
		ID:             id,
		Hardness:       hardness,
		Weight:         weight,
		Parallelizable: true,
		Evaluate: func(ctx context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
			return &constraint.Result{Score: score, Message: "ok"}, nil
		},
	}
}

func violatingDef(id string, hardness constraint.Hardness, weight float64) constraint.Definition {
	return constraint.Definition{
		ID:             id,
		Hardness:       hardness,
		Weight:         weight,
		Parallelizable: true,
		Evaluate: func(ctx context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
			return &constraint.Result{
				Score:      0.9,
				Violations: []constraint.Violation{{Type: "broken", Severity: constraint.SeverityCritical, AffectedEntities: []string{"g1"}}},
			}, nil
		},
	}
}

func TestEvaluateRejectsEmptyConstraintSet(t *testing.T) {
	e := New(Config{})
	_, err := e.Evaluate(context.Background(), testSchedule(), nil, Options{})
	if !errors.Is(err, ErrNoConstraints) {
		t.Fatalf("expected ErrNoConstraints, got %v", err)
	}
}

func TestEvaluateWeightedAverage(t *testing.T) {
	e := New(Config{})
	defs := []constraint.Definition{
		scoringDef("c-a", constraint.Soft, 3, 1.0),
		scoringDef("c-b", constraint.Soft, 1, 0.0),
	}

	report, err := e.Evaluate(context.Background(), testSchedule(), defs, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 0.75 // (3*1 + 1*0) / 4
	if report.OverallScore != want {
		t.Fatalf("expected %v, got %v", want, report.OverallScore)
	}
	if report.OverallScore < 0 || report.OverallScore > 1 {
		t.Fatalf("score out of range: %v", report.OverallScore)
	}
	if !report.HardConstraintsSatisfied {
		t.Fatal("expected hard constraints satisfied")
	}
}

func TestHardConstraintDominance(t *testing.T) {
	e := New(Config{})
	defs := []constraint.Definition{
		scoringDef("c-good", constraint.Soft, 10, 1.0),
		violatingDef("c-hard", constraint.Hard, 1),
	}

	report, err := e.Evaluate(context.Background(), testSchedule(), defs, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.HardConstraintsSatisfied {
		t.Fatal("expected hard violation to clear the flag")
	}
	// Score is still computed; legality and quality are separate signals.
	if report.OverallScore <= 0 {
		t.Fatalf("expected nonzero overall score, got %v", report.OverallScore)
	}

	res, ok := report.ResultFor("c-hard")
	if !ok {
		t.Fatal("missing hard result")
	}
	if res.Score != 0 || res.Status != constraint.StatusViolated {
		t.Fatalf("expected violated hard constraint forced to zero, got %+v", res)
	}
}

func TestEvaluationErrorDegradesWithoutAbortingBatch(t *testing.T) {
	e := New(Config{})
	failing := constraint.Definition{
		ID:             "c-explodes",
		Hardness:       constraint.Soft,
		Parallelizable: true,
		Evaluate: func(ctx context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
			return nil, errors.New("internal failure")
		},
	}
	panicking := constraint.Definition{
		ID:             "c-panics",
		Hardness:       constraint.Soft,
		Parallelizable: true,
		Evaluate: func(ctx context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
			panic("boom")
		},
	}
	defs := []constraint.Definition{failing, panicking, scoringDef("c-fine", constraint.Soft, 1, 1.0)}

	report, err := e.Evaluate(context.Background(), testSchedule(), defs, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Results))
	}

	for _, id := range []string{"c-explodes", "c-panics"} {
		res, _ := report.ResultFor(id)
		if res.Status != constraint.StatusViolated || res.Score != 0 {
			t.Fatalf("%s: expected degraded result, got %+v", id, res)
		}
		if len(res.Violations) != 1 || res.Violations[0].Type != "evaluation_error" {
			t.Fatalf("%s: expected synthetic violation, got %+v", id, res.Violations)
		}
	}

	fine, _ := report.ResultFor("c-fine")
	if !fine.Satisfied {
		t.Fatal("expected healthy constraint unaffected")
	}
}

func TestEvaluationTimeoutDegrades(t *testing.T) {
	e := New(Config{ConstraintTimeout: 10 * time.Millisecond})
	slow := constraint.Definition{
		ID:             "c-slow",
		Hardness:       constraint.Soft,
		Parallelizable: true,
		Evaluate: func(ctx context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
				return &constraint.Result{Score: 1}, nil
			}
		},
	}

	report, err := e.Evaluate(context.Background(), testSchedule(), []constraint.Definition{slow}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, _ := report.ResultFor("c-slow")
	if res.Status != constraint.StatusViolated {
		t.Fatalf("expected timed-out constraint degraded, got %+v", res)
	}
}

func TestCachingIsIdempotent(t *testing.T) {
	e := New(Config{CacheEnabled: true, CacheSize: 16})
	var calls atomic.Int32
	def := constraint.Definition{
		ID:             "c-cached",
		Hardness:       constraint.Soft,
		Weight:         1,
		Cacheable:      true,
		Parallelizable: true,
		Evaluate: func(ctx context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
			calls.Add(1)
			return &constraint.Result{
				Score:       0.8,
				Message:     "balanced",
				Suggestions: []constraint.Suggestion{{Type: "tweak", Priority: constraint.PriorityLow}},
			}, nil
		},
	}
	s := testSchedule()

	first, err := e.Evaluate(context.Background(), s, []constraint.Definition{def}, Options{})
	if err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	second, err := e.Evaluate(context.Background(), s, []constraint.Definition{def}, Options{})
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}

	if calls.Load() != 1 {
		t.Fatalf("expected single evaluation, got %d", calls.Load())
	}
	if second.CacheHitRate != 1 {
		t.Fatalf("expected full cache hit rate, got %v", second.CacheHitRate)
	}
	if second.CacheHitRatePercent() != 100 {
		t.Fatalf("expected 100%%, got %v", second.CacheHitRatePercent())
	}

	a, _ := first.ResultFor("c-cached")
	b, _ := second.ResultFor("c-cached")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected bit-identical cached result:\n%+v\n%+v", a, b)
	}
}

func TestCacheInvalidatedByScheduleChange(t *testing.T) {
	e := New(Config{CacheEnabled: true, CacheSize: 16})
	var calls atomic.Int32
	def := constraint.Definition{
		ID:             "c-sig",
		Hardness:       constraint.Soft,
		Cacheable:      true,
		Parallelizable: true,
		Evaluate: func(ctx context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
			calls.Add(1)
			return &constraint.Result{Score: 1}, nil
		},
	}

	s := testSchedule()
	if _, err := e.Evaluate(context.Background(), s, []constraint.Definition{def}, Options{}); err != nil {
		t.Fatal(err)
	}

	moved := s.Clone()
	moved.Games[0].Date = "2025-02-02"
	if _, err := e.Evaluate(context.Background(), moved, []constraint.Definition{def}, Options{}); err != nil {
		t.Fatal(err)
	}

	if calls.Load() != 2 {
		t.Fatalf("expected re-evaluation after schedule change, got %d calls", calls.Load())
	}
}

func TestSequentialConstraintsRunAfterParallelBatch(t *testing.T) {
	e := New(Config{MaxParallel: 4})

	var mu sync.Mutex
	var order []string
	record := func(id string) {
		mu.Lock()
		order = append(order, id)
		mu.Unlock()
	}

	mk := func(id string, parallel bool) constraint.Definition {
		return constraint.Definition{
			ID:             id,
			Hardness:       constraint.Soft,
			Parallelizable: parallel,
			Evaluate: func(ctx context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
				time.Sleep(5 * time.Millisecond)
				record(id)
				return &constraint.Result{Score: 1}, nil
			},
		}
	}

	defs := []constraint.Definition{mk("c-global", false), mk("c-p1", true), mk("c-p2", true)}
	if _, err := e.Evaluate(context.Background(), testSchedule(), defs, Options{}); err != nil {
		t.Fatal(err)
	}

	if len(order) != 3 || order[len(order)-1] != "c-global" {
		t.Fatalf("expected non-parallelizable constraint to finish last, got %v", order)
	}
}

func TestMaxParallelBoundsConcurrency(t *testing.T) {
	e := New(Config{MaxParallel: 2})

	var inFlight, peak atomic.Int32
	mk := func(id string) constraint.Definition {
		return constraint.Definition{
			ID:             id,
			Hardness:       constraint.Soft,
			Parallelizable: true,
			Evaluate: func(ctx context.Context, s *domain.Schedule, params constraint.Params) (*constraint.Result, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				inFlight.Add(-1)
				return &constraint.Result{Score: 1}, nil
			},
		}
	}

	defs := []constraint.Definition{mk("c-1"), mk("c-2"), mk("c-3"), mk("c-4"), mk("c-5")}
	if _, err := e.Evaluate(context.Background(), testSchedule(), defs, Options{}); err != nil {
		t.Fatal(err)
	}
	if peak.Load() > 2 {
		t.Fatalf("expected at most 2 concurrent evaluations, saw %d", peak.Load())
	}
}

type recordingWeights struct{ weights map[string]float64 }

func (r recordingWeights) Weights(ctx context.Context, scheduleID string) (map[string]float64, error) {
	return r.weights, nil
}

func TestWeightProviderOverrides(t *testing.T) {
	e := New(Config{}, WithWeightProvider(recordingWeights{weights: map[string]float64{"c-a": 9}}))
	defs := []constraint.Definition{
		scoringDef("c-a", constraint.Soft, 1, 1.0),
		scoringDef("c-b", constraint.Soft, 1, 0.0),
	}

	report, err := e.Evaluate(context.Background(), testSchedule(), defs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := 0.9 // (9*1 + 1*0) / 10
	if report.OverallScore != want {
		t.Fatalf("expected %v with override, got %v", want, report.OverallScore)
	}
}

func TestWeightProviderZeroOverrideMutes(t *testing.T) {
	e := New(Config{}, WithWeightProvider(recordingWeights{weights: map[string]float64{"c-b": 0}}))
	defs := []constraint.Definition{
		scoringDef("c-a", constraint.Soft, 1, 1.0),
		scoringDef("c-b", constraint.Soft, 1, 0.0),
	}

	report, err := e.Evaluate(context.Background(), testSchedule(), defs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if report.OverallScore != 1.0 {
		t.Fatalf("expected muted constraint to drop out of the average, got %v", report.OverallScore)
	}
}

func TestWeightProviderNegativeOverrideIgnored(t *testing.T) {
	e := New(Config{}, WithWeightProvider(recordingWeights{weights: map[string]float64{"c-b": -5}}))
	defs := []constraint.Definition{
		scoringDef("c-a", constraint.Soft, 1, 1.0),
		scoringDef("c-b", constraint.Soft, 1, 0.0),
	}

	report, err := e.Evaluate(context.Background(), testSchedule(), defs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if report.OverallScore != 0.5 {
		t.Fatalf("expected definition weights to hold, got %v", report.OverallScore)
	}
}

type blockingSink struct {
	mu       sync.Mutex
	received *Report
	done     chan struct{}
	fail     bool
}

func (s *blockingSink) Record(ctx context.Context, sched *domain.Schedule, report *Report) error {
	s.mu.Lock()
	s.received = report
	s.mu.Unlock()
	close(s.done)
	if s.fail {
		return errors.New("sink unavailable")
	}
	return nil
}

func TestFeedbackSinkReceivesReport(t *testing.T) {
	sink := &blockingSink{done: make(chan struct{})}
	e := New(Config{}, WithFeedbackSink(sink))

	if _, err := e.Evaluate(context.Background(), testSchedule(), []constraint.Definition{scoringDef("c-a", constraint.Soft, 1, 1)}, Options{}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-sink.done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for feedback emission")
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.received == nil || sink.received.ScheduleID != "sched-engine" {
		t.Fatalf("unexpected feedback payload: %+v", sink.received)
	}
}

func TestFeedbackSinkFailureDoesNotFailEvaluation(t *testing.T) {
	sink := &blockingSink{done: make(chan struct{}), fail: true}
	e := New(Config{}, WithFeedbackSink(sink))

	report, err := e.Evaluate(context.Background(), testSchedule(), []constraint.Definition{scoringDef("c-a", constraint.Soft, 1, 1)}, Options{})
	if err != nil {
		t.Fatalf("expected evaluation to succeed despite sink failure: %v", err)
	}
	if report.OverallScore != 1 {
		t.Fatalf("unexpected score: %v", report.OverallScore)
	}
	<-sink.done
}

func TestJanitorStartStop(t *testing.T) {
	e := New(Config{CacheEnabled: true, CacheSize: 4, CacheTTL: time.Millisecond})
	e.StartJanitor(5 * time.Millisecond)
	e.StartJanitor(5 * time.Millisecond) // second call is a no-op
	e.StopJanitor()
	e.StopJanitor() // idempotent
}
