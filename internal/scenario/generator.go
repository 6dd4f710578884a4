package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"schedule-engine/internal/collab"
	"schedule-engine/internal/config"
	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/engine"
	"schedule-engine/internal/logging"
	"schedule-engine/internal/metrics"
	"schedule-engine/internal/rules"
	"schedule-engine/internal/timeutil"
)

// ErrNoScenarios rejects a generation request with no scenario definitions.
var ErrNoScenarios = errors.New("scenario: no scenario definitions")

// Comparator generates scenarios and compares them. It owns the scenario
// store: constructor-created, caller-owned, no process-wide state.
type Comparator struct {
	cfg       config.ScenarioConfig
	engine    *engine.Engine
	optimizer collab.Optimizer
	travel    collab.TravelEstimator
	registry  *constraint.Registry
	logger    *slog.Logger
	recorder  *metrics.Recorder

	mu        sync.RWMutex
	scenarios map[string]Scenario
}

// Option configures a Comparator at construction time.
type Option func(*Comparator)

// WithOptimizer installs the schedule optimizer collaborator.
func WithOptimizer(o collab.Optimizer) Option {
	return func(c *Comparator) { c.optimizer = o }
}

// WithTravelEstimator installs the travel collaborator used for metrics.
func WithTravelEstimator(t collab.TravelEstimator) Option {
	return func(c *Comparator) { c.travel = t }
}

// WithRegistry lets "add" modifications resolve constraints by identity.
func WithRegistry(r *constraint.Registry) Option {
	return func(c *Comparator) { c.registry = r }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Comparator) { c.logger = logger }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(c *Comparator) { c.recorder = rec }
}

// NewComparator constructs a Comparator around an engine. Without explicit
// collaborators it falls back to the identity optimizer and the haversine
// travel fixture.
func NewComparator(cfg config.ScenarioConfig, eng *engine.Engine, opts ...Option) *Comparator {
	if cfg.MaxScenarios <= 0 {
		cfg.MaxScenarios = 3
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 30 * time.Second
	}
	if cfg.ComparisonThreshold <= 0 {
		cfg.ComparisonThreshold = 10
	}

	c := &Comparator{
		cfg:       cfg,
		engine:    eng,
		optimizer: collab.IdentityOptimizer{},
		travel:    collab.FixtureTravel{},
		scenarios: make(map[string]Scenario),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateScenarios builds one scenario per definition, concurrently up to
// MaxScenarios at a time. A failing scenario is returned error-flagged in
// its slot; only configuration problems fail the whole batch.
func (c *Comparator) GenerateScenarios(ctx context.Context, base *domain.Schedule, baseDefs []constraint.Definition, defs []Definition) ([]Scenario, error) {
	if base == nil {
		return nil, errors.New("scenario: base schedule is required")
	}
	if len(defs) == 0 {
		return nil, ErrNoScenarios
	}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
	}

	out := make([]Scenario, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxScenarios)
	for i, def := range defs {
		i, def := i, def
		g.Go(func() error {
			out[i] = c.buildScenario(gctx, base, baseDefs, def)
			return nil
		})
	}
	_ = g.Wait() // per-scenario failures are folded into error flags

	c.mu.Lock()
	for _, sc := range out {
		c.scenarios[sc.ID] = sc
	}
	c.mu.Unlock()

	logging.Info(c.logger, "scenarios generated",
		logging.FieldSchedule, base.ID,
		logging.FieldCount, len(out),
	)
	return out, nil
}

func (c *Comparator) buildScenario(ctx context.Context, base *domain.Schedule, baseDefs []constraint.Definition, def Definition) Scenario {
	started := time.Now()
	sc := Scenario{
		ID:          uuid.NewString(),
		Name:        def.Name,
		Description: def.Description,
		GeneratedAt: started,
	}
	if def.ID != "" {
		sc.ID = def.ID
	}

	fail := func(err error) Scenario {
		logging.Warn(c.logger, "scenario generation failed", "scenario", def.Name, "err", err)
		c.recorder.RecordScenario(time.Since(started), err)
		sc.Error = err.Error()
		return sc
	}

	active, err := c.applyModifications(baseDefs, def.Modifications)
	if err != nil {
		return fail(err)
	}

	genCtx, cancel := context.WithTimeout(ctx, c.cfg.GenerationTimeout)
	defer cancel()

	optimized, err := c.optimizer.Optimize(genCtx, base.Clone(), active)
	if err != nil {
		return fail(fmt.Errorf("optimizer: %w", err))
	}

	report, err := c.engine.Evaluate(genCtx, optimized, active, engine.Options{})
	if err != nil {
		return fail(err)
	}

	m, err := c.computeMetrics(genCtx, optimized)
	if err != nil {
		return fail(err)
	}

	c.recorder.RecordScenario(time.Since(started), nil)
	sc.Schedule = optimized
	sc.Report = report
	sc.Metrics = m
	return sc
}

// applyModifications derives one scenario's active constraint set from the
// base set.
func (c *Comparator) applyModifications(baseDefs []constraint.Definition, mods []Modification) ([]constraint.Definition, error) {
	active := append([]constraint.Definition(nil), baseDefs...)

	for _, m := range mods {
		switch m.Action {
		case ActionAdd:
			def := m.Definition
			if def == nil {
				if c.registry == nil {
					return nil, fmt.Errorf("add %q: no registry to resolve it from", m.ConstraintID)
				}
				resolved, ok := c.registry.Get(m.ConstraintID)
				if !ok {
					return nil, fmt.Errorf("add %q: unknown constraint", m.ConstraintID)
				}
				def = &resolved
			}
			replaced := false
			for i := range active {
				if active[i].ID == def.ID {
					active[i] = *def
					replaced = true
					break
				}
			}
			if !replaced {
				active = append(active, *def)
			}

		case ActionRemove:
			kept := active[:0]
			found := false
			for _, d := range active {
				if d.ID == m.ConstraintID {
					found = true
					continue
				}
				kept = append(kept, d)
			}
			if !found {
				return nil, fmt.Errorf("remove %q: not in the active set", m.ConstraintID)
			}
			active = kept

		case ActionModify:
			found := false
			for i := range active {
				if active[i].ID != m.ConstraintID {
					continue
				}
				found = true
				if m.Weight != nil {
					active[i].Weight = *m.Weight
				}
				if m.Params != nil {
					if err := m.Params.Validate(); err != nil {
						return nil, fmt.Errorf("modify %q: %w", m.ConstraintID, err)
					}
					active[i].Params = m.Params
				}
			}
			if !found {
				return nil, fmt.Errorf("modify %q: not in the active set", m.ConstraintID)
			}
		}
	}

	if len(active) == 0 {
		return nil, errors.New("modifications removed every constraint")
	}
	return active, nil
}

// computeMetrics attaches travel, home/away balance, and weekend figures.
func (c *Comparator) computeMetrics(ctx context.Context, s *domain.Schedule) (Metrics, error) {
	var m Metrics

	for _, team := range s.Teams {
		miles, err := rules.TeamTravelMiles(ctx, s, team.ID, c.travel)
		if err != nil {
			return Metrics{}, fmt.Errorf("travel metric: %w", err)
		}
		m.TotalTravelMiles += miles
	}
	if len(s.Teams) > 0 {
		budget := rules.DefaultTravelParams.MaxSeasonMiles * float64(len(s.Teams))
		m.TravelScore = clamp01(1 - m.TotalTravelMiles/budget)
	} else {
		m.TravelScore = 1
	}

	m.BalanceScore = balanceScore(s)

	for _, g := range s.Games {
		if timeutil.IsWeekend(g.DateTime()) {
			m.WeekendGames++
		} else {
			m.WeekdayGames++
		}
	}
	if total := m.WeekendGames + m.WeekdayGames; total > 0 {
		m.WeekendShare = float64(m.WeekendGames) / float64(total)
	}
	return m, nil
}

// balanceScore maps the average per-team deviation from an even home/away
// split onto [0,1].
func balanceScore(s *domain.Schedule) float64 {
	judged := 0
	totalDeviation := 0.0
	for _, team := range s.Teams {
		games := s.GamesForTeam(team.ID)
		if len(games) == 0 {
			continue
		}
		judged++
		home := 0
		for _, g := range games {
			if g.HomeTeamID == team.ID {
				home++
			}
		}
		share := float64(home) / float64(len(games))
		totalDeviation += math.Abs(share - 0.5)
	}
	if judged == 0 {
		return 1
	}
	return clamp01(1 - 2*totalDeviation/float64(judged))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Scenario returns one stored scenario by identity.
func (c *Comparator) Scenario(id string) (Scenario, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sc, ok := c.scenarios[id]
	return sc, ok
}
