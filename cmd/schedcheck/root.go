package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"schedule-engine/internal/collab"
	"schedule-engine/internal/config"
	"schedule-engine/internal/constraint"
	"schedule-engine/internal/domain"
	"schedule-engine/internal/engine"
	"schedule-engine/internal/feedback"
	"schedule-engine/internal/logging"
	"schedule-engine/internal/metrics"
	"schedule-engine/internal/rules"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "schedcheck",
		Short:         "Evaluate sports-league schedules against constraint rules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEvaluateCmd(), newConflictsCmd(), newCompareCmd())
	return root
}

// app wires configuration, logging, metrics, collaborators, and the engine
// for one command invocation.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	recorder *metrics.Recorder
	engine   *engine.Engine
	deps     rules.Deps
	shutdown func(context.Context) error
}

func newApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "schedcheck",
	})

	recorder, promHandler, shutdown, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		return nil, fmt.Errorf("metrics setup: %w", err)
	}
	if promHandler != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promHandler)
		go func() {
			addr := ":" + cfg.Metrics.Port
			if serveErr := http.ListenAndServe(addr, mux); serveErr != nil {
				logging.Warn(logger, "metrics listener stopped", "err", serveErr)
			}
		}()
	}

	travel := collab.NewRetryingTravel(collab.FixtureTravel{}, logger, cfg.Collab.MaxRetries, cfg.Collab.RetryBase)
	deps := rules.Deps{Travel: travel, Weather: collab.FixtureWeather{}}

	eng := engine.New(engine.Config{
		MaxParallel:       cfg.Engine.MaxParallelConstraints,
		ConstraintTimeout: cfg.Engine.ConstraintTimeout,
		CacheEnabled:      cfg.Engine.CacheEnabled,
		CacheSize:         cfg.Engine.CacheSize,
		CacheTTL:          cfg.Engine.CacheTTL,
	},
		engine.WithLogger(logger),
		engine.WithRecorder(recorder),
		engine.WithFeedbackSink(feedback.NewLogSink(logger)),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		engine:   eng,
		deps:     deps,
		shutdown: shutdown,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			logging.Warn(a.logger, "telemetry shutdown", "err", err)
		}
	}
}

// catalogFor builds the standard constraint registry for a schedule's sport.
func (a *app) catalogFor(s *domain.Schedule) (*constraint.Registry, error) {
	reg := constraint.NewRegistry()
	if err := rules.RegisterDefaults(reg, s.Sport, a.deps); err != nil {
		return nil, fmt.Errorf("register constraint catalog: %w", err)
	}
	return reg, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
