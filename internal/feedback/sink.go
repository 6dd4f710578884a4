// Package feedback forwards completed evaluation reports to an analysis
// sink. The engine treats emission as fire-and-forget.
package feedback

import (
	"context"
	"log/slog"

	"schedule-engine/internal/domain"
	"schedule-engine/internal/engine"
	"schedule-engine/internal/logging"
)

// LogSink records evaluation outcomes through the structured logger. It is
// the default sink when no external feedback collector is configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink constructs a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Record logs the report summary. It never blocks on external I/O.
func (s *LogSink) Record(_ context.Context, sched *domain.Schedule, report *engine.Report) error {
	logging.Info(s.logger, "evaluation feedback",
		logging.FieldSchedule, sched.ID,
		logging.FieldSport, string(sched.Sport),
		logging.FieldScore, report.OverallScore,
		"hard_satisfied", report.HardConstraintsSatisfied,
		logging.FieldCount, len(report.Results),
	)
	return nil
}

// MultiSink fans a report out to several sinks; the first error is
// returned but later sinks still run.
type MultiSink []engine.FeedbackSink

func (m MultiSink) Record(ctx context.Context, sched *domain.Schedule, report *engine.Report) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.Record(ctx, sched, report); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
