package collab

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"schedule-engine/internal/domain"
	"schedule-engine/internal/logging"
)

const (
	defaultRetryAttempts = 3
	defaultRetryBase     = 200 * time.Millisecond
)

// retryingTravel wraps a TravelEstimator with retry/backoff behavior.
type retryingTravel struct {
	inner       TravelEstimator
	logger      *slog.Logger
	maxAttempts int
	base        time.Duration
}

// NewRetryingTravel wraps the given estimator with exponential-backoff
// retries. If maxAttempts/base are <= 0, defaults are used.
func NewRetryingTravel(inner TravelEstimator, logger *slog.Logger, maxAttempts int, base time.Duration) TravelEstimator {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if base <= 0 {
		base = defaultRetryBase
	}
	return &retryingTravel{inner: inner, logger: logger, maxAttempts: maxAttempts, base: base}
}

func (r *retryingTravel) Distance(ctx context.Context, from, to domain.Coordinates) (float64, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.base

	var miles float64
	attempt := 0
	op := func() error {
		attempt++
		var err error
		miles, err = r.inner.Distance(ctx, from, to)
		if err != nil && attempt < r.maxAttempts {
			logging.Warn(r.logger, "travel lookup retry",
				logging.FieldCollaborator, "travel",
				"attempt", attempt, "max_attempts", r.maxAttempts, "err", err)
		}
		return err
	}

	wrapped := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)
	if err := backoff.Retry(op, wrapped); err != nil {
		logging.Warn(r.logger, "travel lookup failed",
			logging.FieldCollaborator, "travel", "attempts", attempt, "err", err)
		return 0, err
	}
	return miles, nil
}
