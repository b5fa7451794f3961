package deletion

import (
	"context"
	"math"
	"time"

	"github.com/buildlog/estimator/internal/metrics"
)

// Operation is the caller-supplied delete. It should return an error
// for transport/permission/etc. failures and (false, nil) only for an
// application-level "not actually deleted" outcome; this layer passes a
// false result through untouched and lets the caller interpret it.
type Operation func(ctx context.Context, id string) (bool, error)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig gives 4 total attempts with 1s/2s/4s backoff.
var DefaultRetryConfig = RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   30 * time.Second,
}

// ExecuteWithRetry runs op with bounded exponential backoff. Errors are
// re-classified on every attempt: a transient network failure followed
// by a permission failure stops retrying at that point. The terminal
// error is returned unchanged so callers can classify it themselves.
func ExecuteWithRetry(ctx context.Context, op Operation, id string, cfg RetryConfig) (bool, error) {
	for attempt := 0; ; attempt++ {
		result, err := op(ctx, id)
		if err == nil {
			return result, nil
		}

		if !Resolve(err, "").Retryable || attempt >= cfg.MaxRetries {
			return false, err
		}

		metrics.DeleteRetries.Inc()
		delay := backoffDelay(attempt, cfg)
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func backoffDelay(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.BaseDelay) * math.Pow(2, float64(attempt))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return time.Duration(delay)
}
