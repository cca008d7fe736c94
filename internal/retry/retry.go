// Package retry implements linear-backoff retry for transient network
// failures. API errors carrying a service error code are never retried
// here: throttling is already covered by the SDK's adaptive mode, and the
// rest (authorization, validation) will not improve with repetition.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/tdang/curfew/internal/aws"
)

// Defaults used by the discovery and stop paths unless overridden.
const (
	DefaultMaxRetries = 3
	DefaultDelay      = 2 * time.Second
)

// Retrier retries an operation with a constant delay between attempts.
type Retrier struct {
	MaxRetries int
	Delay      time.Duration

	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a Retrier with the given policy.
func New(logger *slog.Logger, maxRetries int, delay time.Duration) *Retrier {
	return &Retrier{
		MaxRetries: maxRetries,
		Delay:      delay,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

// Do runs fn up to r.MaxRetries+1 times, sleeping r.Delay between attempts.
// Only transient-network failures are retried; anything else returns on the
// first attempt. On exhaustion the last transient error is returned.
func Do[T any](ctx context.Context, r *Retrier, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		classified := aws.Classify(err)
		if classified.Kind != aws.KindTransientNetwork {
			return zero, err
		}

		lastErr = err
		if attempt < r.MaxRetries {
			r.logger.Warn("network error, retrying",
				"operation", op,
				"attempt", attempt+1,
				"delay", r.Delay.String(),
				"error", err.Error())
			if serr := r.sleep(ctx, r.Delay); serr != nil {
				return zero, serr
			}
		}
	}

	r.logger.Error("all retry attempts failed",
		"operation", op,
		"attempts", r.MaxRetries+1,
		"error", lastErr.Error())
	return zero, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
