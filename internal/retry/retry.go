// Package retry provides a small bounded-retry helper with exponential
// backoff, shared by callers that need to ride out transient races.
package retry

import (
	"context"
	"time"
)

// Options bound a retry loop. MaxAttempts counts the operations run
// after the initial trigger; BaseDelay is slept before the first
// attempt and doubles before each following one.
type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep is swapped out by tests; nil means time.Sleep honoring ctx.
	Sleep func(ctx context.Context, d time.Duration) error
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do runs op up to opts.MaxAttempts times, sleeping BaseDelay<<n before
// attempt n. It returns the first success, or the last error once the
// attempts are spent. retryable decides whether an error is worth
// another attempt; a nil predicate retries everything.
func Do[T any](ctx context.Context, opts Options, op func() (T, error), retryable func(error) bool) (T, error) {
	var zero T
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	delay := opts.BaseDelay
	var lastErr error
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
		}
		delay *= 2

		out, err := op()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if retryable != nil && !retryable(err) {
			return zero, err
		}
	}
	return zero, lastErr
}
