package services

import (
	"context"
	"time"
)

// backoffSchedule bounds a retry loop: attempts total invocations, with
// baseDelay before the second attempt, doubling before each one after.
type backoffSchedule struct {
	Attempts  int
	BaseDelay time.Duration
}

// sleepFunc is injectable so tests can observe the schedule without
// actually waiting. The default honors context cancellation, so a caller
// abandoning a request stops the loop between attempts.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryWithBackoff runs fn up to sched.Attempts times. A failure that the
// predicate rejects stops the loop immediately; a retryable failure sleeps
// the scheduled delay and tries again. The last error is returned once the
// budget is spent.
func retryWithBackoff[T any](ctx context.Context, sched backoffSchedule, retryable func(error) bool, sleep sleepFunc, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if sleep == nil {
		sleep = sleepContext
	}
	attempts := sched.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := sched.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable(err) || attempt == attempts {
			break
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay *= 2
	}
	return zero, lastErr
}
