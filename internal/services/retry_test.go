package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func recordingSleep(delays *[]time.Duration) sleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestRetryWithBackoffSucceedsFirstTry(t *testing.T) {
	var delays []time.Duration
	calls := 0
	got, err := retryWithBackoff(context.Background(), backoffSchedule{Attempts: 3, BaseDelay: 2 * time.Second}, func(error) bool { return true }, recordingSleep(&delays), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 1 {
		t.Fatalf("got %q after %d calls, want %q after 1", got, calls, "ok")
	}
	if len(delays) != 0 {
		t.Fatalf("expected no sleeps, got %v", delays)
	}
}

func TestRetryWithBackoffDoublesDelay(t *testing.T) {
	var delays []time.Duration
	calls := 0
	_, err := retryWithBackoff(context.Background(), backoffSchedule{Attempts: 3, BaseDelay: 2 * time.Second}, func(error) bool { return true }, recordingSleep(&delays), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Fatalf("delay %d = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetryWithBackoffStopsOnNonRetryable(t *testing.T) {
	var delays []time.Duration
	calls := 0
	permanent := errors.New("permanent")
	_, err := retryWithBackoff(context.Background(), backoffSchedule{Attempts: 3, BaseDelay: time.Second}, func(error) bool { return false }, recordingSleep(&delays), func(ctx context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 || len(delays) != 0 {
		t.Fatalf("expected a single call with no sleeps, got %d calls and delays %v", calls, delays)
	}
}

func TestRetryWithBackoffReturnsLastError(t *testing.T) {
	var delays []time.Duration
	calls := 0
	_, err := retryWithBackoff(context.Background(), backoffSchedule{Attempts: 3, BaseDelay: time.Second}, func(error) bool { return true }, recordingSleep(&delays), func(ctx context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("transient %d", calls)
	})
	if err == nil || err.Error() != "transient 3" {
		t.Fatalf("expected last error from attempt 3, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoffHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	sleep := func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}
	_, err := retryWithBackoff(ctx, backoffSchedule{Attempts: 3, BaseDelay: time.Second}, func(error) bool { return true }, sleep, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", calls)
	}
}
