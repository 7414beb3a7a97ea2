package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

type throttledErr struct {
	retryAfter time.Duration
}

func (e *throttledErr) Error() string             { return "throttled" }
func (e *throttledErr) Retryable() bool           { return true }
func (e *throttledErr) RetryAfter() time.Duration { return e.retryAfter }

type terminalErr struct{}

func (e *terminalErr) Error() string   { return "bad request" }
func (e *terminalErr) Retryable() bool { return false }

func TestRetryPolicy_SucceedsAfterThrottle(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}

	calls := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return &throttledErr{retryAfter: time.Millisecond}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryPolicy_NonRetryableStopsImmediately(t *testing.T) {
	p := DefaultRetryPolicy()

	calls := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		return &terminalErr{}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestRetryPolicy_BudgetExhausted(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 2, InitialBackoff: time.Millisecond}

	err := p.Execute(context.Background(), func(context.Context) error {
		return &throttledErr{}
	})
	if !errors.Is(err, ErrRetryBudgetExhausted) {
		t.Fatalf("expected retry budget error, got %v", err)
	}
}

func TestRetryPolicy_ContextCancelledDuringBackoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := p.Execute(ctx, func(context.Context) error {
		return &throttledErr{}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRetryPolicy_PlainErrorsAreNotRetried(t *testing.T) {
	p := DefaultRetryPolicy()

	calls := 0
	err := p.Execute(context.Background(), func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	if err == nil || calls != 1 {
		t.Fatalf("expected single failing attempt, got calls=%d err=%v", calls, err)
	}
}
