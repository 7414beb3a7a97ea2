package resilience

import (
	"context"
	"errors"
	"time"
)

// retryableError is implemented by errors that know whether the failed
// operation may be attempted again.
type retryableError interface {
	Retryable() bool
}

// retryAfterError is implemented by errors that carry a server-suggested
// delay before the next attempt (e.g. a throttling response).
type retryAfterError interface {
	RetryAfter() time.Duration
}

// ErrRetryBudgetExhausted is returned when all retry attempts have failed.
// The last attempt's error is wrapped alongside it.
var ErrRetryBudgetExhausted = errors.New("retry budget exhausted")

// RetryPolicy retries an operation with capped exponential backoff.
// An error is retried only when it implements Retryable() bool and reports
// true; a server-provided RetryAfter() overrides the computed backoff.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialBackoff is the delay before the second attempt.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential growth of the delay.
	MaxBackoff time.Duration
}

// DefaultRetryPolicy mirrors the service defaults for throttled requests.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    5,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     3 * time.Second,
	}
}

// Execute runs fn until it succeeds, returns a non-retryable error, the
// attempt budget runs out, or the context is cancelled.
func (p RetryPolicy) Execute(ctx context.Context, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := p.InitialBackoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := backoff
			var ra retryAfterError
			if errors.As(lastErr, &ra) && ra.RetryAfter() > 0 {
				delay = ra.RetryAfter()
			}
			if p.MaxBackoff > 0 && delay > p.MaxBackoff {
				delay = p.MaxBackoff
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}

			backoff *= 2
			if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
				backoff = p.MaxBackoff
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		var re retryableError
		if !errors.As(lastErr, &re) || !re.Retryable() {
			return lastErr
		}
	}

	return errors.Join(ErrRetryBudgetExhausted, lastErr)
}
