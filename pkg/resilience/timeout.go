package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when an operation exceeds its timeout
var ErrTimeout = errors.New("operation timed out")

// WithTimeout executes the given function with a timeout.
// If the function does not complete within the timeout duration, it returns ErrTimeout.
func WithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- fn(timeoutCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-timeoutCtx.Done():
		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return timeoutCtx.Err()
	}
}

// OperationContext derives a context bounded by the given operation timeout.
// A caller-supplied deadline always wins: when the parent context already
// carries one, the parent is returned unchanged.
func OperationContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
