package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithTimeout_CompletesBeforeDeadline(t *testing.T) {
	err := WithTimeout(context.Background(), time.Second, func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWithTimeout_ReturnsErrTimeout(t *testing.T) {
	err := WithTimeout(context.Background(), 5*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestOperationContext_AppliesTimeoutWhenNoDeadline(t *testing.T) {
	ctx, cancel := OperationContext(context.Background(), 2*time.Second)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected deadline from operation timeout")
	}
	if remaining := time.Until(deadline); remaining <= 0 || remaining > 2*time.Second {
		t.Fatalf("unexpected remaining timeout: %v", remaining)
	}
}

func TestOperationContext_PreservesCallerDeadline(t *testing.T) {
	parentCtx, parentCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer parentCancel()

	ctx, cancel := OperationContext(parentCtx, 2*time.Second)
	defer cancel()

	parentDeadline, _ := parentCtx.Deadline()
	gotDeadline, _ := ctx.Deadline()
	if !gotDeadline.Equal(parentDeadline) {
		t.Fatalf("expected caller deadline to be preserved, got %v want %v", gotDeadline, parentDeadline)
	}
}

func TestOperationContext_ZeroTimeoutIsPassthrough(t *testing.T) {
	ctx, cancel := OperationContext(context.Background(), 0)
	defer cancel()

	if _, ok := ctx.Deadline(); ok {
		t.Fatal("expected no deadline for zero timeout")
	}
}
