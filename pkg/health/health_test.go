package health

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeCheckable struct {
	err   error
	delay time.Duration
}

func (f *fakeCheckable) HealthCheck(ctx context.Context) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func TestAdapterChecker(t *testing.T) {
	t.Run("healthy target", func(t *testing.T) {
		checker := NewAdapterChecker("account", &fakeCheckable{}, 0)
		result := checker.Check(context.Background())
		if result.Status != StatusHealthy {
			t.Errorf("status = %q, want healthy", result.Status)
		}
		if result.Name != "account" {
			t.Errorf("name = %q", result.Name)
		}
	})

	t.Run("failing target", func(t *testing.T) {
		checker := NewAdapterChecker("account", &fakeCheckable{err: errors.New("unreachable")}, 0)
		result := checker.Check(context.Background())
		if result.Status != StatusUnhealthy {
			t.Errorf("status = %q, want unhealthy", result.Status)
		}
		if result.Error != "unreachable" {
			t.Errorf("error = %q", result.Error)
		}
	})

	t.Run("timeout applies", func(t *testing.T) {
		checker := NewAdapterChecker("slow", &fakeCheckable{delay: time.Second}, 10*time.Millisecond)
		result := checker.Check(context.Background())
		if result.Status != StatusUnhealthy {
			t.Errorf("status = %q, want unhealthy after timeout", result.Status)
		}
		if !strings.Contains(result.Error, "timed out") {
			t.Errorf("error = %q, want a timeout", result.Error)
		}
	})
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewAdapterChecker("a", &fakeCheckable{}, 0))
	registry.Register(NewAdapterChecker("b", &fakeCheckable{err: errors.New("down")}, 0))

	if len(registry.List()) != 2 {
		t.Fatalf("List() = %v", registry.List())
	}

	result := registry.Check(context.Background())
	if result.IsHealthy() {
		t.Error("aggregate healthy despite a failing check")
	}
	if len(result.Checks) != 2 {
		t.Errorf("got %d check results", len(result.Checks))
	}

	registry.Unregister("b")
	if !registry.Check(context.Background()).IsHealthy() {
		t.Error("aggregate unhealthy after removing the failing check")
	}

	if _, err := registry.CheckOne(context.Background(), "missing"); err == nil {
		t.Error("CheckOne() on unknown name succeeded")
	}
	if one, err := registry.CheckOne(context.Background(), "a"); err != nil || one.Status != StatusHealthy {
		t.Errorf("CheckOne(a) = %+v, %v", one, err)
	}
}

func TestRegistry_ReplaceOnRegister(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewAdapterChecker("x", &fakeCheckable{err: errors.New("down")}, 0))
	registry.Register(NewAdapterChecker("x", &fakeCheckable{}, 0))

	if len(registry.List()) != 1 {
		t.Fatalf("List() = %v", registry.List())
	}
	if !registry.Check(context.Background()).IsHealthy() {
		t.Error("replacement checker not in effect")
	}
}
