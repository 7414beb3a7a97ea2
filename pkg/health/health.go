// Package health aggregates readiness checks for the pieces an application
// built on the document database client depends on: the account itself plus
// whatever else the caller registers.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/devjourney/cosmos/pkg/resilience"
)

// Status is the outcome of a health check.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is the result of one health check.
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// Checker is a named health check.
type Checker interface {
	Check(ctx context.Context) CheckResult
	Name() string
}

// Checkable is anything that can report its own health, such as the
// database client's account probe.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// AdapterChecker turns a Checkable into a named Checker with a timeout.
type AdapterChecker struct {
	name    string
	target  Checkable
	timeout time.Duration
}

// NewAdapterChecker wraps target as a named checker. A zero timeout
// defaults to 5 seconds.
func NewAdapterChecker(name string, target Checkable, timeout time.Duration) *AdapterChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AdapterChecker{name: name, target: target, timeout: timeout}
}

func (c *AdapterChecker) Name() string { return c.name }

func (c *AdapterChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	err := resilience.WithTimeout(ctx, c.timeout, c.target.HealthCheck)
	result := CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	return result
}

// Registry holds named health checks and runs them together.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{checkers: make(map[string]Checker)}
}

// Register adds a checker, replacing any existing one with the same name.
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// Unregister removes a checker by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, name)
}

// List returns the names of all registered checkers.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	return names
}

// CheckOne runs a single checker by name.
func (r *Registry) CheckOne(ctx context.Context, name string) (CheckResult, error) {
	r.mu.RLock()
	checker, ok := r.checkers[name]
	r.mu.RUnlock()
	if !ok {
		return CheckResult{}, fmt.Errorf("health check not found: %s", name)
	}
	return checker.Check(ctx), nil
}

// Check runs every registered checker concurrently and aggregates the
// results. Any unhealthy check makes the whole result unhealthy.
func (r *Registry) Check(ctx context.Context) AggregatedResult {
	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, checker := range r.checkers {
		checkers = append(checkers, checker)
	}
	r.mu.RUnlock()

	start := time.Now()
	results := make([]CheckResult, len(checkers))

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			results[i] = c.Check(ctx)
		}(i, checker)
	}
	wg.Wait()

	overall := StatusHealthy
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overall = StatusUnhealthy
			break
		}
	}

	return AggregatedResult{
		Status:    overall,
		Checks:    results,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
}

// AggregatedResult is the combined outcome of a registry run.
type AggregatedResult struct {
	Status    Status        `json:"status"`
	Checks    []CheckResult `json:"checks"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// IsHealthy reports whether every check passed.
func (r AggregatedResult) IsHealthy() bool {
	return r.Status == StatusHealthy
}
