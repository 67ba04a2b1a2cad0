// Package health aggregates readiness checks of the service's dependencies.
package health

import (
	"context"
	"sort"
	"sync"
)

// CheckFunc reports whether a dependency is usable
type CheckFunc func(ctx context.Context) error

// Status values reported per dependency
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded" // optional dependency failing
	StatusDown     = "down"
)

type entry struct {
	check    CheckFunc
	optional bool
}

// Result is the outcome of one check
type Result struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Registry manages dependency checks
type Registry struct {
	mu     sync.RWMutex
	checks map[string]entry
}

// NewRegistry creates a new check registry
func NewRegistry() *Registry {
	return &Registry{
		checks: make(map[string]entry),
	}
}

// Register adds a required check. The service is not ready while it fails.
func (r *Registry) Register(name string, check CheckFunc) {
	r.add(name, entry{check: check})
}

// RegisterOptional adds a check whose failure only degrades the service
func (r *Registry) RegisterOptional(name string, check CheckFunc) {
	r.add(name, entry{check: check, optional: true})
}

func (r *Registry) add(name string, e entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = e
}

// List returns all registered check names in order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckAll runs every check. ready is false when a required check fails.
func (r *Registry) CheckAll(ctx context.Context) (results map[string]Result, ready bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results = make(map[string]Result, len(r.checks))
	ready = true
	for name, e := range r.checks {
		err := e.check(ctx)
		switch {
		case err == nil:
			results[name] = Result{Status: StatusOK}
		case e.optional:
			results[name] = Result{Status: StatusDegraded, Error: err.Error()}
		default:
			results[name] = Result{Status: StatusDown, Error: err.Error()}
			ready = false
		}
	}
	return results, ready
}
