// Package gatecheck implements the metric-check collaborator consumed by the
// quality gate engine. Checks are registered per gate name; a gate whose name
// has no registered check can never pass.
package gatecheck

import (
	"context"
	"fmt"
	"sync"

	"github.com/MikeSquared-Agency/Foreman/internal/project"
)

// Snapshot is the read-only project state handed to a check.
type Snapshot struct {
	ProjectID string          `json:"project_id"`
	Phase     project.Phase   `json:"phase"`
	Metrics   project.Metrics `json:"metrics"`
}

// Result is one automated gate evaluation.
type Result struct {
	Passed   bool
	Criteria []project.GateCriterion
	Evidence []string
}

// Check evaluates one automated gate against a project snapshot.
type Check func(ctx context.Context, snap Snapshot) (Result, error)

// Registry maps gate names to checks. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]Check
}

func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// Register installs a check for a gate name, replacing any previous one.
func (r *Registry) Register(gateName string, check Check) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[gateName] = check
}

// Lookup returns the check for a gate name.
func (r *Registry) Lookup(gateName string) (Check, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.checks[gateName]
	return c, ok
}

// Run evaluates the named gate. An unknown name or a check failure both come
// back as a failed Result rather than an error, so one unevaluable gate never
// aborts a whole evaluation batch.
func (r *Registry) Run(ctx context.Context, gateName string, snap Snapshot) Result {
	check, ok := r.Lookup(gateName)
	if !ok {
		return Result{
			Passed:   false,
			Evidence: []string{fmt.Sprintf("no metric check registered for gate %q", gateName)},
		}
	}
	res, err := check(ctx, snap)
	if err != nil {
		return Result{
			Passed:   false,
			Evidence: []string{fmt.Sprintf("metric check error: %v", err)},
		}
	}
	return res
}
