package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	projectsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foreman_projects_created_total",
		Help: "Projects created.",
	})

	phaseTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foreman_phase_transitions_total",
		Help: "Successful phase transitions by target phase.",
	}, []string{"to_phase", "skip_gates"})

	gateRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foreman_gate_runs_total",
		Help: "Quality gate evaluation batches by outcome.",
	}, []string{"outcome"})

	deliverablesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foreman_deliverables_completed_total",
		Help: "Deliverable completions, including redos.",
	})
)
