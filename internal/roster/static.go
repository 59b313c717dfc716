package roster

import (
	"context"

	"github.com/MikeSquared-Agency/Foreman/internal/project"
)

// Static serves compatibility from an in-process matrix. Used as the default
// when no roster service is configured, and in tests.
type Static struct {
	matrix map[string][]project.Phase
}

func NewStatic(matrix map[string][]project.Phase) *Static {
	return &Static{matrix: matrix}
}

func (s *Static) CompatiblePhases(_ context.Context, actorID string) ([]project.Phase, error) {
	return s.matrix[actorID], nil
}

// DefaultMatrix is the built-in actor/phase compatibility matrix for the
// studio agent roster.
func DefaultMatrix() map[string][]project.Phase {
	return map[string][]project.Phase{
		// Product
		"trend-researcher":     {project.PhaseRequirements},
		"feedback-synthesizer": {project.PhaseRequirements, project.PhaseMaintenance},
		"sprint-prioritizer":   {project.PhaseRequirements},

		// Design
		"ui-designer":        {project.PhaseDesign},
		"ux-researcher":      {project.PhaseRequirements, project.PhaseDesign},
		"brand-guardian":     {project.PhaseDesign},
		"visual-storyteller": {project.PhaseDesign},
		"whimsy-injector":    {project.PhaseDesign},

		// Engineering
		"frontend-developer": {project.PhaseDesign, project.PhaseImplementation},
		"backend-architect":  {project.PhaseDesign, project.PhaseImplementation},
		"mobile-app-builder": {project.PhaseDesign, project.PhaseImplementation},
		"ai-engineer":        {project.PhaseImplementation},
		"devops-automator":   {project.PhaseDeployment, project.PhaseMaintenance},
		"rapid-prototyper":   {project.PhaseDesign},

		// Testing
		"tool-evaluator":          {project.PhaseTesting},
		"api-tester":              {project.PhaseTesting},
		"workflow-optimizer":      {project.PhaseTesting},
		"performance-benchmarker": {project.PhaseTesting},
		"test-results-analyzer":   {project.PhaseTesting},

		// Operations
		"support-responder":         {project.PhaseMaintenance},
		"analytics-reporter":        {project.PhaseMaintenance},
		"infrastructure-maintainer": {project.PhaseMaintenance},

		// Project management
		"project-shipper":    {project.PhaseDeployment},
		"experiment-tracker": {project.PhaseMaintenance},
		"studio-producer":    {project.PhaseRequirements, project.PhaseDeployment},
	}
}
