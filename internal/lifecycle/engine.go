// Package lifecycle implements the project lifecycle state machine: phase
// transitions, deliverable tracking, quality gate evaluation, and the audit
// trail behind all of it.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Foreman/internal/gatecheck"
	"github.com/MikeSquared-Agency/Foreman/internal/hermes"
	"github.com/MikeSquared-Agency/Foreman/internal/project"
	"github.com/MikeSquared-Agency/Foreman/internal/roster"
	"github.com/MikeSquared-Agency/Foreman/internal/store"
)

// Engine orchestrates all lifecycle operations. Mutating operations on the
// same project are serialized; operations on distinct projects do not block
// one another.
type Engine struct {
	store   store.Store
	catalog project.Catalog
	checks  *gatecheck.Registry
	roster  roster.Client
	hermes  hermes.Client
	logger  *slog.Logger

	locks *keyedLocks
}

func New(s store.Store, catalog project.Catalog, checks *gatecheck.Registry, r roster.Client, h hermes.Client, logger *slog.Logger) *Engine {
	return &Engine{
		store:   s,
		catalog: catalog,
		checks:  checks,
		roster:  r,
		hermes:  h,
		logger:  logger,
		locks:   newKeyedLocks(),
	}
}

// CreateProject starts a project in the first catalog phase, materializing
// that phase's deliverables and gates. Caller-supplied custom deliverables
// are always attached to the initial phase and always required.
func (e *Engine) CreateProject(ctx context.Context, name, description string, custom []project.DeliverableTemplate) (*project.Project, error) {
	def, ok := e.catalog.Definition(project.FirstPhase)
	if !ok {
		return nil, project.NewError(project.CodeInvalidConfig,
			"catalog has no entry for phase %s", project.FirstPhase)
	}

	now := time.Now()
	p := &project.Project{
		ID:             uuid.New(),
		Name:           name,
		Description:    description,
		CurrentPhase:   project.FirstPhase,
		PhaseStartedAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
		Metrics:        project.Metrics{PlannedDurationDays: def.DurationDays},
	}
	e.materializePhase(p, def)

	for _, t := range custom {
		p.Deliverables = append(p.Deliverables, &project.Deliverable{
			ID:          uuid.New(),
			ProjectID:   p.ID,
			Phase:       project.FirstPhase,
			Name:        t.Name,
			Description: t.Description,
			Required:    true,
			Type:        t.Type,
			Status:      project.DeliverablePending,
			Artifacts:   []*project.Artifact{},
		})
	}

	p.Metrics = project.ComputeMetrics(p, now)

	// The creation event rides on the aggregate so the store persists both in
	// one operation; a project never exists without its creation record.
	p.AuditLog = []*project.AuditEvent{newAuditEvent(p, project.EventPhaseTransition, "system", map[string]interface{}{
		"action": "project_created",
		"phase":  p.CurrentPhase.String(),
	})}

	if err := e.store.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if e.hermes != nil {
		_ = e.hermes.Publish(hermes.SubjectProjectCreated(p.ID.String()), hermes.ProjectCreatedEvent{
			ProjectID: p.ID.String(),
			Name:      p.Name,
			Phase:     p.CurrentPhase.String(),
		})
	}

	e.logger.Info("project created", "project_id", p.ID, "name", p.Name,
		"deliverables", len(p.Deliverables), "gates", len(p.QualityGates))
	return p, nil
}

// GetProject resolves a project or fails with NOT_FOUND.
func (e *Engine) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	p, err := e.store.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if p == nil {
		return nil, project.NewError(project.CodeNotFound, "project not found: %s", id)
	}
	return p, nil
}

// ListProjects returns every known project.
func (e *Engine) ListProjects(ctx context.Context) ([]*project.Project, error) {
	return e.store.ListProjects(ctx)
}

// GetProjectMetrics recomputes and returns the derived metrics snapshot.
func (e *Engine) GetProjectMetrics(ctx context.Context, id uuid.UUID) (*project.Metrics, error) {
	p, err := e.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	m := project.ComputeMetrics(p, time.Now())
	return &m, nil
}

// GetAuditLog returns the project's audit trail in acceptance order.
func (e *Engine) GetAuditLog(ctx context.Context, id uuid.UUID) ([]*project.AuditEvent, error) {
	if _, err := e.GetProject(ctx, id); err != nil {
		return nil, err
	}
	return e.store.GetAuditEvents(ctx, id)
}

// CheckPhaseCompletion is a pure query over the project's current phase. It
// never mutates state.
func (e *Engine) CheckPhaseCompletion(ctx context.Context, id uuid.UUID) (*project.CompletionStatus, error) {
	p, err := e.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return completionFor(p, p.CurrentPhase), nil
}

// completionFor computes completion of one phase from the aggregate alone.
func completionFor(p *project.Project, phase project.Phase) *project.CompletionStatus {
	var missing []*project.Deliverable
	var completedRequired, totalRequired int
	for _, d := range p.Deliverables {
		if d.Phase != phase || !d.Required {
			continue
		}
		totalRequired++
		if d.Status == project.DeliverableCompleted {
			completedRequired++
		} else {
			missing = append(missing, d)
		}
	}

	var pendingBlocking []*project.QualityGate
	var totalBlocking, passedBlocking int
	for _, g := range p.QualityGates {
		if g.Phase != phase {
			continue
		}
		if g.BlocksTransition {
			totalBlocking++
			if g.Status == project.GatePassed {
				passedBlocking++
			} else {
				pendingBlocking = append(pendingBlocking, g)
			}
		}
	}

	var blockers []string
	if len(missing) > 0 {
		blockers = append(blockers, fmt.Sprintf("missing %d required deliverables", len(missing)))
	}
	if len(pendingBlocking) > 0 {
		blockers = append(blockers, fmt.Sprintf("%d blocking quality gates not passed", len(pendingBlocking)))
	}

	total := totalRequired + totalBlocking
	done := completedRequired + passedBlocking
	pct := 0
	if total > 0 {
		pct = (done*100 + total/2) / total
	}

	return &project.CompletionStatus{
		Phase:                phase,
		IsComplete:           len(missing) == 0 && len(pendingBlocking) == 0,
		CompletionPercentage: pct,
		MissingDeliverables:  missing,
		PendingGates:         pendingBlocking,
		Blockers:             blockers,
	}
}

// RunQualityGates evaluates every gate of the given phase. Automated gates are
// re-evaluated through the metric-check registry on every run; manual gates
// are never auto-evaluated and a manual approval is never downgraded here.
func (e *Engine) RunQualityGates(ctx context.Context, id uuid.UUID, phase project.Phase) (*project.GateResults, error) {
	unlock := e.locks.lock(id)
	defer unlock()

	p, err := e.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.catalog.Contains(phase) {
		return nil, project.NewError(project.CodeInvalidPhase, "phase %s is not in the catalog", phase)
	}

	results, err := e.runGatesLocked(ctx, p, phase)
	if err != nil {
		return nil, err
	}
	if err := e.store.UpdateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return results, nil
}

// runGatesLocked evaluates gates and appends the gate_result audit event. The
// caller holds the project lock and persists the aggregate.
func (e *Engine) runGatesLocked(ctx context.Context, p *project.Project, phase project.Phase) (*project.GateResults, error) {
	snap := gatecheck.Snapshot{
		ProjectID: p.ID.String(),
		Phase:     phase,
		Metrics:   project.ComputeMetrics(p, time.Now()),
	}

	results := &project.GateResults{Phase: phase}
	for _, g := range p.QualityGates {
		if g.Phase != phase {
			continue
		}
		results.TotalGates++
		results.Results = append(results.Results, g)

		switch g.Type {
		case project.GateAutomated:
			res := e.checks.Run(ctx, g.Name, snap)
			now := time.Now()
			g.RunAt = &now
			g.Criteria = res.Criteria
			g.Evidence = res.Evidence
			if res.Passed {
				g.Status = project.GatePassed
				g.PassedAt = &now
				results.PassedGates++
			} else {
				g.Status = project.GateFailed
				g.FailedAt = &now
				results.FailedGates++
				if g.BlocksTransition {
					results.Blockers = append(results.Blockers, fmt.Sprintf("failed gate: %s", g.Name))
				}
			}
		case project.GateManual:
			if g.Status == project.GatePending && g.BlocksTransition {
				results.Blockers = append(results.Blockers, fmt.Sprintf("manual gate pending: %s", g.Name))
			}
			if g.Status == project.GatePassed {
				results.PassedGates++
			}
			if g.Status == project.GateFailed {
				results.FailedGates++
			}
		}
	}

	results.OverallPass = results.FailedGates == 0 && allBlockingPassed(results.Results)
	p.Metrics = project.ComputeMetrics(p, time.Now())

	if err := e.appendAudit(ctx, p, project.EventGateResult, "system", map[string]interface{}{
		"phase":       phase.String(),
		"total_gates": results.TotalGates,
		"passed":      results.PassedGates,
		"failed":      results.FailedGates,
		"blockers":    results.Blockers,
	}); err != nil {
		return nil, err
	}

	if e.hermes != nil {
		_ = e.hermes.Publish(hermes.SubjectGateResult(p.ID.String()), hermes.GateResultEvent{
			ProjectID:   p.ID.String(),
			Phase:       phase.String(),
			TotalGates:  results.TotalGates,
			PassedGates: results.PassedGates,
			FailedGates: results.FailedGates,
			OverallPass: results.OverallPass,
			Blockers:    results.Blockers,
		})
	}

	e.logger.Info("quality gates evaluated", "project_id", p.ID, "phase", phase.String(),
		"passed", results.PassedGates, "failed", results.FailedGates, "overall_pass", results.OverallPass)
	return results, nil
}

func allBlockingPassed(gates []*project.QualityGate) bool {
	for _, g := range gates {
		if g.BlocksTransition && g.Status != project.GatePassed {
			return false
		}
	}
	return true
}

// ApproveManualGate marks a manual gate as passed. Approval is sticky:
// subsequent gate runs never downgrade it. Re-approving an already-passed
// gate refreshes the attribution and appends its own audit event.
func (e *Engine) ApproveManualGate(ctx context.Context, id uuid.UUID, gateName, approvedBy string) error {
	unlock := e.locks.lock(id)
	defer unlock()

	p, err := e.GetProject(ctx, id)
	if err != nil {
		return err
	}

	var gate *project.QualityGate
	for _, g := range p.QualityGates {
		if g.Name == gateName {
			gate = g
			break
		}
	}
	if gate == nil {
		return project.NewError(project.CodeNotFound, "quality gate not found: %s", gateName)
	}
	if gate.Type != project.GateManual {
		return project.NewError(project.CodeGateTypeMismatch, "gate %s is not a manual gate", gateName)
	}

	now := time.Now()
	gate.Status = project.GatePassed
	gate.PassedAt = &now
	gate.Evidence = []string{fmt.Sprintf("approved by %s at %s", approvedBy, now.Format(time.RFC3339))}

	p.Approvals = append(p.Approvals, &project.Approval{
		ID:         uuid.New(),
		ProjectID:  p.ID,
		Phase:      gate.Phase,
		GateName:   gateName,
		ApprovedBy: approvedBy,
		ApprovedAt: now,
	})
	p.Metrics = project.ComputeMetrics(p, now)

	if err := e.appendAudit(ctx, p, project.EventGateResult, approvedBy, map[string]interface{}{
		"gate":   gateName,
		"status": string(project.GatePassed),
		"type":   "manual_approval",
	}); err != nil {
		return err
	}
	if err := e.store.UpdateProject(ctx, p); err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	if e.hermes != nil {
		_ = e.hermes.Publish(hermes.SubjectGateApproved(p.ID.String()), hermes.GateApprovedEvent{
			ProjectID:  p.ID.String(),
			GateName:   gateName,
			ApprovedBy: approvedBy,
		})
	}

	e.logger.Info("manual gate approved", "project_id", p.ID, "gate", gateName, "approved_by", approvedBy)
	return nil
}

// RequestTransition advances a project to the immediate successor phase. The
// request's from phase must match the project's actual current phase; phases
// are never skipped or reversed.
func (e *Engine) RequestTransition(ctx context.Context, req project.TransitionRequest) (*project.TransitionResult, error) {
	unlock := e.locks.lock(req.ProjectID)
	defer unlock()

	p, err := e.GetProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	if !e.catalog.Contains(req.FromPhase) || !e.catalog.Contains(req.ToPhase) {
		return nil, project.NewError(project.CodeInvalidPhase, "invalid phase in transition request")
	}
	if req.ToPhase.Index() != req.FromPhase.Index()+1 {
		return nil, project.NewError(project.CodeNonSequentialTransition,
			"cannot transition %s -> %s: phases must proceed sequentially", req.FromPhase, req.ToPhase)
	}
	if req.FromPhase != p.CurrentPhase {
		return nil, project.NewError(project.CodeNonSequentialTransition,
			"from phase %s does not match current phase %s", req.FromPhase, p.CurrentPhase)
	}

	if !req.SkipGates {
		completion := completionFor(p, p.CurrentPhase)
		if !completion.IsComplete {
			return nil, &project.Error{
				Code:                project.CodePhaseIncomplete,
				Message:             fmt.Sprintf("phase %s is not complete", p.CurrentPhase),
				Blockers:            completion.Blockers,
				MissingDeliverables: completion.MissingDeliverables,
			}
		}

		gateResults, err := e.runGatesLocked(ctx, p, req.FromPhase)
		if err != nil {
			return nil, err
		}
		if !gateResults.OverallPass {
			var failed []*project.QualityGate
			for _, g := range gateResults.Results {
				if g.Status == project.GateFailed {
					failed = append(failed, g)
				}
			}
			// Persist the gate evaluation even though the transition fails.
			if uerr := e.store.UpdateProject(ctx, p); uerr != nil {
				return nil, fmt.Errorf("update project: %w", uerr)
			}
			return nil, &project.Error{
				Code:        project.CodeGatesFailed,
				Message:     fmt.Sprintf("quality gates failed for phase %s", req.FromPhase),
				Blockers:    gateResults.Blockers,
				FailedGates: failed,
			}
		}
	}

	def, ok := e.catalog.Definition(req.ToPhase)
	if !ok {
		return nil, project.NewError(project.CodeInvalidPhase, "catalog has no entry for phase %s", req.ToPhase)
	}

	now := time.Now()
	p.CurrentPhase = req.ToPhase
	p.PhaseStartedAt = now
	e.materializePhase(p, def)
	p.Metrics.PlannedDurationDays += def.DurationDays
	p.Metrics = project.ComputeMetrics(p, now)

	if err := e.appendAudit(ctx, p, project.EventPhaseTransition, req.RequestedBy, map[string]interface{}{
		"from":       req.FromPhase.String(),
		"to":         req.ToPhase.String(),
		"reason":     req.Reason,
		"skip_gates": req.SkipGates,
	}); err != nil {
		return nil, err
	}
	if err := e.store.UpdateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	if e.hermes != nil {
		_ = e.hermes.Publish(hermes.SubjectPhaseAdvanced(p.ID.String()), hermes.PhaseAdvancedEvent{
			ProjectID:   p.ID.String(),
			FromPhase:   req.FromPhase.String(),
			ToPhase:     req.ToPhase.String(),
			RequestedBy: req.RequestedBy,
			Reason:      req.Reason,
			SkipGates:   req.SkipGates,
		})
	}

	e.logger.Info("phase transition", "project_id", p.ID,
		"from", req.FromPhase.String(), "to", req.ToPhase.String(), "skip_gates", req.SkipGates)
	return &project.TransitionResult{
		NewPhase: req.ToPhase,
		Message:  fmt.Sprintf("transitioned to %s phase", req.ToPhase),
	}, nil
}

// AssignDeliverable assigns a deliverable to an actor after checking the
// actor's phase compatibility with the roster.
func (e *Engine) AssignDeliverable(ctx context.Context, deliverableID uuid.UUID, actor string) error {
	p, err := e.store.FindProjectByDeliverable(ctx, deliverableID)
	if err != nil {
		return fmt.Errorf("find project by deliverable: %w", err)
	}
	if p == nil {
		return project.NewError(project.CodeNotFound, "deliverable not found: %s", deliverableID)
	}

	unlock := e.locks.lock(p.ID)
	defer unlock()

	// Re-read under the lock.
	p, err = e.GetProject(ctx, p.ID)
	if err != nil {
		return err
	}
	d := findDeliverable(p, deliverableID)
	if d == nil {
		return project.NewError(project.CodeNotFound, "deliverable not found: %s", deliverableID)
	}

	phases, err := e.roster.CompatiblePhases(ctx, actor)
	if err != nil {
		return fmt.Errorf("roster lookup for %s: %w", actor, err)
	}
	if !containsPhase(phases, d.Phase) {
		return project.NewError(project.CodeIncompatibleAssignment,
			"actor %s is not compatible with phase %s", actor, d.Phase)
	}

	now := time.Now()
	d.AssignedAgent = actor
	d.AssignedAt = &now
	d.Status = project.DeliverableInProgress
	p.Metrics = project.ComputeMetrics(p, now)

	if err := e.appendAudit(ctx, p, project.EventAgentAssignment, "system", map[string]interface{}{
		"deliverable_id":   d.ID.String(),
		"deliverable_name": d.Name,
		"agent":            actor,
	}); err != nil {
		return err
	}
	if err := e.store.UpdateProject(ctx, p); err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	if e.hermes != nil {
		_ = e.hermes.Publish(hermes.SubjectDeliverableAssigned(d.ID.String()), hermes.DeliverableAssignedEvent{
			ProjectID:     p.ID.String(),
			DeliverableID: d.ID.String(),
			Name:          d.Name,
			Agent:         actor,
		})
	}

	e.logger.Info("deliverable assigned", "project_id", p.ID, "deliverable", d.Name, "agent", actor)
	return nil
}

// CompleteDeliverable marks a deliverable completed and replaces its artifact
// list with the supplied set. Completing an already-completed deliverable is
// redo, not an error: the second artifact set wins and a second audit event
// is appended.
func (e *Engine) CompleteDeliverable(ctx context.Context, deliverableID uuid.UUID, artifacts []project.ArtifactInput) error {
	p, err := e.store.FindProjectByDeliverable(ctx, deliverableID)
	if err != nil {
		return fmt.Errorf("find project by deliverable: %w", err)
	}
	if p == nil {
		return project.NewError(project.CodeNotFound, "deliverable not found: %s", deliverableID)
	}

	unlock := e.locks.lock(p.ID)
	defer unlock()

	p, err = e.GetProject(ctx, p.ID)
	if err != nil {
		return err
	}
	d := findDeliverable(p, deliverableID)
	if d == nil {
		return project.NewError(project.CodeNotFound, "deliverable not found: %s", deliverableID)
	}

	now := time.Now()
	d.Status = project.DeliverableCompleted
	d.CompletedAt = &now

	d.Artifacts = make([]*project.Artifact, 0, len(artifacts))
	artifactNames := make([]string, 0, len(artifacts))
	for _, in := range artifacts {
		createdBy := in.CreatedBy
		if createdBy == "" {
			createdBy = d.AssignedAgent
		}
		d.Artifacts = append(d.Artifacts, &project.Artifact{
			ID:            uuid.New(),
			DeliverableID: d.ID,
			Type:          in.Type,
			Name:          in.Name,
			Content:       in.Content,
			URL:           in.URL,
			CreatedBy:     createdBy,
			CreatedAt:     now,
		})
		artifactNames = append(artifactNames, in.Name)
	}

	p.Metrics = project.ComputeMetrics(p, now)

	actor := d.AssignedAgent
	if actor == "" {
		actor = "unknown"
	}
	if err := e.appendAudit(ctx, p, project.EventDeliverableComplete, actor, map[string]interface{}{
		"deliverable_id":   d.ID.String(),
		"deliverable_name": d.Name,
		"artifacts":        artifactNames,
	}); err != nil {
		return err
	}
	if err := e.store.UpdateProject(ctx, p); err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	if e.hermes != nil {
		_ = e.hermes.Publish(hermes.SubjectDeliverableCompleted(d.ID.String()), hermes.DeliverableCompletedEvent{
			ProjectID:     p.ID.String(),
			DeliverableID: d.ID.String(),
			Name:          d.Name,
			Artifacts:     artifactNames,
		})
	}

	e.logger.Info("deliverable completed", "project_id", p.ID, "deliverable", d.Name, "artifacts", len(artifactNames))
	return nil
}

// materializePhase appends the catalog's deliverables and gates for a phase.
// Existing deliverables and gates from prior phases are retained.
func (e *Engine) materializePhase(p *project.Project, def project.PhaseDefinition) {
	for _, t := range def.Deliverables {
		p.Deliverables = append(p.Deliverables, &project.Deliverable{
			ID:          uuid.New(),
			ProjectID:   p.ID,
			Phase:       def.Phase,
			Name:        t.Name,
			Description: t.Description,
			Required:    t.Required,
			Type:        t.Type,
			Status:      project.DeliverablePending,
			Artifacts:   []*project.Artifact{},
		})
	}
	for _, t := range def.QualityGates {
		p.QualityGates = append(p.QualityGates, &project.QualityGate{
			ID:               uuid.New(),
			ProjectID:        p.ID,
			Phase:            def.Phase,
			Name:             t.Name,
			Description:      t.Description,
			Type:             t.Type,
			BlocksTransition: t.BlocksTransition,
			Criteria:         []project.GateCriterion{},
			Status:           project.GatePending,
		})
	}
}

func newAuditEvent(p *project.Project, eventType project.EventType, actor string, details map[string]interface{}) *project.AuditEvent {
	return &project.AuditEvent{
		ID:        uuid.New(),
		ProjectID: p.ID,
		Timestamp: time.Now(),
		Phase:     p.CurrentPhase,
		EventType: eventType,
		Actor:     actor,
		Details:   details,
	}
}

func (e *Engine) appendAudit(ctx context.Context, p *project.Project, eventType project.EventType, actor string, details map[string]interface{}) error {
	event := newAuditEvent(p, eventType, actor, details)
	if err := e.store.AppendAuditEvent(ctx, event); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	p.AuditLog = append(p.AuditLog, event)
	return nil
}

func findDeliverable(p *project.Project, id uuid.UUID) *project.Deliverable {
	for _, d := range p.Deliverables {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func containsPhase(phases []project.Phase, phase project.Phase) bool {
	for _, p := range phases {
		if p == phase {
			return true
		}
	}
	return false
}
