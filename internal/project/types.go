package project

import (
	"time"

	"github.com/google/uuid"
)

type DeliverableStatus string

const (
	DeliverablePending    DeliverableStatus = "pending"
	DeliverableInProgress DeliverableStatus = "in_progress"
	DeliverableCompleted  DeliverableStatus = "completed"
	DeliverableBlocked    DeliverableStatus = "blocked"
)

type GateStatus string

const (
	GatePending GateStatus = "pending"
	GateRunning GateStatus = "running"
	GatePassed  GateStatus = "passed"
	GateFailed  GateStatus = "failed"
)

type GateType string

const (
	GateAutomated GateType = "automated"
	GateManual    GateType = "manual"
)

// ContentType tags what kind of output a deliverable or artifact carries.
type ContentType string

const (
	ContentDocument ContentType = "document"
	ContentCode     ContentType = "code"
	ContentTest     ContentType = "test"
	ContentDesign   ContentType = "design"
	ContentReport   ContentType = "report"
)

type EventType string

const (
	EventPhaseTransition     EventType = "phase_transition"
	EventDeliverableComplete EventType = "deliverable_complete"
	EventGateResult          EventType = "gate_result"
	EventApproval            EventType = "approval"
	EventAgentAssignment     EventType = "agent_assignment"
)

// Project is the root aggregate. Deliverables, quality gates, and audit events
// accumulate across every phase entered and are never removed.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	CurrentPhase   Phase     `json:"current_phase"`
	PhaseStartedAt time.Time `json:"phase_started_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Deliverables []*Deliverable `json:"deliverables"`
	QualityGates []*QualityGate `json:"quality_gates"`
	Approvals    []*Approval    `json:"approvals,omitempty"`

	// Metrics is a recomputable cache, never the source of truth.
	Metrics Metrics `json:"metrics"`

	AuditLog []*AuditEvent `json:"audit_log"`
}

// Deliverable belongs to exactly one project and one phase.
type Deliverable struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Phase       Phase     `json:"phase"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	Type        ContentType `json:"type"`

	Status        DeliverableStatus `json:"status"`
	AssignedAgent string            `json:"assigned_agent,omitempty"`

	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Artifacts []*Artifact `json:"artifacts"`
}

// Artifact is an immutable record of a produced output, owned by its deliverable.
type Artifact struct {
	ID            uuid.UUID   `json:"id"`
	DeliverableID uuid.UUID   `json:"deliverable_id"`
	Type          ContentType `json:"type"`
	Name          string      `json:"name"`
	Content       string      `json:"content,omitempty"`
	URL           string      `json:"url,omitempty"`
	CreatedBy     string      `json:"created_by"`
	CreatedAt     time.Time   `json:"created_at"`
}

// ArtifactInput is the caller-supplied shape for completeDeliverable.
type ArtifactInput struct {
	Type      ContentType `json:"type"`
	Name      string      `json:"name"`
	Content   string      `json:"content,omitempty"`
	URL       string      `json:"url,omitempty"`
	CreatedBy string      `json:"created_by,omitempty"`
}

// QualityGate is a pass/fail checkpoint for one phase of one project.
type QualityGate struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Phase       Phase     `json:"phase"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        GateType  `json:"type"`

	BlocksTransition bool            `json:"blocks_transition"`
	Criteria         []GateCriterion `json:"criteria"`
	Status           GateStatus      `json:"status"`
	Evidence         []string        `json:"evidence,omitempty"`

	RunAt    *time.Time `json:"run_at,omitempty"`
	PassedAt *time.Time `json:"passed_at,omitempty"`
	FailedAt *time.Time `json:"failed_at,omitempty"`
}

// GateCriterion is a single measurable condition within a gate. Pure value type.
type GateCriterion struct {
	Name      string  `json:"name"`
	Metric    string  `json:"metric"`
	Operator  string  `json:"operator"` // >, <, =, >=, <=
	Threshold float64 `json:"threshold"`
	Actual    float64 `json:"actual"`
	Passed    bool    `json:"passed"`
}

// Approval records an explicit sign-off attached to a project.
type Approval struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	Phase      Phase     `json:"phase"`
	GateName   string    `json:"gate_name"`
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
}

// AuditEvent is one immutable record of a state-changing operation.
type AuditEvent struct {
	ID        uuid.UUID              `json:"id"`
	ProjectID uuid.UUID              `json:"project_id"`
	Timestamp time.Time              `json:"timestamp"`
	Phase     Phase                  `json:"phase"`
	EventType EventType              `json:"event_type"`
	Actor     string                 `json:"actor"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Metrics is a derived snapshot, always recomputable from the aggregate.
type Metrics struct {
	PlannedDurationDays int `json:"planned_duration_days"`
	ActualDurationDays  int `json:"actual_duration_days"`
	PercentComplete     int `json:"percent_complete"`

	TestCoverage     float64 `json:"test_coverage"`
	CodeQualityScore float64 `json:"code_quality_score"`
	SecurityScore    float64 `json:"security_score"`
	PerformanceScore float64 `json:"performance_score"`

	DeliverablesComplete int `json:"deliverables_complete"`
	DeliverablesTotal    int `json:"deliverables_total"`
	GatesPassed          int `json:"gates_passed"`
	GatesTotal           int `json:"gates_total"`

	BugsFound    int `json:"bugs_found"`
	BugsResolved int `json:"bugs_resolved"`
	CriticalBugs int `json:"critical_bugs"`

	StoryPoints int     `json:"story_points"`
	Velocity    float64 `json:"velocity"`
}

// CompletionStatus is the pure-read result of checkPhaseCompletion.
type CompletionStatus struct {
	Phase                Phase          `json:"phase"`
	IsComplete           bool           `json:"is_complete"`
	CompletionPercentage int            `json:"completion_percentage"`
	MissingDeliverables  []*Deliverable `json:"missing_deliverables"`
	PendingGates         []*QualityGate `json:"pending_gates"`
	Blockers             []string       `json:"blockers"`
}

// GateResults aggregates one runQualityGates evaluation over a phase.
type GateResults struct {
	Phase       Phase          `json:"phase"`
	TotalGates  int            `json:"total_gates"`
	PassedGates int            `json:"passed_gates"`
	FailedGates int            `json:"failed_gates"`
	Results     []*QualityGate `json:"results"`
	OverallPass bool           `json:"overall_pass"`
	Blockers    []string       `json:"blockers"`
}

// TransitionRequest asks the controller to advance a project one phase.
type TransitionRequest struct {
	ProjectID   uuid.UUID `json:"project_id"`
	FromPhase   Phase     `json:"from_phase"`
	ToPhase     Phase     `json:"to_phase"`
	RequestedBy string    `json:"requested_by"`
	Reason      string    `json:"reason,omitempty"`

	// SkipGates is an explicit emergency override. It is always recorded in
	// the resulting audit event.
	SkipGates bool `json:"skip_gates,omitempty"`
}

// TransitionResult reports a successful phase advancement.
type TransitionResult struct {
	NewPhase Phase  `json:"new_phase"`
	Message  string `json:"message"`
}
