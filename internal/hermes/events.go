package hermes

type ProjectCreatedEvent struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Phase     string `json:"phase"`
}

type PhaseAdvancedEvent struct {
	ProjectID   string `json:"project_id"`
	FromPhase   string `json:"from_phase"`
	ToPhase     string `json:"to_phase"`
	RequestedBy string `json:"requested_by"`
	Reason      string `json:"reason,omitempty"`
	SkipGates   bool   `json:"skip_gates"`
}

type GateResultEvent struct {
	ProjectID   string   `json:"project_id"`
	Phase       string   `json:"phase"`
	TotalGates  int      `json:"total_gates"`
	PassedGates int      `json:"passed_gates"`
	FailedGates int      `json:"failed_gates"`
	OverallPass bool     `json:"overall_pass"`
	Blockers    []string `json:"blockers,omitempty"`
}

type GateApprovedEvent struct {
	ProjectID  string `json:"project_id"`
	GateName   string `json:"gate_name"`
	ApprovedBy string `json:"approved_by"`
}

type DeliverableAssignedEvent struct {
	ProjectID     string `json:"project_id"`
	DeliverableID string `json:"deliverable_id"`
	Name          string `json:"name"`
	Agent         string `json:"agent"`
}

type DeliverableCompletedEvent struct {
	ProjectID     string   `json:"project_id"`
	DeliverableID string   `json:"deliverable_id"`
	Name          string   `json:"name"`
	Artifacts     []string `json:"artifacts,omitempty"`
}
