package hermes

const (
	StreamName   = "LIFECYCLE_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectProjectCreated(projectID string) string { return "swarm.project." + projectID + ".created" }
func SubjectPhaseAdvanced(projectID string) string  { return "swarm.project." + projectID + ".phase.advanced" }
func SubjectGateResult(projectID string) string     { return "swarm.gate." + projectID + ".result" }
func SubjectGateApproved(projectID string) string   { return "swarm.gate." + projectID + ".approved" }

func SubjectDeliverableAssigned(deliverableID string) string {
	return "swarm.deliverable." + deliverableID + ".assigned"
}
func SubjectDeliverableCompleted(deliverableID string) string {
	return "swarm.deliverable." + deliverableID + ".completed"
}
