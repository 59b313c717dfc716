package project

// DeliverableTemplate describes one deliverable a phase requires.
type DeliverableTemplate struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Required    bool        `json:"required"`
	Type        ContentType `json:"type"`
}

// GateTemplate describes one quality gate a phase carries.
type GateTemplate struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Type             GateType `json:"type"`
	BlocksTransition bool     `json:"blocks_transition"`
}

// PhaseDefinition is the catalog entry for one phase: its display name, nominal
// duration, and the deliverable/gate templates materialized on phase entry.
type PhaseDefinition struct {
	Phase        Phase                 `json:"phase"`
	DisplayName  string                `json:"display_name"`
	DurationDays int                   `json:"duration_days"`
	Deliverables []DeliverableTemplate `json:"deliverables"`
	QualityGates []GateTemplate        `json:"quality_gates"`
}

// Catalog is the single source of truth for what "complete" means per phase.
// It is data, not logic, so phase requirements can be audited and changed
// without touching transition code.
type Catalog map[Phase]PhaseDefinition

// Definition looks up the entry for a phase.
func (c Catalog) Definition(p Phase) (PhaseDefinition, bool) {
	def, ok := c[p]
	return def, ok
}

// Contains reports whether the catalog has an entry for p.
func (c Catalog) Contains(p Phase) bool {
	_, ok := c[p]
	return ok
}

// DefaultCatalog returns the standard software delivery catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		PhaseRequirements: {
			Phase:        PhaseRequirements,
			DisplayName:  "Requirements & Planning",
			DurationDays: 5,
			Deliverables: []DeliverableTemplate{
				{Name: "Product Requirements Document (PRD)", Description: "Comprehensive requirements specification", Required: true, Type: ContentDocument},
				{Name: "User Stories", Description: "User stories with acceptance criteria", Required: true, Type: ContentDocument},
				{Name: "Success Metrics", Description: "Measurable success criteria", Required: true, Type: ContentDocument},
				{Name: "Risk Assessment", Description: "Technical and business risks", Required: false, Type: ContentDocument},
			},
			QualityGates: []GateTemplate{
				{Name: "Requirements Completeness", Description: "All requirements have acceptance criteria", Type: GateManual, BlocksTransition: true},
				{Name: "Stakeholder Approval", Description: "Product owner approval obtained", Type: GateManual, BlocksTransition: true},
			},
		},
		PhaseDesign: {
			Phase:        PhaseDesign,
			DisplayName:  "System Design",
			DurationDays: 7,
			Deliverables: []DeliverableTemplate{
				{Name: "System Architecture Diagram", Description: "High-level system architecture", Required: true, Type: ContentDesign},
				{Name: "Database Schema", Description: "ERD and migration scripts", Required: true, Type: ContentCode},
				{Name: "API Contracts", Description: "OpenAPI/Swagger specifications", Required: true, Type: ContentDocument},
				{Name: "UI/UX Mockups", Description: "Designs and wireframes", Required: true, Type: ContentDesign},
				{Name: "Security Design", Description: "Threat model and security controls", Required: true, Type: ContentDocument},
			},
			QualityGates: []GateTemplate{
				{Name: "Architecture Review", Description: "Scalability and soundness validated", Type: GateManual, BlocksTransition: true},
				{Name: "Security Review", Description: "Threat model approved, no critical risks", Type: GateManual, BlocksTransition: true},
				{Name: "Design System Compliance", Description: "UI follows design system standards", Type: GateAutomated, BlocksTransition: false},
			},
		},
		PhaseImplementation: {
			Phase:        PhaseImplementation,
			DisplayName:  "Implementation",
			DurationDays: 21,
			Deliverables: []DeliverableTemplate{
				{Name: "Source Code", Description: "Production-ready code", Required: true, Type: ContentCode},
				{Name: "Unit Tests", Description: "Unit tests with >80% coverage", Required: true, Type: ContentTest},
				{Name: "Integration Tests", Description: "API and service integration tests", Required: true, Type: ContentTest},
				{Name: "API Documentation", Description: "Generated API docs", Required: true, Type: ContentDocument},
				{Name: "Code Review Approvals", Description: "Peer review approvals", Required: true, Type: ContentDocument},
			},
			QualityGates: []GateTemplate{
				{Name: "Test Coverage", Description: "Unit test coverage >= 80%", Type: GateAutomated, BlocksTransition: true},
				{Name: "All Tests Passing", Description: "100% test pass rate", Type: GateAutomated, BlocksTransition: true},
				{Name: "Code Quality", Description: "Maintainability index >= 70", Type: GateAutomated, BlocksTransition: true},
				{Name: "Security Scan", Description: "Zero critical/high CVEs", Type: GateAutomated, BlocksTransition: true},
				{Name: "Code Review", Description: "Approved by 2+ reviewers", Type: GateManual, BlocksTransition: true},
			},
		},
		PhaseTesting: {
			Phase:        PhaseTesting,
			DisplayName:  "Testing & QA",
			DurationDays: 10,
			Deliverables: []DeliverableTemplate{
				{Name: "E2E Test Suite", Description: "Automated E2E tests for critical paths", Required: true, Type: ContentTest},
				{Name: "Load Test Results", Description: "Performance benchmarks", Required: true, Type: ContentReport},
				{Name: "Security Audit", Description: "Penetration test results", Required: true, Type: ContentReport},
				{Name: "Accessibility Audit", Description: "WCAG 2.1 AA compliance report", Required: true, Type: ContentReport},
				{Name: "Bug Reports", Description: "All bugs documented and triaged", Required: true, Type: ContentDocument},
			},
			QualityGates: []GateTemplate{
				{Name: "Zero P0 Bugs", Description: "No critical bugs blocking release", Type: GateAutomated, BlocksTransition: true},
				{Name: "E2E Pass Rate", Description: "E2E tests passing >= 95%", Type: GateAutomated, BlocksTransition: true},
				{Name: "Performance SLA", Description: "p95 latency within targets", Type: GateAutomated, BlocksTransition: true},
				{Name: "Security Cleared", Description: "Pen test passed, no critical findings", Type: GateManual, BlocksTransition: true},
				{Name: "Accessibility Compliant", Description: "WCAG 2.1 AA compliance achieved", Type: GateAutomated, BlocksTransition: false},
			},
		},
		PhaseDeployment: {
			Phase:        PhaseDeployment,
			DisplayName:  "Deployment",
			DurationDays: 2,
			Deliverables: []DeliverableTemplate{
				{Name: "Deployment Plan", Description: "Step-by-step deployment procedure", Required: true, Type: ContentDocument},
				{Name: "Rollback Plan", Description: "Rollback procedures and criteria", Required: true, Type: ContentDocument},
				{Name: "Monitoring Dashboards", Description: "Production monitoring configured", Required: true, Type: ContentCode},
				{Name: "Runbook", Description: "Operations runbook", Required: true, Type: ContentDocument},
				{Name: "Release Notes", Description: "Customer-facing release notes", Required: true, Type: ContentDocument},
			},
			QualityGates: []GateTemplate{
				{Name: "Staging Validated", Description: "Staging deployment successful", Type: GateAutomated, BlocksTransition: true},
				{Name: "Smoke Tests Passing", Description: "Production smoke tests green", Type: GateAutomated, BlocksTransition: true},
				{Name: "Rollback Tested", Description: "Rollback procedure validated", Type: GateManual, BlocksTransition: true},
			},
		},
		PhaseMaintenance: {
			Phase:        PhaseMaintenance,
			DisplayName:  "Maintenance & Monitoring",
			DurationDays: 0, // ongoing
			Deliverables: []DeliverableTemplate{
				{Name: "Health Reports", Description: "Daily/weekly system health reports", Required: true, Type: ContentReport},
				{Name: "Incident Logs", Description: "Incident response documentation", Required: true, Type: ContentDocument},
				{Name: "Performance Metrics", Description: "Uptime, latency, error rates", Required: true, Type: ContentReport},
				{Name: "User Feedback", Description: "Aggregated user feedback and NPS", Required: true, Type: ContentDocument},
			},
			QualityGates: []GateTemplate{
				{Name: "Uptime SLA", Description: "Uptime >= 99.9%", Type: GateAutomated, BlocksTransition: false},
				{Name: "Error Rate", Description: "Error rate < 0.1%", Type: GateAutomated, BlocksTransition: false},
				{Name: "Customer Satisfaction", Description: "NPS > 40 or CSAT > 85%", Type: GateManual, BlocksTransition: false},
			},
		},
	}
}
