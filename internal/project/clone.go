package project

import "time"

// Clone returns a deep copy of the aggregate. Stores hand out clones so that
// concurrent callers never share live state; audit events are immutable once
// written, so the log is copied at the slice level only.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p

	if p.Deliverables != nil {
		out.Deliverables = make([]*Deliverable, len(p.Deliverables))
		for i, d := range p.Deliverables {
			out.Deliverables[i] = d.Clone()
		}
	}
	if p.QualityGates != nil {
		out.QualityGates = make([]*QualityGate, len(p.QualityGates))
		for i, g := range p.QualityGates {
			out.QualityGates[i] = g.Clone()
		}
	}
	if p.Approvals != nil {
		out.Approvals = make([]*Approval, len(p.Approvals))
		for i, a := range p.Approvals {
			c := *a
			out.Approvals[i] = &c
		}
	}
	out.AuditLog = append([]*AuditEvent(nil), p.AuditLog...)
	return &out
}

func (d *Deliverable) Clone() *Deliverable {
	out := *d
	out.AssignedAt = cloneTime(d.AssignedAt)
	out.CompletedAt = cloneTime(d.CompletedAt)
	if d.Artifacts != nil {
		out.Artifacts = make([]*Artifact, len(d.Artifacts))
		for i, a := range d.Artifacts {
			c := *a
			out.Artifacts[i] = &c
		}
	}
	return &out
}

func (g *QualityGate) Clone() *QualityGate {
	out := *g
	out.Criteria = append([]GateCriterion(nil), g.Criteria...)
	out.Evidence = append([]string(nil), g.Evidence...)
	out.RunAt = cloneTime(g.RunAt)
	out.PassedAt = cloneTime(g.PassedAt)
	out.FailedAt = cloneTime(g.FailedAt)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
