package project

import "time"

// ComputeMetrics recomputes the derived metrics snapshot from the aggregate's
// deliverables, gates, and timestamps. Quality scores (coverage, bug counts)
// are external measurements and are carried over unchanged.
func ComputeMetrics(p *Project, now time.Time) Metrics {
	m := p.Metrics

	m.DeliverablesTotal = 0
	m.DeliverablesComplete = 0
	for _, d := range p.Deliverables {
		if d.Required {
			m.DeliverablesTotal++
		}
		if d.Status == DeliverableCompleted {
			m.DeliverablesComplete++
		}
	}

	m.GatesTotal = 0
	m.GatesPassed = 0
	for _, g := range p.QualityGates {
		if g.BlocksTransition {
			m.GatesTotal++
		}
		if g.Status == GatePassed {
			m.GatesPassed++
		}
	}

	if m.DeliverablesTotal > 0 {
		m.PercentComplete = roundPct(m.DeliverablesComplete, m.DeliverablesTotal)
	} else {
		m.PercentComplete = 0
	}

	m.ActualDurationDays = int(now.Sub(p.CreatedAt).Hours() / 24)
	return m
}

// roundPct computes round(100*num/den) in integer arithmetic.
func roundPct(num, den int) int {
	if den == 0 {
		return 0
	}
	return (num*100 + den/2) / den
}
