package project

import (
	"encoding/json"
	"fmt"
)

// Phase is one stage in the fixed, totally-ordered project lifecycle.
// The zero value is the first phase.
type Phase int

const (
	PhaseRequirements Phase = iota
	PhaseDesign
	PhaseImplementation
	PhaseTesting
	PhaseDeployment
	PhaseMaintenance

	phaseCount
)

var phaseNames = [...]string{
	PhaseRequirements:   "requirements",
	PhaseDesign:         "design",
	PhaseImplementation: "implementation",
	PhaseTesting:        "testing",
	PhaseDeployment:     "deployment",
	PhaseMaintenance:    "maintenance",
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Valid reports whether p is one of the catalog phases.
func (p Phase) Valid() bool {
	return p >= 0 && p < phaseCount
}

// Index returns the position of p in the total order.
func (p Phase) Index() int {
	return int(p)
}

// Next returns the immediate successor phase. ok is false at the last phase.
func (p Phase) Next() (next Phase, ok bool) {
	if !p.Valid() || p == phaseCount-1 {
		return p, false
	}
	return p + 1, true
}

// FirstPhase is where every new project starts.
const FirstPhase = PhaseRequirements

// Phases returns all phases in total order.
func Phases() []Phase {
	out := make([]Phase, phaseCount)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// ParsePhase resolves a phase name to its enum value.
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

func (p Phase) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid phase %d", int(p))
	}
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePhase(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
