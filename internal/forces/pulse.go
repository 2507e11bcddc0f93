package forces

import (
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/vec"
)

// PulseState is the phase of a one-shot Pulse.
type PulseState int

const (
	PulseIdle PulseState = iota
	PulseArmed
	PulseFired
)

func (s PulseState) String() string {
	switch s {
	case PulseIdle:
		return "idle"
	case PulseArmed:
		return "armed"
	case PulseFired:
		return "fired"
	}
	return "unknown"
}

// Pulse applies a force to one entity for exactly one step after being
// armed. Arming moves it Idle -> Armed, the next Apply on the target fires
// it (Armed -> Fired) and the universe's end-of-step hook returns it to
// Idle.
type Pulse struct {
	Switch
	Target dynamo.Entity
	Point  float64
	Force  vec.Vector
	state  PulseState
}

func NewPulse(target dynamo.Entity, force vec.Vector, point float64) (*Pulse, error) {
	if err := checkPoint(point); err != nil {
		return nil, err
	}
	return &Pulse{Switch: newSwitch("pulse"), Target: target, Point: point, Force: force}, nil
}

func (p *Pulse) State() PulseState { return p.state }

// Arm schedules the stored force for the next step.
func (p *Pulse) Arm() {
	if p.state == PulseIdle {
		p.state = PulseArmed
	}
}

// ArmWith replaces the stored force and arms the pulse.
func (p *Pulse) ArmWith(f vec.Vector) {
	p.Force = f
	p.Arm()
}

func (p *Pulse) Accepts(k dynamo.Kind) bool {
	return p.Target != nil && p.Target.Kind() == k
}

func (p *Pulse) Apply(e dynamo.Entity) error {
	if p.state != PulseArmed || !same(e, p.Target) {
		return nil
	}
	if err := push(e, p.Force, p.Point); err != nil {
		return err
	}
	p.state = PulseFired
	return nil
}

func (p *Pulse) EndStep() {
	if p.state == PulseFired {
		p.state = PulseIdle
	}
}
