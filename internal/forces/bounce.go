package forces

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/vec"
)

// Axis selects the boundary a Bounce acts on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) unit() vec.Vector {
	if a == AxisX {
		return vec.XY(1, 0)
	}
	return vec.XY(0, 1)
}

// Bounce reflects particles off the plane where the chosen coordinate is
// zero. When a particle is past the plane and still moving away from it, a
// single-step impulse reverses the velocity component, scaled by K
// (1 is elastic). Step must match the universe time step.
type Bounce struct {
	Switch
	Axis Axis
	K    float64
	step float64
}

func NewBounce(axis Axis, k, step float64) (*Bounce, error) {
	if !(step > 0) {
		return nil, fmt.Errorf("bounce step %v: %w", step, dynamo.ErrInvalidStep)
	}
	if k < 0 {
		return nil, fmt.Errorf("bounce coefficient %v: %w", k, dynamo.ErrParameterBounds)
	}
	return &Bounce{Switch: newSwitch("bounce"), Axis: axis, K: k, step: step}, nil
}

// MustBounce is NewBounce that panics on invalid parameters.
func MustBounce(axis Axis, k, step float64) *Bounce {
	b, err := NewBounce(axis, k, step)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Bounce) Accepts(k dynamo.Kind) bool { return k == dynamo.KindParticle }

func (b *Bounce) Apply(e dynamo.Entity) error {
	p, ok := e.(pointMass)
	if !ok {
		return nil
	}
	u := b.Axis.unit()
	pos := p.Position().Dot(u)
	v := p.Velocity().Dot(u)
	if pos < 0 && v < 0 {
		p.ApplyForce(u.Scale(-2 * (b.K / b.step) * p.Mass() * v))
	}
	return nil
}
