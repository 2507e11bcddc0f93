package forces

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/physics"
	"github.com/san-kum/mechsim/internal/vec"
)

// Slider is a prismatic joint: the attachment point of a bar may move
// freely along Axis through the anchor particle, while the off-axis part of
// its offset and relative velocity is pulled back with a spring-damper.
// The off-axis offset at construction is the rest offset.
type Slider struct {
	Switch
	Bar    *physics.Bar
	Point  float64
	Anchor *physics.Particle
	K, C   float64
	axis   vec.Vector
	rest   vec.Vector
}

func NewSlider(bar *physics.Bar, point float64, anchor *physics.Particle, axis vec.Vector, k, c float64) (*Slider, error) {
	if err := checkPoint(point); err != nil {
		return nil, err
	}
	if err := checkGains(k, c); err != nil {
		return nil, err
	}
	if axis.Len() == 0 {
		return nil, fmt.Errorf("slider axis is zero: %w", dynamo.ErrInvalidArgument)
	}
	axis = axis.Normalize()
	d := bar.PointPosition(point).Sub(anchor.Position())
	return &Slider{
		Switch: newSwitch("slider"),
		Bar:    bar,
		Point:  point,
		Anchor: anchor,
		K:      k,
		C:      c,
		axis:   axis,
		rest:   offAxis(d, axis),
	}, nil
}

// Axis returns the unit sliding direction.
func (s *Slider) Axis() vec.Vector { return s.axis }

// Rest returns the off-axis offset the slider holds.
func (s *Slider) Rest() vec.Vector { return s.rest }

func (s *Slider) Accepts(k dynamo.Kind) bool { return k == dynamo.KindBar }

func (s *Slider) Apply(e dynamo.Entity) error {
	if !same(e, s.Bar) {
		return nil
	}
	d := s.Bar.PointPosition(s.Point).Sub(s.Anchor.Position())
	v := s.Bar.PointVelocity(s.Point).Sub(s.Anchor.Velocity())
	off := offAxis(d, s.axis).Sub(s.rest)
	vOff := offAxis(v, s.axis)
	f := off.Scale(-s.K).Sub(vOff.Scale(s.C))
	return s.Bar.ApplyForce(f, s.Point)
}

func offAxis(v, axis vec.Vector) vec.Vector {
	return v.Sub(axis.Scale(v.Dot(axis)))
}
