package forces

import (
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/physics"
)

const (
	pivotStiffness = 1000
	pivotDamping   = 50
)

// Pivot ties an attachment point of a bar to an anchor particle with a
// spring-damper whose rest length is the initial separation. Only the bar
// is loaded.
type Pivot struct {
	Switch
	Bar    *physics.Bar
	Point  float64
	Anchor *physics.Particle
	K, C   float64
	Rest   float64
}

func NewPivot(bar *physics.Bar, point float64, anchor *physics.Particle, k, c float64) (*Pivot, error) {
	if err := checkPoint(point); err != nil {
		return nil, err
	}
	if err := checkGains(k, c); err != nil {
		return nil, err
	}
	rest := anchor.Position().Sub(bar.PointPosition(point)).Len()
	return &Pivot{Switch: newSwitch("pivot"), Bar: bar, Point: point, Anchor: anchor, K: k, C: c, Rest: rest}, nil
}

// NewDefaultPivot uses k=1000, c=50.
func NewDefaultPivot(bar *physics.Bar, point float64, anchor *physics.Particle) (*Pivot, error) {
	return NewPivot(bar, point, anchor, pivotStiffness, pivotDamping)
}

func (p *Pivot) Accepts(k dynamo.Kind) bool { return k == dynamo.KindBar }

func (p *Pivot) Apply(e dynamo.Entity) error {
	if !same(e, p.Bar) {
		return nil
	}
	delta := p.Anchor.Position().Sub(p.Bar.PointPosition(p.Point))
	dist := delta.Len()
	if dist == 0 {
		return nil
	}
	n := delta.Scale(1 / dist)
	v := p.Bar.PointVelocity(p.Point).Sub(p.Anchor.Velocity())
	f := n.Scale(p.K*(dist-p.Rest) - p.C*v.Dot(n))
	return p.Bar.ApplyForce(f, p.Point)
}

// SpringDamperBar joins attachment points of two bars. With d running from
// the first point to the second, the first bar receives
// (k(|d| - rest) + c(Δv·n))·n and the second the opposite.
type SpringDamperBar struct {
	Switch
	B0   *physics.Bar
	A0   float64
	B1   *physics.Bar
	A1   float64
	K, C float64
	Rest float64
}

func NewSpringDamperBar(b0 *physics.Bar, a0 float64, b1 *physics.Bar, a1 float64, k, c, rest float64) (*SpringDamperBar, error) {
	if err := checkPoint(a0); err != nil {
		return nil, err
	}
	if err := checkPoint(a1); err != nil {
		return nil, err
	}
	if err := checkGains(k, c); err != nil {
		return nil, err
	}
	return &SpringDamperBar{Switch: newSwitch("bar-spring"), B0: b0, A0: a0, B1: b1, A1: a1, K: k, C: c, Rest: rest}, nil
}

// NewBarJoint pins two bars together at their attachment points with a
// stiff spring whose rest length is the current separation.
func NewBarJoint(b0 *physics.Bar, a0 float64, b1 *physics.Bar, a1 float64) (*SpringDamperBar, error) {
	if err := checkPoint(a0); err != nil {
		return nil, err
	}
	if err := checkPoint(a1); err != nil {
		return nil, err
	}
	rest := b1.PointPosition(a1).Sub(b0.PointPosition(a0)).Len()
	j, err := NewSpringDamperBar(b0, a0, b1, a1, linkStiffness, linkDamping, rest)
	if err != nil {
		return nil, err
	}
	j.SetName("bar-joint")
	return j, nil
}

func (s *SpringDamperBar) Accepts(k dynamo.Kind) bool { return k == dynamo.KindBar }

func (s *SpringDamperBar) Apply(e dynamo.Entity) error {
	// Both ends on the same bar contribute twice.
	var err error
	if same(e, s.B0) {
		err = s.load(s.B0, s.A0, 1)
	}
	if err == nil && same(e, s.B1) {
		err = s.load(s.B1, s.A1, -1)
	}
	return err
}

func (s *SpringDamperBar) load(b *physics.Bar, point, sign float64) error {
	d := s.B1.PointPosition(s.A1).Sub(s.B0.PointPosition(s.A0))
	dist := d.Len()
	if dist == 0 {
		return nil
	}
	n := d.Scale(1 / dist)
	rel := s.B1.PointVelocity(s.A1).Sub(s.B0.PointVelocity(s.A0))
	f := n.Scale(s.K*(dist-s.Rest) + s.C*rel.Dot(n))
	return b.ApplyForce(f.Scale(sign), point)
}
