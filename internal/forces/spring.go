package forces

import (
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/physics"
)

const (
	linkStiffness = 1000
	linkDamping   = 100
)

// SpringDamper joins two particles. With d = p1 - p0 and n its direction,
// p0 receives (k(|d| - rest) + c(Δv·n))·n and p1 the opposite.
type SpringDamper struct {
	Switch
	P0, P1 *physics.Particle
	K, C   float64
	Rest   float64
}

func NewSpringDamper(p0, p1 *physics.Particle, k, c, rest float64) (*SpringDamper, error) {
	if err := checkGains(k, c); err != nil {
		return nil, err
	}
	return &SpringDamper{Switch: newSwitch("spring"), P0: p0, P1: p1, K: k, C: c, Rest: rest}, nil
}

// NewLink is a stiff SpringDamper whose rest length is the current
// separation.
func NewLink(p0, p1 *physics.Particle) *SpringDamper {
	rest := p1.Position().Sub(p0.Position()).Len()
	s, _ := NewSpringDamper(p0, p1, linkStiffness, linkDamping, rest)
	s.SetName("link")
	return s
}

func (s *SpringDamper) Accepts(k dynamo.Kind) bool { return k == dynamo.KindParticle }

func (s *SpringDamper) Apply(e dynamo.Entity) error {
	var sign float64
	switch {
	case same(e, s.P0):
		sign = 1
	case same(e, s.P1):
		sign = -1
	default:
		return nil
	}

	d := s.P1.Position().Sub(s.P0.Position())
	dist := d.Len()
	if dist == 0 {
		return nil
	}
	n := d.Scale(1 / dist)
	rel := s.P1.Velocity().Sub(s.P0.Velocity())
	f := n.Scale(s.K*(dist-s.Rest) + s.C*rel.Dot(n))

	e.(pointMass).ApplyForce(f.Scale(sign))
	return nil
}
