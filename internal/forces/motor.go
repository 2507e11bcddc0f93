package forces

import (
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/motor"
	"github.com/san-kum/mechsim/internal/physics"
)

const (
	motorSpringStiffness = 10
	motorSpringDamping   = 1
)

// MotorForce turns a motor's torque into a tangential force on a particle:
// torque/radius along the perpendicular of the mount-to-particle vector.
type MotorForce struct {
	Switch
	Motor    *motor.Motor
	Particle *physics.Particle
}

func NewMotorForce(m *motor.Motor, p *physics.Particle) *MotorForce {
	return &MotorForce{Switch: newSwitch("motor-force"), Motor: m, Particle: p}
}

func (f *MotorForce) Accepts(k dynamo.Kind) bool { return k == dynamo.KindParticle }

func (f *MotorForce) Apply(e dynamo.Entity) error {
	if !same(e, f.Particle) {
		return nil
	}
	r := f.Particle.Position().Sub(f.Motor.Mount())
	radius := r.Len()
	if radius == 0 {
		return nil
	}
	tangent := r.Perp().Normalize()
	f.Particle.ApplyForce(tangent.Scale(f.Motor.Torque() / radius))
	return nil
}

// MotorSpring holds a particle at its initial distance from a motor mount
// with a radial spring-damper.
type MotorSpring struct {
	Switch
	Motor    *motor.Motor
	Particle *physics.Particle
	K, C     float64
	Rest     float64
}

func NewMotorSpring(m *motor.Motor, p *physics.Particle, k, c float64) (*MotorSpring, error) {
	if err := checkGains(k, c); err != nil {
		return nil, err
	}
	rest := p.Position().Sub(m.Mount()).Len()
	return &MotorSpring{Switch: newSwitch("motor-spring"), Motor: m, Particle: p, K: k, C: c, Rest: rest}, nil
}

// NewDefaultMotorSpring uses k=10, c=1.
func NewDefaultMotorSpring(m *motor.Motor, p *physics.Particle) (*MotorSpring, error) {
	return NewMotorSpring(m, p, motorSpringStiffness, motorSpringDamping)
}

func (s *MotorSpring) Accepts(k dynamo.Kind) bool { return k == dynamo.KindParticle }

func (s *MotorSpring) Apply(e dynamo.Entity) error {
	if !same(e, s.Particle) {
		return nil
	}
	r := s.Particle.Position().Sub(s.Motor.Mount())
	dist := r.Len()
	if dist == 0 {
		return nil
	}
	unit := r.Scale(1 / dist)
	mag := -s.K*(dist-s.Rest) - s.C*s.Particle.Velocity().Dot(unit)
	s.Particle.ApplyForce(unit.Scale(mag))
	return nil
}

// Radius is the current mount-to-particle distance.
func (s *MotorSpring) Radius() float64 {
	return s.Particle.Position().Sub(s.Motor.Mount()).Len()
}
