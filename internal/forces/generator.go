package forces

import (
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/vec"
)

// Switch gives a generator a stable name and an enable flag. Generators
// embed it.
type Switch struct {
	name     string
	disabled bool
}

func newSwitch(name string) Switch { return Switch{name: name} }

func (s *Switch) Name() string          { return s.name }
func (s *Switch) SetName(name string)   { s.name = name }
func (s *Switch) Active() bool          { return !s.disabled }
func (s *Switch) SetActive(active bool) { s.disabled = !active }
func (s *Switch) Enable()               { s.disabled = false }
func (s *Switch) Disable()              { s.disabled = true }

// pointMass is a particle-like entity.
type pointMass interface {
	dynamo.Entity
	ApplyForce(f vec.Vector)
}

// rigidBody is a bar-like entity.
type rigidBody interface {
	dynamo.Entity
	ApplyForce(f vec.Vector, point float64) error
	PointPosition(point float64) vec.Vector
	PointVelocity(point float64) vec.Vector
	Angle() float64
	AngularVelocity() float64
}

// push applies f to e, at point for rigid bodies.
func push(e dynamo.Entity, f vec.Vector, point float64) error {
	switch e.Kind() {
	case dynamo.KindParticle:
		if p, ok := e.(pointMass); ok {
			p.ApplyForce(f)
		}
	case dynamo.KindBar:
		if b, ok := e.(rigidBody); ok {
			return b.ApplyForce(f, point)
		}
	}
	return nil
}

func checkPoint(point float64) error {
	if !(point >= -1 && point <= 1) {
		return fmt.Errorf("attachment point %v outside [-1, 1]: %w", point, dynamo.ErrInvalidArgument)
	}
	return nil
}

func checkGains(k, c float64) error {
	if k < 0 || c < 0 || math.IsNaN(k) || math.IsNaN(c) {
		return fmt.Errorf("stiffness %v, damping %v: %w", k, c, dynamo.ErrParameterBounds)
	}
	return nil
}

func same(e dynamo.Entity, other dynamo.Entity) bool {
	return other != nil && e == other
}
