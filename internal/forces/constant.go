package forces

import (
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/vec"
)

// DefaultGravity is the standard field in a y-up world.
var DefaultGravity = vec.XY(0, -9.8)

// Constant applies the same force to every particle and bar. Bars receive
// it at Point.
type Constant struct {
	Switch
	Force vec.Vector
	Point float64
}

func NewConstant(f vec.Vector) *Constant {
	return &Constant{Switch: newSwitch("constant"), Force: f}
}

func (c *Constant) Accepts(k dynamo.Kind) bool {
	return k == dynamo.KindParticle || k == dynamo.KindBar
}

func (c *Constant) Apply(e dynamo.Entity) error {
	return push(e, c.Force, c.Point)
}

// Gravity applies mass times the field to every entity, at the centroid of
// bars.
type Gravity struct {
	Switch
	Field vec.Vector
}

func NewGravity(field vec.Vector) *Gravity {
	return &Gravity{Switch: newSwitch("gravity"), Field: field}
}

func (g *Gravity) Accepts(k dynamo.Kind) bool {
	return k == dynamo.KindParticle || k == dynamo.KindBar
}

func (g *Gravity) Apply(e dynamo.Entity) error {
	return push(e, g.Field.Scale(e.Mass()), 0)
}
