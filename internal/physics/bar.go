package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/integrators"
	"github.com/san-kum/mechsim/internal/vec"
)

// BarSpec describes a bar to create. Position is the centroid unless
// FromEnd is set, in which case it is the -1 end.
type BarSpec struct {
	Name            string
	Mass            float64
	Length          float64
	Position        vec.Vector
	Velocity        vec.Vector
	Angle           float64
	AngularVelocity float64
	Fixed           bool
	FromEnd         bool
}

// Load is a force applied at an attachment point of a bar.
type Load struct {
	Force vec.Vector
	Point float64
}

// Bar is a planar rigid rod. Attachment points run from -1 (one end) through
// 0 (centroid) to +1 (other end) along the orientation (cos θ, sin θ).
type Bar struct {
	name   string
	mass   float64
	length float64
	pos    vec.Vector
	vel    vec.Vector
	acc    vec.Vector
	theta  float64
	omega  float64
	alpha  float64
	fixed  bool
	loads  []Load
}

func NewBar(spec BarSpec) (*Bar, error) {
	if !(spec.Mass > 0) {
		return nil, fmt.Errorf("bar %q: mass %v: %w", spec.Name, spec.Mass, dynamo.ErrNonPositiveMass)
	}
	if !(spec.Length > 0) {
		return nil, fmt.Errorf("bar %q: length %v: %w", spec.Name, spec.Length, dynamo.ErrNonPositiveLength)
	}
	name := spec.Name
	if name == "" {
		name = "bar"
	}
	b := &Bar{
		name:   name,
		mass:   spec.Mass,
		length: spec.Length,
		pos:    spec.Position,
		vel:    spec.Velocity,
		theta:  spec.Angle,
		omega:  spec.AngularVelocity,
		fixed:  spec.Fixed,
	}
	if spec.FromEnd {
		b.pos = spec.Position.Add(b.direction().Scale(spec.Length / 2))
	}
	if b.fixed {
		b.vel = vec.Zero
		b.omega = 0
	}
	return b, nil
}

func (b *Bar) Name() string                 { return b.name }
func (b *Bar) Kind() dynamo.Kind            { return dynamo.KindBar }
func (b *Bar) Mass() float64                { return b.mass }
func (b *Bar) Length() float64              { return b.length }
func (b *Bar) Position() vec.Vector         { return b.pos }
func (b *Bar) Velocity() vec.Vector         { return b.vel }
func (b *Bar) Acceleration() vec.Vector     { return b.acc }
func (b *Bar) Angle() float64               { return b.theta }
func (b *Bar) AngularVelocity() float64     { return b.omega }
func (b *Bar) AngularAcceleration() float64 { return b.alpha }
func (b *Bar) Fixed() bool                  { return b.fixed }

// Inertia is the moment of inertia about the centroid, m*L^2/12.
func (b *Bar) Inertia() float64 {
	return b.mass * b.length * b.length / 12
}

// Loads returns a copy of the pending loads.
func (b *Bar) Loads() []Load {
	out := make([]Load, len(b.loads))
	copy(out, b.loads)
	return out
}

func (b *Bar) direction() vec.Vector {
	s, c := math.Sincos(b.theta)
	return vec.XY(c, s)
}

// arm is the vector from the centroid to attachment point a.
func (b *Bar) arm(a float64) vec.Vector {
	return b.direction().Scale(a * b.length / 2)
}

// PointPosition returns the world position of attachment point a.
func (b *Bar) PointPosition(a float64) vec.Vector {
	return b.pos.Add(b.arm(a))
}

// PointVelocity returns v + ω × r at attachment point a.
func (b *Bar) PointVelocity(a float64) vec.Vector {
	r := b.arm(a)
	return b.vel.Add(vec.XY(-b.omega*r.Y(), b.omega*r.X()))
}

// ApplyForce records f at attachment point a. Points outside [-1, 1] are
// rejected.
func (b *Bar) ApplyForce(f vec.Vector, point float64) error {
	if !(point >= -1 && point <= 1) {
		return fmt.Errorf("bar %q: attachment point %v outside [-1, 1]: %w", b.name, point, dynamo.ErrInvalidArgument)
	}
	b.loads = append(b.loads, Load{Force: f, Point: point})
	return nil
}

func (b *Bar) Integrate(dt float64) {
	if b.fixed {
		b.acc = vec.Zero
		b.vel = vec.Zero
		b.alpha = 0
		b.omega = 0
		b.loads = b.loads[:0]
		return
	}

	var net vec.Vector
	torque := 0.0
	for _, l := range b.loads {
		net = net.Add(l.Force)
		r := b.arm(l.Point)
		torque += r.X()*l.Force.Y() - r.Y()*l.Force.X()
	}

	b.acc = net.Scale(1 / b.mass)
	b.pos, b.vel = integrators.Kinematic(b.pos, b.vel, b.acc, dt)

	b.alpha = torque / b.Inertia()
	b.theta, b.omega = integrators.KinematicScalar(b.theta, b.omega, b.alpha, dt)

	b.loads = b.loads[:0]
}

// Draw renders the rod between its ends and marks the centroid.
func (b *Bar) Draw(c dynamo.Canvas, scale float64) {
	drawLine(c, b.PointPosition(-1), b.PointPosition(1), scale)
	x, y := pixel(b.pos, scale)
	c.Plot(x, y)
}
