package physics

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/integrators"
	"github.com/san-kum/mechsim/internal/vec"
)

// ParticleSpec describes a particle to create.
type ParticleSpec struct {
	Name     string
	Mass     float64
	Position vec.Vector
	Velocity vec.Vector
	Fixed    bool
}

// Particle is a point mass.
type Particle struct {
	name  string
	mass  float64
	pos   vec.Vector
	vel   vec.Vector
	acc   vec.Vector
	fixed bool
	force vec.Vector
}

func NewParticle(spec ParticleSpec) (*Particle, error) {
	if !(spec.Mass > 0) {
		return nil, fmt.Errorf("particle %q: mass %v: %w", spec.Name, spec.Mass, dynamo.ErrNonPositiveMass)
	}
	name := spec.Name
	if name == "" {
		name = "particle"
	}
	vel := spec.Velocity
	if spec.Fixed {
		vel = vec.Zero
	}
	return &Particle{
		name:  name,
		mass:  spec.Mass,
		pos:   spec.Position,
		vel:   vel,
		fixed: spec.Fixed,
	}, nil
}

func (p *Particle) Name() string             { return p.name }
func (p *Particle) Kind() dynamo.Kind        { return dynamo.KindParticle }
func (p *Particle) Mass() float64            { return p.mass }
func (p *Particle) Position() vec.Vector     { return p.pos }
func (p *Particle) Velocity() vec.Vector     { return p.vel }
func (p *Particle) Acceleration() vec.Vector { return p.acc }
func (p *Particle) Fixed() bool              { return p.fixed }

// Force returns the loads accumulated since the last Integrate.
func (p *Particle) Force() vec.Vector { return p.force }

// ApplyForce adds f to the accumulator.
func (p *Particle) ApplyForce(f vec.Vector) {
	p.force = p.force.Add(f)
}

func (p *Particle) Integrate(dt float64) {
	if p.fixed {
		p.acc = vec.Zero
		p.vel = vec.Zero
	} else {
		p.acc = p.force.Scale(1 / p.mass)
		p.pos, p.vel = integrators.Kinematic(p.pos, p.vel, p.acc, dt)
	}
	p.force = vec.Zero
}

// Draw marks the particle and a short velocity tick.
func (p *Particle) Draw(c dynamo.Canvas, scale float64) {
	drawMark(c, p.pos, scale)
	if !p.fixed {
		drawLine(c, p.pos, p.pos.Add(p.vel.Scale(0.1)), scale)
	}
}
