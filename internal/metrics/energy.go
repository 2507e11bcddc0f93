// Package metrics condenses universe runs into single numbers. Every metric
// implements sim.Metric and observes the universe after each step.
package metrics

import (
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/sim"
	"github.com/san-kum/mechsim/internal/vec"
)

type rotor interface {
	Inertia() float64
	AngularVelocity() float64
}

// Mechanical is the total kinetic plus potential energy of the mobile
// entities in a uniform field: ½mv² + ½Iω² - m·field·p.
func Mechanical(entities []dynamo.Entity, field vec.Vector) float64 {
	total := 0.0
	for _, e := range entities {
		if e.Fixed() {
			continue
		}
		v := e.Velocity()
		total += 0.5*e.Mass()*v.Dot(v) - e.Mass()*field.Dot(e.Position())
		if r, ok := e.(rotor); ok {
			w := r.AngularVelocity()
			total += 0.5 * r.Inertia() * w * w
		}
	}
	return total
}

// Energy is the mean mechanical energy over a run.
type Energy struct {
	name        string
	field       vec.Vector
	samples     int
	totalEnergy float64
}

func NewEnergy(field vec.Vector) *Energy {
	return &Energy{name: "energy", field: field}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnStep(u *sim.Universe) {
	e.totalEnergy += Mechanical(u.Entities(), e.field)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation of the mechanical energy
// from its first observed value.
type EnergyDrift struct {
	name          string
	field         vec.Vector
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(field vec.Vector) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", field: field}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnStep(u *sim.Universe) {
	energy := Mechanical(u.Entities(), e.field)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
