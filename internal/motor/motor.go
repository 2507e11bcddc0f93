// Package motor models a DC motor with a quasi-static electrical circuit:
// the current settles within a step, so inductance is carried but ignored.
package motor

import (
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/integrators"
	"github.com/san-kum/mechsim/internal/vec"
)

// Spec holds the motor constants.
type Spec struct {
	Name string
	R    float64 // armature resistance (Ohm)
	L    float64 // armature inductance (H), unused by the quasi-static model
	Kc   float64 // torque constant (N·m/A)
	Ke   float64 // back-EMF constant (V·s/rad)
	J    float64 // rotor inertia (kg·m²)
	F    float64 // viscous friction (N·m·s/rad)

	// Mount is the shaft position in the world, used by coupling forces.
	Mount vec.Vector
}

// DefaultSpec returns the reference motor used by the scenarios.
func DefaultSpec() Spec {
	return Spec{Name: "motor", R: 1, L: 0.001, Kc: 0.01, Ke: 0.01, J: 0.01, F: 0.1}
}

type Motor struct {
	spec Spec

	voltage        float64
	loadInertia    float64
	externalTorque float64
	viscosity      float64

	current  float64
	torque   float64
	speed    float64
	position float64
}

func New(spec Spec) (*Motor, error) {
	if !(spec.R > 0) {
		return nil, fmt.Errorf("motor %q: R=%v: %w", spec.Name, spec.R, dynamo.ErrZeroResistance)
	}
	if !(spec.J > 0) {
		return nil, fmt.Errorf("motor %q: J=%v: %w", spec.Name, spec.J, dynamo.ErrParameterBounds)
	}
	if spec.Name == "" {
		spec.Name = "motor"
	}
	return &Motor{spec: spec}, nil
}

func (m *Motor) Name() string         { return m.spec.Name }
func (m *Motor) Spec() Spec           { return m.spec }
func (m *Motor) Mount() vec.Vector    { return m.spec.Mount }
func (m *Motor) Voltage() float64     { return m.voltage }
func (m *Motor) Current() float64     { return m.current }
func (m *Motor) Torque() float64      { return m.torque }
func (m *Motor) Speed() float64       { return m.speed }
func (m *Motor) Position() float64    { return m.position }
func (m *Motor) LoadInertia() float64 { return m.loadInertia }

func (m *Motor) SetVoltage(v float64)        { m.voltage = v }
func (m *Motor) SetLoadInertia(j float64)    { m.loadInertia = j }
func (m *Motor) SetExternalTorque(t float64) { m.externalTorque = t }
func (m *Motor) SetViscosity(f float64)      { m.viscosity = f }

// Integrate advances the motor by dt. The current and torque follow the
// voltage instantly; speed is integrated first and the shaft angle uses the
// updated speed.
func (m *Motor) Integrate(dt float64) {
	s := m.spec
	m.current = (m.voltage - s.Ke*m.speed) / s.R
	m.torque = s.Kc * m.current

	accel := (m.torque - m.externalTorque - (s.F+m.viscosity)*m.speed) / (s.J + m.loadInertia)
	m.position, m.speed = integrators.SemiImplicit(m.position, m.speed, accel, dt)
}

// Reset stops the motor and clears its inputs.
func (m *Motor) Reset() {
	m.voltage, m.current, m.torque, m.speed, m.position = 0, 0, 0, 0, 0
}

// SteadyStateGain is the speed per volt reached at equilibrium with no load.
func (m *Motor) SteadyStateGain() float64 {
	s := m.spec
	return s.Kc / (s.Ke*s.Kc + s.R*s.F)
}

// TimeConstant of the unloaded first-order speed response.
func (m *Motor) TimeConstant() float64 {
	s := m.spec
	return s.R * s.J / (s.Ke*s.Kc + s.R*s.F)
}

// StepResponse is the analytic no-load speed t seconds after a voltage step.
func (m *Motor) StepResponse(voltage, t float64) float64 {
	return voltage * m.SteadyStateGain() * (1 - math.Exp(-t/m.TimeConstant()))
}

func (m *Motor) GetParams() map[string]float64 {
	return map[string]float64{
		"voltage":         m.voltage,
		"load_inertia":    m.loadInertia,
		"external_torque": m.externalTorque,
		"viscosity":       m.viscosity,
	}
}

func (m *Motor) SetParam(name string, value float64) {
	switch name {
	case "voltage":
		m.voltage = value
	case "load_inertia":
		m.loadInertia = value
	case "external_torque":
		m.externalTorque = value
	case "viscosity":
		m.viscosity = value
	}
}

// Draw renders the housing as a square around the mount and the shaft
// angle as a spoke.
func (m *Motor) Draw(c dynamo.Canvas, scale float64) {
	cx := int(math.Round(m.spec.Mount.X() * scale))
	cy := int(math.Round(m.spec.Mount.Y() * scale))
	const r = 3
	c.Line(cx-r, cy-r, cx+r, cy-r)
	c.Line(cx+r, cy-r, cx+r, cy+r)
	c.Line(cx+r, cy+r, cx-r, cy+r)
	c.Line(cx-r, cy+r, cx-r, cy-r)
	s, co := math.Sincos(m.position)
	c.Line(cx, cy, cx+int(math.Round(r*co)), cy+int(math.Round(r*s)))
}
