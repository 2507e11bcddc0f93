package control

import "github.com/san-kum/mechsim/internal/motor"

// Speed regulates a motor's angular speed.
type Speed struct {
	Law
	motor   *motor.Motor
	target  float64
	voltage float64
}

// NewSpeed builds a speed controller. The integral is unclamped and the
// voltage unsaturated unless options say otherwise.
func NewSpeed(m *motor.Motor, kp, ki, kd float64, opts ...Option) *Speed {
	return &Speed{Law: *NewLaw(kp, ki, kd, opts...), motor: m}
}

// Step computes the voltage from the current speed error, applies it and
// integrates the motor by dt.
func (s *Speed) Step(dt float64) {
	err := s.target - s.motor.Speed()
	s.voltage = s.Update(err, dt)
	s.motor.SetVoltage(s.voltage)
	s.motor.Integrate(dt)
}

func (s *Speed) Drive(dt float64) error {
	s.Step(dt)
	return nil
}

func (s *Speed) Motor() *motor.Motor { return s.motor }
func (s *Speed) Target() float64     { return s.target }
func (s *Speed) SetTarget(v float64) { s.target = v }
func (s *Speed) Voltage() float64    { return s.voltage }
func (s *Speed) Measured() float64   { return s.motor.Speed() }

func (s *Speed) GetParams() map[string]float64 {
	p := s.Law.GetParams()
	p["Target"] = s.target
	return p
}

func (s *Speed) SetParam(name string, value float64) {
	if name == "Target" {
		s.target = value
		return
	}
	s.Law.SetParam(name, value)
}

// Reset clears the law and the last voltage. The motor is left untouched.
func (s *Speed) Reset() {
	s.Law.Reset()
	s.voltage = 0
}

// Position regulates a motor's shaft angle. It keeps its own estimate of
// the position by integrating the motor speed at the start of every step.
type Position struct {
	Law
	motor    *motor.Motor
	target   float64
	position float64
	voltage  float64
}

// NewPosition builds a position controller. The integral is clamped to
// [-1, 1] unless an option overrides it.
func NewPosition(m *motor.Motor, kp, ki, kd float64, opts ...Option) *Position {
	opts = append([]Option{WithIntegralLimit(1)}, opts...)
	return &Position{Law: *NewLaw(kp, ki, kd, opts...), motor: m}
}

func (p *Position) Step(dt float64) {
	p.position += p.motor.Speed() * dt
	err := p.target - p.position
	p.voltage = p.Update(err, dt)
	p.motor.SetVoltage(p.voltage)
	p.motor.Integrate(dt)
}

func (p *Position) Drive(dt float64) error {
	p.Step(dt)
	return nil
}

func (p *Position) Motor() *motor.Motor { return p.motor }
func (p *Position) Target() float64     { return p.target }
func (p *Position) SetTarget(v float64) { p.target = v }
func (p *Position) Voltage() float64    { return p.voltage }
func (p *Position) Measured() float64   { return p.position }

func (p *Position) GetParams() map[string]float64 {
	params := p.Law.GetParams()
	params["Target"] = p.target
	return params
}

func (p *Position) SetParam(name string, value float64) {
	if name == "Target" {
		p.target = value
		return
	}
	p.Law.SetParam(name, value)
}

func (p *Position) Reset() {
	p.Law.Reset()
	p.position = 0
	p.voltage = 0
}
