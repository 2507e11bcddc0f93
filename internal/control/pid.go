package control

import "math"

// Law is a discrete PID. IntegralLimit and OutputLimit are inactive when
// zero.
type Law struct {
	Kp            float64
	Ki            float64
	Kd            float64
	IntegralLimit float64
	OutputLimit   float64
	integral      float64
	prevErr       float64
}

// Option configures a Law.
type Option func(*Law)

// WithIntegralLimit clamps the accumulated integral to [-limit, limit].
func WithIntegralLimit(limit float64) Option {
	return func(l *Law) { l.IntegralLimit = math.Abs(limit) }
}

// WithoutIntegralLimit lets the integral grow without bound.
func WithoutIntegralLimit() Option {
	return func(l *Law) { l.IntegralLimit = 0 }
}

// WithOutputLimit saturates the output to [-limit, limit].
func WithOutputLimit(limit float64) Option {
	return func(l *Law) { l.OutputLimit = math.Abs(limit) }
}

// WithVoltageLimit is WithOutputLimit for motor controllers.
func WithVoltageLimit(v float64) Option {
	return WithOutputLimit(v)
}

func NewLaw(kp, ki, kd float64, opts ...Option) *Law {
	l := &Law{Kp: kp, Ki: ki, Kd: kd}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Update advances the law by dt with the given error. The derivative term
// is zero when dt is zero.
func (l *Law) Update(err, dt float64) float64 {
	derivative := 0.0
	if dt > 0 {
		derivative = (err - l.prevErr) / dt
	}
	l.prevErr = err
	return l.output(err, derivative, dt)
}

// UpdateRate is Update with a measured rate of change in place of the
// finite-difference derivative.
func (l *Law) UpdateRate(err, rate, dt float64) float64 {
	l.prevErr = err
	return l.output(err, rate, dt)
}

func (l *Law) output(err, derivative, dt float64) float64 {
	l.integral += err * dt
	if l.IntegralLimit > 0 {
		l.integral = clamp(l.integral, l.IntegralLimit)
	}
	u := l.Kp*err + l.Ki*l.integral + l.Kd*derivative
	if l.OutputLimit > 0 {
		u = clamp(u, l.OutputLimit)
	}
	return u
}

// Integral returns the accumulated integral term.
func (l *Law) Integral() float64 { return l.integral }

// Reset clears integral and derivative state
func (l *Law) Reset() {
	l.integral = 0
	l.prevErr = 0
}

// GetParams returns tunable parameters for live adjustment
func (l *Law) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": l.Kp,
		"Ki": l.Ki,
		"Kd": l.Kd,
	}
}

// SetParam adjusts a PID parameter
func (l *Law) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		l.Kp = value
	case "Ki":
		l.Ki = value
	case "Kd":
		l.Kd = value
	}
}

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
