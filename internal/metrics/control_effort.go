package metrics

import (
	"math"

	"github.com/san-kum/mechsim/internal/sim"
)

// VoltageSource is a controller or motor whose drive voltage is observed.
type VoltageSource interface {
	Voltage() float64
}

// ControlEffort is the mean absolute drive voltage over a run.
type ControlEffort struct {
	name    string
	source  VoltageSource
	total   float64
	samples int
}

func NewControlEffort(src VoltageSource) *ControlEffort {
	return &ControlEffort{name: "control_effort", source: src}
}

func (c *ControlEffort) Name() string { return c.name }

func (c *ControlEffort) OnStep(*sim.Universe) {
	c.total += math.Abs(c.source.Voltage())
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.total = 0
	c.samples = 0
}

// TrackingError is the mean absolute difference between a controller's
// target and its measurement.
type TrackingError struct {
	name    string
	source  Tracker
	total   float64
	samples int
}

// Tracker exposes a setpoint and the value it regulates.
type Tracker interface {
	Target() float64
	Measured() float64
}

func NewTrackingError(src Tracker) *TrackingError {
	return &TrackingError{name: "tracking_error", source: src}
}

func (t *TrackingError) Name() string { return t.name }

func (t *TrackingError) OnStep(*sim.Universe) {
	t.total += math.Abs(t.source.Target() - t.source.Measured())
	t.samples++
}

func (t *TrackingError) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return t.total / float64(t.samples)
}

func (t *TrackingError) Reset() {
	t.total = 0
	t.samples = 0
}
