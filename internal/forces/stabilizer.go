package forces

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/control"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/physics"
	"github.com/san-kum/mechsim/internal/vec"
)

// StabilizerSpec configures a Stabilizer.
type StabilizerSpec struct {
	Kp, Ki, Kd float64
	// Target is the desired angle of the monitored bar.
	Target float64
	// MaxForce bounds the output magnitude; zero leaves it unbounded.
	MaxForce float64
	// Axis is the actuation direction, normalised on construction.
	Axis vec.Vector
	// Point is the attachment point used when the actuator is a bar.
	Point float64
	// Step is the universe time step, used for the integral term.
	Step float64
}

// Stabilizer drives an actuator entity with a PID on another bar's angle:
// F = -(Kp·e + Ki·∫e + Kd·ω) along Axis, with e = θ - Target. The integral
// advances once per step, when the actuator is visited.
type Stabilizer struct {
	Switch
	Monitored *physics.Bar
	Actuator  dynamo.Entity
	law       *control.Law
	spec      StabilizerSpec
	output    float64
}

func NewStabilizer(monitored *physics.Bar, actuator dynamo.Entity, spec StabilizerSpec) (*Stabilizer, error) {
	if !(spec.Step > 0) {
		return nil, fmt.Errorf("stabilizer step %v: %w", spec.Step, dynamo.ErrInvalidStep)
	}
	if spec.Axis.Len() == 0 {
		return nil, fmt.Errorf("stabilizer axis is zero: %w", dynamo.ErrInvalidArgument)
	}
	if err := checkPoint(spec.Point); err != nil {
		return nil, err
	}
	if monitored == actuator {
		return nil, fmt.Errorf("stabilizer must actuate a different entity: %w", dynamo.ErrInvalidArgument)
	}
	spec.Axis = spec.Axis.Normalize()
	var opts []control.Option
	if spec.MaxForce > 0 {
		opts = append(opts, control.WithOutputLimit(spec.MaxForce))
	}
	return &Stabilizer{
		Switch:    newSwitch("stabilizer"),
		Monitored: monitored,
		Actuator:  actuator,
		law:       control.NewLaw(spec.Kp, spec.Ki, spec.Kd, opts...),
		spec:      spec,
	}, nil
}

func (s *Stabilizer) Accepts(k dynamo.Kind) bool {
	return s.Actuator != nil && s.Actuator.Kind() == k
}

func (s *Stabilizer) Apply(e dynamo.Entity) error {
	if !same(e, s.Actuator) {
		return nil
	}
	err := s.Monitored.Angle() - s.spec.Target
	s.output = -s.law.UpdateRate(err, s.Monitored.AngularVelocity(), s.spec.Step)
	return push(e, s.spec.Axis.Scale(s.output), s.spec.Point)
}

// Output is the signed force magnitude applied on the last step.
func (s *Stabilizer) Output() float64 { return s.output }

// Law exposes the PID for tuning.
func (s *Stabilizer) Law() *control.Law { return s.law }

func (s *Stabilizer) Reset() {
	s.law.Reset()
	s.output = 0
}
