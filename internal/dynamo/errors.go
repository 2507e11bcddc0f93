package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidArgument indicates an attachment point outside [-1, 1] or a
	// similar malformed request.
	ErrInvalidArgument = errors.New("dynamo: invalid argument")

	// ErrNonPositiveMass indicates an entity created with mass <= 0.
	ErrNonPositiveMass = errors.New("dynamo: mass must be positive")

	// ErrNonPositiveLength indicates a bar created with length <= 0.
	ErrNonPositiveLength = errors.New("dynamo: length must be positive")

	// ErrZeroResistance indicates a motor created with R <= 0.
	ErrZeroResistance = errors.New("dynamo: motor resistance must be positive")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidStep indicates a non-positive time step.
	ErrInvalidStep = errors.New("dynamo: time step must be positive")

	// ErrInvalidDuration indicates a negative simulation duration.
	ErrInvalidDuration = errors.New("dynamo: duration must not be negative")

	// ErrUnstable indicates the simulation became numerically unstable.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Entity  string
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f) on %s: %v", e.Step, e.Time, e.Entity, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
