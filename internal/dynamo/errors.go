package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a timestep or horizon outside its valid range.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrInvalidState indicates a sample containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrUnknownMode indicates an unrecognised stepping mode name.
	ErrUnknownMode = errors.New("dynamo: unknown mode")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

func invalidParam(name string, v float64, want string) error {
	return fmt.Errorf("%w: %s must be %s, got %g", ErrInvalidParameter, name, want, v)
}
