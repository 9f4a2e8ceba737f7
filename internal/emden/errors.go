package emden

import (
	"errors"
	"fmt"
)

// Domain errors for integration and profile queries.
var (
	// ErrNumericDomain indicates y^n left the reals outside the surface-crossing step.
	ErrNumericDomain = errors.New("emden: y^n not real outside the surface-crossing step")

	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("emden: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a run parameter outside its valid range.
	ErrParameterBounds = errors.New("emden: parameter out of valid bounds")

	// ErrUnsupportedIndex indicates no closed form exists for the requested index.
	ErrUnsupportedIndex = errors.New("emden: no analytic solution for index")

	// ErrOutOfRange indicates a query outside the integrated interval.
	ErrOutOfRange = errors.New("emden: query outside integrated range")

	// ErrNoSurface indicates the trajectory never reached y <= 0.
	ErrNoSurface = errors.New("emden: surface not reached before iteration cap")

	// ErrNonMonotonicTail indicates the last points are not strictly decreasing in y.
	ErrNonMonotonicTail = errors.New("emden: trajectory tail not monotonic in y")

	// ErrShortTrajectory indicates too few points for the requested operation.
	ErrShortTrajectory = errors.New("emden: trajectory too short")
)

// StepError wraps a failure with the step at which it happened.
type StepError struct {
	Step    int
	State   State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d at %s: %v", e.Step, e.State, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
