package solver

import (
	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/integrators"
)

// initialCapacity bounds the up-front allocation for very large caps.
const initialCapacity = 1 << 16

// Observer is notified of every recorded state.
type Observer interface {
	OnStep(i int, s emden.State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(i int, s emden.State)

func (f ObserverFunc) OnStep(i int, s emden.State) { f(i, s) }

// Solver drives a Stepper from the central condition to the surface.
type Solver struct {
	stepper   integrators.Stepper
	observers []Observer
}

func New(stepper integrators.Stepper) *Solver {
	return &Solver{stepper: stepper}
}

func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Integrate solves one configuration with a fresh Solver for its backend.
func Integrate(cfg Config) (*emden.Trajectory, error) {
	stepper, err := integrators.New(cfg.Backend)
	if err != nil {
		return nil, err
	}
	return New(stepper).Run(cfg)
}

// Run integrates outward from (x_init, 1, 0) until y <= 0 or MaxIter steps
// have been taken. The state before each step is recorded, so the returned
// trajectory ends on the last state with y > 0. Reaching MaxIter is not an
// error; check Trajectory.Exhausted.
func (s *Solver) Run(cfg Config) (*emden.Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	capacity := cfg.MaxIter
	if capacity > initialCapacity {
		capacity = initialCapacity
	}
	traj := emden.NewTrajectory(cfg.N, cfg.H, cfg.XInit, cfg.MaxIter, capacity)

	dy, dz := emden.Gradient{}, emden.NewEmden(cfg.N)
	prev := emden.Initial(cfg.XInit)
	iter := 0

	for prev.Y > 0 && iter < cfg.MaxIter {
		traj.Append(prev)
		for _, obs := range s.observers {
			obs.OnStep(iter, prev)
		}
		iter++

		next, outside := s.stepper.Step(dy, dz, prev, cfg.H)
		if !next.IsValid() {
			traj.Iterations = iter
			return traj, &emden.StepError{Step: iter, State: prev, Wrapped: emden.ErrInvalidState}
		}
		if outside && next.Y > 0 {
			traj.Iterations = iter
			return traj, &emden.StepError{Step: iter, State: prev, Wrapped: emden.ErrNumericDomain}
		}
		prev = next
	}

	traj.Iterations = iter
	if prev.Y <= 0 {
		traj.Crossed = true
		traj.Overshoot = prev
	}
	return traj, nil
}
