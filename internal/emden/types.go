package emden

import (
	"fmt"
	"math"
)

// State is one point of the system: radius X, potential Y and gradient Z = dY/dX.
type State struct {
	X, Y, Z float64
}

// Initial returns the regular central condition y = 1, z = 0 at xInit.
func Initial(xInit float64) State {
	return State{X: xInit, Y: 1, Z: 0}
}

func (s State) IsValid() bool {
	for _, v := range [3]float64{s.X, s.Y, s.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) String() string {
	return fmt.Sprintf("(x=%.6g, y=%.6g, z=%.6g)", s.X, s.Y, s.Z)
}

// Trajectory is the record of one integration run. Each entry is the state
// before a step, so the last entry is the last state with y > 0 whenever
// the surface was reached.
type Trajectory struct {
	X []float64
	Y []float64
	Z []float64

	N       float64
	H       float64
	XInit   float64
	MaxIter int

	Iterations int
	Crossed    bool
	// Overshoot is the first state with y <= 0. Zero unless Crossed.
	Overshoot State
}

// NewTrajectory allocates an empty trajectory with room for capacity states.
func NewTrajectory(n, h, xInit float64, maxIter, capacity int) *Trajectory {
	return &Trajectory{
		X:       make([]float64, 0, capacity),
		Y:       make([]float64, 0, capacity),
		Z:       make([]float64, 0, capacity),
		N:       n,
		H:       h,
		XInit:   xInit,
		MaxIter: maxIter,
	}
}

func (t *Trajectory) Append(s State) {
	t.X = append(t.X, s.X)
	t.Y = append(t.Y, s.Y)
	t.Z = append(t.Z, s.Z)
}

func (t *Trajectory) Len() int { return len(t.X) }

func (t *Trajectory) At(i int) State {
	return State{X: t.X[i], Y: t.Y[i], Z: t.Z[i]}
}

// Last returns the final recorded state. It panics on an empty trajectory.
func (t *Trajectory) Last() State {
	return t.At(t.Len() - 1)
}

// Tail returns views of the last k recorded points, or all of them if fewer.
func (t *Trajectory) Tail(k int) (x, y, z []float64) {
	start := t.Len() - k
	if start < 0 {
		start = 0
	}
	return t.X[start:], t.Y[start:], t.Z[start:]
}

// Exhausted reports whether integration stopped at the iteration cap
// before the surface was reached. Such a profile is valid but incomplete.
func (t *Trajectory) Exhausted() bool {
	return !t.Crossed
}
