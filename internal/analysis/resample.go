package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/polytrope/internal/emden"
)

// minSplineNodes is the fewest nodes the not-a-knot spline accepts.
const minSplineNodes = 4

// Resample evaluates a cubic spline through (x, y) at every grid point.
// Grid points outside [x[0], x[len-1]] are rejected; nothing is extrapolated.
func Resample(x, y, grid []float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("resample: x and y lengths differ (%d != %d)", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: no points to resample", emden.ErrShortTrajectory)
	}

	lo, hi := x[0], x[len(x)-1]
	for _, g := range grid {
		if !(g >= lo && g <= hi) {
			return nil, fmt.Errorf("%w: %g not in [%g, %g]", emden.ErrOutOfRange, g, lo, hi)
		}
	}

	out := make([]float64, len(grid))
	if len(x) == 1 {
		for i := range out {
			out[i] = y[0]
		}
		return out, nil
	}

	var fp interp.FittablePredictor = &interp.NotAKnotCubic{}
	if len(x) < minSplineNodes {
		fp = &interp.PiecewiseLinear{}
	}
	if err := fp.Fit(x, y); err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	for i, g := range grid {
		out[i] = fp.Predict(g)
	}
	return out, nil
}

// InteriorGrid returns points evenly spaced radii from x_init to the last
// recorded x. Both ends are exact so the grid is always accepted by Resample.
func InteriorGrid(traj *emden.Trajectory, points int) []float64 {
	if traj.Len() == 0 || points <= 0 {
		return nil
	}
	lo, hi := traj.X[0], traj.Last().X
	if points == 1 || lo == hi {
		return []float64{lo}
	}
	grid := floats.Span(make([]float64, points), lo, hi)
	grid[0], grid[points-1] = lo, hi
	return grid
}
