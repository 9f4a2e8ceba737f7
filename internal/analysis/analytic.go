package analysis

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/surface"
)

// AnalyticSolution evaluates the closed-form solutions used to validate the
// integrator: y = 1 - x^2/6 for n = 0 and y = sin(x)/x for n = 1. Points
// beyond the surface are still evaluated but logged as a warning.
func AnalyticSolution(x []float64, n float64) (y, z []float64, err error) {
	edge, err := analyticEdge(n)
	if err != nil {
		return nil, nil, err
	}

	y = make([]float64, len(x))
	z = make([]float64, len(x))
	outside := 0
	for i, xi := range x {
		if xi < 0 || xi > edge {
			outside++
		}
		y[i], z[i] = closedForm(n, xi)
	}

	if outside > 0 {
		slog.Warn("analytic solution evaluated outside its valid domain",
			"n", n, "points", outside, "domain_max", edge)
	}
	return y, z, nil
}

// AnalyticSurface returns the exact xi1 and theta_prime for n = 0 or n = 1.
func AnalyticSurface(n float64) (surface.Surface, error) {
	switch n {
	case 0:
		return surface.Surface{XI1: math.Sqrt(6), ThetaPrime: math.Sqrt(6) / 3}, nil
	case 1:
		return surface.Surface{XI1: math.Pi, ThetaPrime: 1 / math.Pi}, nil
	}
	return surface.Surface{}, fmt.Errorf("%w: %g (supported: 0, 1)", emden.ErrUnsupportedIndex, n)
}

// AnalyticDensityRatio returns rho_c/<rho> for n = 0 or n = 1.
func AnalyticDensityRatio(n float64) (float64, error) {
	switch n {
	case 0:
		return 1, nil
	case 1:
		return math.Pi * math.Pi / 3, nil
	}
	return 0, fmt.Errorf("%w: %g (supported: 0, 1)", emden.ErrUnsupportedIndex, n)
}

// closedForm evaluates a supported closed form at one point.
func closedForm(n, x float64) (y, z float64) {
	if n == 0 {
		return 1 - x*x/6, -x / 3
	}
	if x == 0 {
		return 1, 0
	}
	s, c := math.Sincos(x)
	return s / x, (x*c - s) / (x * x)
}

func analyticEdge(n float64) (float64, error) {
	s, err := AnalyticSurface(n)
	if err != nil {
		return 0, err
	}
	return s.XI1, nil
}

// AnalyticTrajectory samples a closed form on the same grid the integrator
// would use, x_init + i*h, stopping at the last point inside the surface.
func AnalyticTrajectory(n, xInit, h float64) (*emden.Trajectory, error) {
	if xInit <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: x_init and h must be positive", emden.ErrParameterBounds)
	}
	edge, err := analyticEdge(n)
	if err != nil {
		return nil, err
	}

	if xInit >= edge {
		return nil, fmt.Errorf("%w: x_init %g lies beyond the surface %g", emden.ErrParameterBounds, xInit, edge)
	}

	xs := make([]float64, 0, int(math.Ceil((edge-xInit)/h)))
	for i := 0; ; i++ {
		xi := xInit + float64(i)*h
		if xi >= edge {
			break
		}
		xs = append(xs, xi)
	}

	ys, zs, err := AnalyticSolution(xs, n)
	if err != nil {
		return nil, err
	}

	// Rounding can leave y <= 0 just inside the edge; such points are past the surface.
	for len(ys) > 0 && ys[len(ys)-1] <= 0 {
		xs, ys, zs = xs[:len(xs)-1], ys[:len(ys)-1], zs[:len(zs)-1]
	}

	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: no sample inside the surface", emden.ErrShortTrajectory)
	}

	traj := emden.NewTrajectory(n, h, xInit, len(xs), 0)
	traj.X, traj.Y, traj.Z = xs, ys, zs
	traj.Iterations = len(xs)
	traj.Crossed = true
	ox := xInit + float64(len(xs))*h
	oy, oz := closedForm(n, ox)
	traj.Overshoot = emden.State{X: ox, Y: oy, Z: oz}
	return traj, nil
}
