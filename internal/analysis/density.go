package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/surface"
)

// NormalizedDensity returns rho/rho_c = y^n for every y.
func NormalizedDensity(y []float64, n float64) []float64 {
	rho := make([]float64, len(y))
	for i, v := range y {
		rho[i] = emden.Power(v, n)
	}
	return rho
}

// MassIntegral returns the dimensionless mass M/rho_c, the integral of
// 4 pi x^2 y^n from the centre to xi1. The last recorded point is replaced
// by (xi1, 0) so the quadrature ends on the surface.
func MassIntegral(x, y []float64, n, xi1 float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("mass: x and y lengths differ (%d != %d)", len(x), len(y))
	}
	if len(x) < 2 {
		return 0, fmt.Errorf("%w: need 2 points for quadrature, have %d", emden.ErrShortTrajectory, len(x))
	}
	last := len(x) - 1
	if xi1 <= x[last-1] {
		return 0, fmt.Errorf("%w: surface %g does not lie beyond x=%g", emden.ErrOutOfRange, xi1, x[last-1])
	}

	xs := make([]float64, len(x))
	copy(xs, x)
	xs[last] = xi1

	f := make([]float64, len(x))
	for i := 0; i < last; i++ {
		f[i] = 4 * math.Pi * xs[i] * xs[i] * emden.Power(y[i], n)
	}
	f[last] = 4 * math.Pi * xi1 * xi1 * emden.Power(0, n)

	return integrate.Trapezoidal(xs, f), nil
}

// Volume returns 4/3 pi xi1^3.
func Volume(xi1 float64) float64 {
	return 4.0 / 3.0 * math.Pi * xi1 * xi1 * xi1
}

// DensityRatio returns rho_c / <rho> for a trajectory that stops one step
// short of the surface.
func DensityRatio(x, y []float64, n float64) (float64, error) {
	xi1, err := surface.Root(x, y)
	if err != nil {
		return 0, err
	}
	return densityRatio(x, y, n, xi1)
}

func densityRatio(x, y []float64, n, xi1 float64) (float64, error) {
	mass, err := MassIntegral(x, y, n, xi1)
	if err != nil {
		return 0, err
	}
	return Volume(xi1) / mass, nil
}
