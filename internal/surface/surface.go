package surface

import (
	"fmt"

	"github.com/san-kum/polytrope/internal/emden"
)

// TailSize is the number of trailing points used for the boundary fit.
const TailSize = 3

// Surface holds the boundary values of a polytrope.
type Surface struct {
	// XI1 is the radius where y reaches zero.
	XI1 float64
	// ThetaPrime is -dy/dx at XI1, reported positive.
	ThetaPrime float64
}

// Locate estimates xi_1 and theta_prime from the last three points of x, y, z.
func Locate(x, y, z []float64) (Surface, error) {
	if len(z) != len(x) {
		return Surface{}, fmt.Errorf("surface: x and z lengths differ (%d != %d)", len(x), len(z))
	}
	u, err := tailAbscissa(x, y)
	if err != nil {
		return Surface{}, err
	}
	k := len(x) - TailSize

	return Surface{
		XI1:        atZero(u, x[k:]),
		ThetaPrime: -atZero(u, z[k:]),
	}, nil
}

// Root estimates only xi_1, for callers that have no gradient data.
func Root(x, y []float64) (float64, error) {
	u, err := tailAbscissa(x, y)
	if err != nil {
		return 0, err
	}
	return atZero(u, x[len(x)-TailSize:]), nil
}

// FromTrajectory locates the surface of a finished integration.
// An exhausted trajectory yields emden.ErrNoSurface.
func FromTrajectory(t *emden.Trajectory) (Surface, error) {
	if t.Exhausted() {
		return Surface{}, fmt.Errorf("%w: %d iterations, last y=%g", emden.ErrNoSurface, t.Iterations, t.Y[t.Len()-1])
	}
	return Locate(t.X, t.Y, t.Z)
}

// tailAbscissa validates the tail and returns -y for its points.
func tailAbscissa(x, y []float64) ([TailSize]float64, error) {
	var u [TailSize]float64
	if len(x) != len(y) {
		return u, fmt.Errorf("surface: x and y lengths differ (%d != %d)", len(x), len(y))
	}
	if len(y) < TailSize {
		return u, fmt.Errorf("%w: need %d points, have %d", emden.ErrShortTrajectory, TailSize, len(y))
	}

	tail := y[len(y)-TailSize:]
	if tail[TailSize-1] <= 0 {
		return u, fmt.Errorf("%w: last recorded y=%g is not positive", emden.ErrNonMonotonicTail, tail[TailSize-1])
	}
	for i := 1; i < TailSize; i++ {
		if !(tail[i] < tail[i-1]) {
			return u, fmt.Errorf("%w: y=%v", emden.ErrNonMonotonicTail, tail)
		}
	}

	for i, v := range tail {
		u[i] = -v
	}
	return u, nil
}

// atZero evaluates the interpolating polynomial through (u[i], v[i]) at 0.
func atZero(u [TailSize]float64, v []float64) float64 {
	sum := 0.0
	for i := 0; i < TailSize; i++ {
		w := v[i]
		for j := 0; j < TailSize; j++ {
			if j != i {
				w *= u[j] / (u[j] - u[i])
			}
		}
		sum += w
	}
	return sum
}
