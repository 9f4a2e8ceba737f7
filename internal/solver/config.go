package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/integrators"
)

// MaxIndex is the exclusive upper bound of the physically valid indices.
// At n = 5 the sphere has infinite radius.
const MaxIndex = 5.0

// Config holds the parameters of one integration. Every value is explicit;
// nothing is read from package state.
type Config struct {
	XInit   float64
	N       float64
	H       float64
	MaxIter int
	Backend integrators.Backend
}

func DefaultConfig() Config {
	return Config{
		XInit:   1e-8,
		N:       1.5,
		H:       1e-4,
		MaxIter: 1_000_000,
		Backend: integrators.Fast,
	}
}

func (c Config) Validate() error {
	for name, v := range map[string]float64{"x_init": c.XInit, "n": c.N, "h": c.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", emden.ErrParameterBounds, name, v)
		}
	}
	if c.XInit <= 0 {
		return fmt.Errorf("%w: x_init must be positive, got %g", emden.ErrParameterBounds, c.XInit)
	}
	if c.H <= 0 {
		return fmt.Errorf("%w: h must be positive, got %g", emden.ErrParameterBounds, c.H)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("%w: max_iter must be positive, got %d", emden.ErrParameterBounds, c.MaxIter)
	}
	if c.N < 0 || c.N >= MaxIndex {
		return fmt.Errorf("%w: n must be in [0, %g), got %g", emden.ErrParameterBounds, MaxIndex, c.N)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("n=%g h=%g x_init=%g max_iter=%d backend=%s", c.N, c.H, c.XInit, c.MaxIter, c.Backend)
}
