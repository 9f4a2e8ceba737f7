package emden

import "math"

// Derivative is one right-hand side of the first-order system.
type Derivative interface {
	Eval(x, y, z float64) float64
}

// DomainChecker is implemented by right-hand sides that are only real-valued
// on part of the y axis.
type DomainChecker interface {
	InDomain(y float64) bool
}

// Gradient is dy/dx = z.
type Gradient struct{}

func (Gradient) Eval(_, _, z float64) float64 { return z }

// Emden is dz/dx = -y^n - (2/x) z for a fixed polytropic index.
// Eval must never be called with x = 0.
type Emden struct {
	n       float64
	integer bool
}

func NewEmden(n float64) Emden {
	return Emden{n: n, integer: n == math.Trunc(n)}
}

func (e Emden) Index() float64 { return e.n }

// Integer reports whether y^n is real for every y.
func (e Emden) Integer() bool { return e.integer }

func (e Emden) Eval(x, y, z float64) float64 {
	return -e.Power(y) - 2/x*z
}

func (e Emden) InDomain(y float64) bool {
	return e.integer || y >= 0
}

// Power returns y^n. For a non-integer index and y < 0 it returns -|y|^n,
// keeping the term real with the sign it would have just past the surface.
// This is an approximation that only matters inside the step that crosses
// y = 0.
func (e Emden) Power(y float64) float64 {
	return Power(y, e.n)
}

// Power is the real-valued y^n used throughout the package.
func Power(y, n float64) float64 {
	if y < 0 && n != math.Trunc(n) {
		return -math.Pow(-y, n)
	}
	return math.Pow(y, n)
}
