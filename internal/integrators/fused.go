package integrators

import (
	"math"

	"github.com/san-kum/polytrope/internal/emden"
)

// FusedRK4 is the same tableau as RK4 with the Lane-Emden right-hand side
// evaluated inline. It is only valid for the (Gradient, Emden) pair; any other
// pair is delegated to the reference scheme.
type FusedRK4 struct {
	ref RK4
}

func NewFusedRK4() *FusedRK4 {
	return &FusedRK4{}
}

func (f *FusedRK4) Step(dy, dz emden.Derivative, s emden.State, h float64) (emden.State, bool) {
	e, ok := dz.(emden.Emden)
	if _, grad := dy.(emden.Gradient); !ok || !grad {
		return f.ref.Step(dy, dz, s, h)
	}

	n := e.Index()
	integer := e.Integer()
	pow := func(y float64) float64 {
		if integer {
			switch n {
			case 0:
				return 1
			case 1:
				return y
			}
			return math.Pow(y, n)
		}
		if y < 0 {
			return -math.Pow(-y, n)
		}
		return math.Pow(y, n)
	}

	x, y, z := s.X, s.Y, s.Z
	half := 0.5 * h
	xm, xe := x+half, x+h

	k1 := h * z
	l1 := h * (-pow(y) - 2/x*z)

	y2, z2 := y+0.5*k1, z+0.5*l1
	k2 := h * z2
	l2 := h * (-pow(y2) - 2/xm*z2)

	y3, z3 := y+0.5*k2, z+0.5*l2
	k3 := h * z3
	l3 := h * (-pow(y3) - 2/xm*z3)

	y4, z4 := y+k3, z+l3
	k4 := h * z4
	l4 := h * (-pow(y4) - 2/xe*z4)

	outside := !integer && (y < 0 || y2 < 0 || y3 < 0 || y4 < 0)

	return emden.State{
		X: xe,
		Y: y + (k1+2*k2+2*k3+k4)/6,
		Z: z + (l1+2*l2+2*l3+l4)/6,
	}, outside
}
