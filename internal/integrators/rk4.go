package integrators

import "github.com/san-kum/polytrope/internal/emden"

// RK4 is the classical fourth-order Runge-Kutta scheme. It knows nothing of
// the Lane-Emden equation beyond the two Derivative values it is handed.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dy, dz emden.Derivative, s emden.State, h float64) (emden.State, bool) {
	x, y, z := s.X, s.Y, s.Z
	half := 0.5 * h

	outside := outsideDomain(dz, y)
	k1 := h * dy.Eval(x, y, z)
	l1 := h * dz.Eval(x, y, z)

	y2, z2 := y+0.5*k1, z+0.5*l1
	outside = outside || outsideDomain(dz, y2)
	k2 := h * dy.Eval(x+half, y2, z2)
	l2 := h * dz.Eval(x+half, y2, z2)

	y3, z3 := y+0.5*k2, z+0.5*l2
	outside = outside || outsideDomain(dz, y3)
	k3 := h * dy.Eval(x+half, y3, z3)
	l3 := h * dz.Eval(x+half, y3, z3)

	y4, z4 := y+k3, z+l3
	outside = outside || outsideDomain(dz, y4)
	k4 := h * dy.Eval(x+h, y4, z4)
	l4 := h * dz.Eval(x+h, y4, z4)

	return emden.State{
		X: x + h,
		Y: y + (k1+2*k2+2*k3+k4)/6,
		Z: z + (l1+2*l2+2*l3+l4)/6,
	}, outside
}
