package integrators

import "github.com/san-kum/polytrope/internal/emden"

type EulerStepper struct{}

func NewEuler() *EulerStepper {
	return &EulerStepper{}
}

func (e *EulerStepper) Step(dy, dz emden.Derivative, s emden.State, h float64) (emden.State, bool) {
	return emden.State{
		X: s.X + h,
		Y: s.Y + h*dy.Eval(s.X, s.Y, s.Z),
		Z: s.Z + h*dz.Eval(s.X, s.Y, s.Z),
	}, outsideDomain(dz, s.Y)
}
