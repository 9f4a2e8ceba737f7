// Package emden provides the core primitives for integrating the Lane-Emden
// equation of a polytropic sphere.
//
// The second-order equation is recast as a first-order system with
// x = xi, y = theta_n and z = dy/dx:
//
//	y' = z
//	z' = -y^n - (2/x) z
//
// The package defines:
//
//   - [State]: the (x, y, z) triple
//   - [Trajectory]: the ordered record produced by one integration
//   - [Derivative]: a single right-hand side of the system
//   - [Gradient] and [Emden]: the two right-hand sides
//
// # Example
//
//	dy, dz := emden.Gradient{}, emden.NewEmden(1.5)
//	next, _ := stepper.Step(dy, dz, emden.Initial(1e-8), 1e-3)
//
// # Thread Safety
//
// All types are values or are immutable once built. A [Trajectory] is owned by
// the caller that produced it; independent integrations share nothing.
package emden
