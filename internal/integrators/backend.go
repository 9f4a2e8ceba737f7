package integrators

import (
	"fmt"
	"strings"

	"github.com/san-kum/polytrope/internal/emden"
)

// Stepper advances the Lane-Emden system by one fixed step h.
//
// outside reports whether any stage evaluated dz at a y outside dz's real
// domain (see emden.DomainChecker). Only the step that crosses the surface
// may legitimately do so; the caller decides.
type Stepper interface {
	Step(dy, dz emden.Derivative, s emden.State, h float64) (next emden.State, outside bool)
}

// Backend selects a Stepper implementation.
type Backend int

const (
	// Fast is the fused fourth-order scheme with the right-hand side inlined.
	Fast Backend = iota
	// Reference is the classical fourth-order scheme over the Derivative interface.
	Reference
	// Euler is the first-order baseline.
	Euler
)

var backendNames = map[Backend]string{
	Fast:      "fast",
	Reference: "reference",
	Euler:     "euler",
}

func (b Backend) String() string {
	if name, ok := backendNames[b]; ok {
		return name
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// ParseBackend maps a configuration name to a Backend. "rk4" is accepted as
// an alias for the reference scheme.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fast", "fused":
		return Fast, nil
	case "reference", "rk4":
		return Reference, nil
	case "euler":
		return Euler, nil
	}
	return 0, fmt.Errorf("unknown backend: %s", name)
}

// Backends lists every selectable backend in declaration order.
func Backends() []Backend {
	return []Backend{Fast, Reference, Euler}
}

func New(b Backend) (Stepper, error) {
	switch b {
	case Fast:
		return NewFusedRK4(), nil
	case Reference:
		return NewRK4(), nil
	case Euler:
		return NewEuler(), nil
	}
	return nil, fmt.Errorf("unknown backend: %s", b)
}

// outsideDomain reports whether dz is undefined in the reals at y.
func outsideDomain(dz emden.Derivative, y float64) bool {
	if dc, ok := dz.(emden.DomainChecker); ok {
		return !dc.InDomain(y)
	}
	return false
}
