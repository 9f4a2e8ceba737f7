package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/solver"
	"github.com/san-kum/polytrope/internal/surface"
)

// Star is a polytrope built from a finished trajectory. It is immutable and
// safe to share between goroutines.
type Star struct {
	traj  *emden.Trajectory
	surf  surface.Surface
	ratio float64
}

// NewStar derives the surface and density ratio of a crossed trajectory.
// The trajectory must not be modified afterwards.
func NewStar(traj *emden.Trajectory) (*Star, error) {
	surf, err := surface.FromTrajectory(traj)
	if err != nil {
		return nil, err
	}
	ratio, err := densityRatio(traj.X, traj.Y, traj.N, surf.XI1)
	if err != nil {
		return nil, err
	}
	return &Star{traj: traj, surf: surf, ratio: ratio}, nil
}

// Solve integrates cfg and builds a Star from the result.
func Solve(cfg solver.Config) (*Star, error) {
	traj, err := solver.Integrate(cfg)
	if err != nil {
		return nil, fmt.Errorf("integrate %s: %w", cfg, err)
	}
	return NewStar(traj)
}

// Analytic builds a Star from the closed form for n = 0 or n = 1, sampled
// on the grid the integrator would use.
func Analytic(n, xInit, h float64) (*Star, error) {
	traj, err := AnalyticTrajectory(n, xInit, h)
	if err != nil {
		return nil, err
	}
	return NewStar(traj)
}

func (s *Star) N() float64                    { return s.traj.N }
func (s *Star) XI1() float64                  { return s.surf.XI1 }
func (s *Star) ThetaPrime() float64           { return s.surf.ThetaPrime }
func (s *Star) Surface() surface.Surface      { return s.surf }
func (s *Star) DensityRatio() float64         { return s.ratio }
func (s *Star) Trajectory() *emden.Trajectory { return s.traj }

// Resample evaluates y on grid, which must lie within [x_init, last x].
func (s *Star) Resample(grid []float64) ([]float64, error) {
	return Resample(s.traj.X, s.traj.Y, grid)
}

// CentralPressure returns P_c in dyne/cm^2 for mass and radius in solar units.
func (s *Star) CentralPressure(mass, radius float64) float64 {
	return CentralPressure(s.traj.N, s.surf.ThetaPrime, mass, radius)
}

// MassIntegral returns M/rho_c in dimensionless units.
func (s *Star) MassIntegral() float64 {
	return Volume(s.surf.XI1) / s.ratio
}

// DensityProfile returns rho/rho_c on grid.
func (s *Star) DensityProfile(grid []float64) ([]float64, error) {
	y, err := s.Resample(grid)
	if err != nil {
		return nil, err
	}
	return NormalizedDensity(y, s.traj.N), nil
}

// PressureProfile returns P = P_c y^(n+1) in dyne/cm^2 on grid.
func (s *Star) PressureProfile(grid []float64, mass, radius float64) ([]float64, error) {
	y, err := s.Resample(grid)
	if err != nil {
		return nil, err
	}
	pc := s.CentralPressure(mass, radius)
	p := make([]float64, len(y))
	for i, v := range y {
		p[i] = pc * emden.Power(math.Max(v, 0), s.traj.N+1)
	}
	return p, nil
}
