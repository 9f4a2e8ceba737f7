package analysis

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/solver"
)

// Summary is the scalar result of one run. For a run that never reached the
// surface the surface fields are NaN and Crossed is false.
type Summary struct {
	N            float64 `json:"n"`
	XI1          float64 `json:"xi1"`
	ThetaPrime   float64 `json:"theta_prime"`
	DensityRatio float64 `json:"density_ratio"`
	Steps        int     `json:"steps"`
	Crossed      bool    `json:"crossed"`
}

func (s *Star) Summary() Summary {
	return Summary{
		N:            s.traj.N,
		XI1:          s.surf.XI1,
		ThetaPrime:   s.surf.ThetaPrime,
		DensityRatio: s.ratio,
		Steps:        s.traj.Iterations,
		Crossed:      true,
	}
}

// Summarize reduces a trajectory to its Summary. Exhausted trajectories are
// not an error here.
func Summarize(traj *emden.Trajectory) (Summary, error) {
	if traj.Exhausted() {
		return Summary{
			N:            traj.N,
			XI1:          math.NaN(),
			ThetaPrime:   math.NaN(),
			DensityRatio: math.NaN(),
			Steps:        traj.Iterations,
		}, nil
	}
	star, err := NewStar(traj)
	if err != nil {
		return Summary{}, err
	}
	return star.Summary(), nil
}

func workerLimit(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// Sweep solves base once per index in ns. Results are in the order of ns.
// The first failing run cancels the runs that have not started yet.
func Sweep(ctx context.Context, base solver.Config, ns []float64, workers int) ([]Summary, error) {
	out := make([]Summary, len(ns))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for i, n := range ns {
		i, n := i, n
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := base
			cfg.N = n
			traj, err := solver.Integrate(cfg)
			if err != nil {
				return fmt.Errorf("n=%g: %w", n, err)
			}
			out[i], err = Summarize(traj)
			if err != nil {
				return fmt.Errorf("n=%g: %w", n, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
