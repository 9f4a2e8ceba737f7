package analysis

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/solver"
)

// ResolutionPoint is the error of one step size against a reference.
type ResolutionPoint struct {
	H             float64 `json:"h"`
	XI1           float64 `json:"xi1"`
	ThetaPrime    float64 `json:"theta_prime"`
	DensityRatio  float64 `json:"density_ratio"`
	ErrXI1        float64 `json:"err_xi1"`
	ErrThetaPrime float64 `json:"err_theta_prime"`
	ErrRatio      float64 `json:"err_density_ratio"`
}

// Resolution solves base once per step size and reports relative errors
// against ref. Results are in the order of steps.
func Resolution(ctx context.Context, base solver.Config, steps []float64, ref Reference, workers int) ([]ResolutionPoint, error) {
	out := make([]ResolutionPoint, len(steps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for i, h := range steps {
		i, h := i, h
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := base
			cfg.H = h
			star, err := Solve(cfg)
			if err != nil {
				return fmt.Errorf("h=%g: %w", h, err)
			}
			out[i] = ResolutionPoint{
				H:             h,
				XI1:           star.XI1(),
				ThetaPrime:    star.ThetaPrime(),
				DensityRatio:  star.DensityRatio(),
				ErrXI1:        relErr(star.XI1(), ref.XI1),
				ErrThetaPrime: relErr(star.ThetaPrime(), ref.ThetaPrime),
				ErrRatio:      relErr(star.DensityRatio(), ref.DensityRatio),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

// EstimateOrder fits log(err) = a + p log(h) and returns p. Points with a
// zero or non-finite error are ignored; at least two must remain.
func EstimateOrder(hs, errs []float64) (float64, error) {
	if len(hs) != len(errs) {
		return 0, fmt.Errorf("order: h and err lengths differ (%d != %d)", len(hs), len(errs))
	}
	var lx, ly []float64
	for i := range hs {
		e := errs[i]
		if hs[i] <= 0 || e <= 0 || math.IsNaN(e) || math.IsInf(e, 0) {
			continue
		}
		lx = append(lx, math.Log(hs[i]))
		ly = append(ly, math.Log(e))
	}
	if len(lx) < 2 || floats.Min(lx) == floats.Max(lx) {
		return 0, fmt.Errorf("%w: need two distinct step sizes with non-zero error", emden.ErrShortTrajectory)
	}
	_, slope := stat.LinearRegression(lx, ly, nil, false)
	return slope, nil
}

// LogSpace returns count values spaced evenly in log10 between lo and hi.
func LogSpace(lo, hi float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []float64{lo}
	}
	dst := make([]float64, count)
	return floats.LogSpan(dst, lo, hi)
}
