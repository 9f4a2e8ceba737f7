package analysis

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/integrators"
	"github.com/san-kum/polytrope/internal/solver"
)

func tableConfig(n float64) solver.Config {
	return solver.Config{XInit: 1e-8, N: n, H: 1e-3, MaxIter: 100_000, Backend: integrators.Fast}
}

func TestResample(t *testing.T) {
	x := make([]float64, 11)
	y := make([]float64, 11)
	for i := range x {
		x[i] = float64(i) / 10
		y[i] = x[i] * x[i] * x[i]
	}

	t.Run("round trip on nodes", func(t *testing.T) {
		got, err := Resample(x, y, x)
		require.NoError(t, err)
		for i := range y {
			assert.InDelta(t, y[i], got[i], 1e-12)
		}
	})

	t.Run("cubic is reproduced", func(t *testing.T) {
		got, err := Resample(x, y, []float64{0.05, 0.55, 0.95})
		require.NoError(t, err)
		assert.InDelta(t, 0.05*0.05*0.05, got[0], 1e-9)
		assert.InDelta(t, 0.55*0.55*0.55, got[1], 1e-9)
		assert.InDelta(t, 0.95*0.95*0.95, got[2], 1e-9)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := Resample(x, y, []float64{0.5, 1.01})
		require.ErrorIs(t, err, emden.ErrOutOfRange)
		_, err = Resample(x, y, []float64{-0.01})
		require.ErrorIs(t, err, emden.ErrOutOfRange)
		_, err = Resample(x, y, []float64{math.NaN()})
		require.ErrorIs(t, err, emden.ErrOutOfRange)
	})

	t.Run("few nodes fall back to linear", func(t *testing.T) {
		got, err := Resample([]float64{0, 1, 2}, []float64{0, 2, 6}, []float64{0.5, 1.5})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got[0], 1e-12)
		assert.InDelta(t, 4.0, got[1], 1e-12)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Resample(nil, nil, []float64{0})
		require.ErrorIs(t, err, emden.ErrShortTrajectory)
	})
}

func TestInteriorGrid(t *testing.T) {
	// these settings put an unpinned last grid point one ulp past the last x
	cfg := solver.Config{XInit: 1e-20, N: 1.5, H: 0.01, MaxIter: 100_000, Backend: integrators.Fast}
	star, err := Solve(cfg)
	require.NoError(t, err)
	traj := star.Trajectory()

	for _, points := range []int{60, 80, 100, 200, 500} {
		grid := InteriorGrid(traj, points)
		require.Len(t, grid, points)
		assert.Equal(t, traj.X[0], grid[0])
		assert.Equal(t, traj.Last().X, grid[points-1])

		_, err := star.DensityProfile(grid)
		require.NoError(t, err, "points=%d", points)
	}

	for _, n := range []float64{0, 1, 2, 3, 4} {
		for _, h := range []float64{1e-2, 1e-3} {
			cfg := solver.Config{XInit: 1e-20, N: n, H: h, MaxIter: 100_000, Backend: integrators.Fast}
			star, err := Solve(cfg)
			require.NoError(t, err)
			_, err = star.DensityProfile(InteriorGrid(star.Trajectory(), 100))
			require.NoError(t, err, "n=%g h=%g", n, h)
		}
	}

	assert.Equal(t, []float64{traj.X[0]}, InteriorGrid(traj, 1))
	assert.Nil(t, InteriorGrid(traj, 0))
	assert.Nil(t, InteriorGrid(&emden.Trajectory{}, 10))
}

func TestAnalyticSolution(t *testing.T) {
	y, z, err := AnalyticSolution([]float64{0, 1, math.Sqrt(6)}, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, y[0], 1e-15)
	assert.InDelta(t, 5.0/6, y[1], 1e-15)
	assert.InDelta(t, 0.0, y[2], 1e-15)
	assert.InDelta(t, -1.0/3, z[1], 1e-15)

	y, z, err = AnalyticSolution([]float64{0, math.Pi / 2, math.Pi}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, y[0])
	assert.Equal(t, 0.0, z[0])
	assert.InDelta(t, 2/math.Pi, y[1], 1e-15)
	assert.InDelta(t, 0.0, y[2], 1e-15)
	assert.InDelta(t, -1/math.Pi, z[2], 1e-15)

	// beyond the surface: warned, not rejected
	y, _, err = AnalyticSolution([]float64{4}, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1-16.0/6, y[0], 1e-15)

	_, _, err = AnalyticSolution([]float64{1}, 1.5)
	require.ErrorIs(t, err, emden.ErrUnsupportedIndex)
}

func TestAnalyticTrajectory(t *testing.T) {
	traj, err := AnalyticTrajectory(1, 1e-3, 1e-2)
	require.NoError(t, err)
	assert.True(t, traj.Crossed)
	assert.Greater(t, traj.Y[traj.Len()-1], 0.0)
	assert.LessOrEqual(t, traj.Overshoot.Y, 0.0)
	assert.InDelta(t, traj.X[traj.Len()-1]+1e-2, traj.Overshoot.X, 1e-12)

	_, err = AnalyticTrajectory(0, 3, 1e-2)
	require.ErrorIs(t, err, emden.ErrParameterBounds)
	_, err = AnalyticTrajectory(0, 1e-3, 0)
	require.ErrorIs(t, err, emden.ErrParameterBounds)
	_, err = AnalyticTrajectory(2, 1e-3, 1e-2)
	require.ErrorIs(t, err, emden.ErrUnsupportedIndex)
}

func TestAnalyticStar(t *testing.T) {
	for _, n := range []float64{0, 1} {
		star, err := Analytic(n, 1e-6, 1e-3)
		require.NoError(t, err)

		surf, err := AnalyticSurface(n)
		require.NoError(t, err)
		ratio, err := AnalyticDensityRatio(n)
		require.NoError(t, err)

		assert.InEpsilon(t, surf.XI1, star.XI1(), 1e-6, "n=%g", n)
		assert.InEpsilon(t, surf.ThetaPrime, star.ThetaPrime(), 1e-5, "n=%g", n)
		assert.InEpsilon(t, ratio, star.DensityRatio(), 1e-4, "n=%g", n)
	}
}

func TestDensityRatio(t *testing.T) {
	traj, err := AnalyticTrajectory(1, 1e-6, 1e-3)
	require.NoError(t, err)

	ratio, err := DensityRatio(traj.X, traj.Y, 1)
	require.NoError(t, err)
	assert.InEpsilon(t, math.Pi*math.Pi/3, ratio, 1e-4)

	_, err = DensityRatio([]float64{1, 2}, []float64{0.5, 0.1}, 1)
	require.ErrorIs(t, err, emden.ErrShortTrajectory)

	_, err = MassIntegral([]float64{1, 2}, []float64{0.5, 0.1}, 1, 1.5)
	require.ErrorIs(t, err, emden.ErrOutOfRange)
}

func TestStar_Textbook(t *testing.T) {
	for _, ref := range References {
		star, err := Solve(tableConfig(ref.N))
		require.NoError(t, err, "n=%g", ref.N)

		assert.InEpsilon(t, ref.XI1, star.XI1(), 1e-3, "xi1 n=%g", ref.N)
		assert.InEpsilon(t, ref.ThetaPrime, star.ThetaPrime(), 1e-3, "theta' n=%g", ref.N)
		assert.InEpsilon(t, ref.DensityRatio, star.DensityRatio(), 1e-3, "ratio n=%g", ref.N)
	}
}

func TestStar_Exhausted(t *testing.T) {
	cfg := tableConfig(3)
	cfg.MaxIter = 100
	_, err := Solve(cfg)
	require.ErrorIs(t, err, emden.ErrNoSurface)
}

func TestStar_Profiles(t *testing.T) {
	star, err := Solve(tableConfig(1.5))
	require.NoError(t, err)

	grid := InteriorGrid(star.Trajectory(), 20)

	rho, err := star.DensityProfile(grid)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rho[0], 1e-9)
	for i := 1; i < len(rho); i++ {
		assert.Less(t, rho[i], rho[i-1]+1e-12)
	}

	p, err := star.PressureProfile(grid, 1, 1)
	require.NoError(t, err)
	assert.InEpsilon(t, star.CentralPressure(1, 1), p[0], 1e-9)

	_, err = star.DensityProfile([]float64{star.XI1() + 1})
	require.ErrorIs(t, err, emden.ErrOutOfRange)

	assert.InEpsilon(t, Volume(star.XI1())/star.DensityRatio(), star.MassIntegral(), 1e-12)
}

func TestCentralPressure(t *testing.T) {
	pc := CentralPressure(3, 0.04243, 1, 1)
	assert.InEpsilon(t, 1.2431e17, pc, 1e-3)
	assert.InEpsilon(t, 4*pc, CentralPressure(3, 0.04243, 2, 1), 1e-12)
	assert.InEpsilon(t, pc/16, CentralPressure(3, 0.04243, 1, 2), 1e-12)
}

func TestLookupReference(t *testing.T) {
	ref, err := LookupReference(1.5)
	require.NoError(t, err)
	assert.Equal(t, 3.65375, ref.XI1)

	_, err = LookupReference(2.5)
	require.ErrorIs(t, err, emden.ErrUnsupportedIndex)

	ref, err = ReferenceFor(3)
	require.NoError(t, err)
	assert.Equal(t, 6.89685, ref.XI1)

	_, err = ReferenceFor(2.5)
	require.ErrorIs(t, err, emden.ErrUnsupportedIndex)
}

func TestSweep(t *testing.T) {
	ns := []float64{3, 0, 1.5, 1}
	out, err := Sweep(context.Background(), tableConfig(0), ns, 2)
	require.NoError(t, err)
	require.Len(t, out, len(ns))

	for i, n := range ns {
		ref, err := LookupReference(n)
		require.NoError(t, err)
		assert.Equal(t, n, out[i].N)
		assert.True(t, out[i].Crossed)
		assert.Positive(t, out[i].Steps)
		assert.InEpsilon(t, ref.XI1, out[i].XI1, 1e-3)
	}
}

func TestSweep_Exhausted(t *testing.T) {
	cfg := tableConfig(0)
	cfg.MaxIter = 10
	out, err := Sweep(context.Background(), cfg, []float64{1, 2}, 0)
	require.NoError(t, err)
	for _, s := range out {
		assert.False(t, s.Crossed)
		assert.True(t, math.IsNaN(s.XI1))
		assert.Equal(t, 10, s.Steps)
	}
}

func TestSweep_Errors(t *testing.T) {
	_, err := Sweep(context.Background(), tableConfig(0), []float64{1, 6}, 2)
	require.ErrorIs(t, err, emden.ErrParameterBounds)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Sweep(ctx, tableConfig(0), []float64{1, 2}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestResolution(t *testing.T) {
	ref, err := ReferenceFor(1)
	require.NoError(t, err)
	assert.Equal(t, math.Pi, ref.XI1)

	steps := []float64{1e-2, 1e-3}
	out, err := Resolution(context.Background(), tableConfig(1), steps, ref, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i, p := range out {
		assert.Equal(t, steps[i], p.H)
		assert.Less(t, p.ErrXI1, 1e-3)
		assert.Less(t, p.ErrThetaPrime, 1e-3)
		assert.Less(t, p.ErrRatio, 1e-3)
	}
}

func TestEstimateOrder(t *testing.T) {
	hs := []float64{1e-1, 1e-2, 1e-3, 1e-4}
	errs := make([]float64, len(hs))
	for i, h := range hs {
		errs[i] = 3 * h * h
	}
	p, err := EstimateOrder(hs, errs)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p, 1e-9)

	_, err = EstimateOrder([]float64{1e-2, 1e-3}, []float64{0, 0})
	require.ErrorIs(t, err, emden.ErrShortTrajectory)
}

func TestLogSpace(t *testing.T) {
	got := LogSpace(1e-4, 1e-1, 4)
	require.Len(t, got, 4)
	for i, want := range []float64{1e-4, 1e-3, 1e-2, 1e-1} {
		assert.InEpsilon(t, want, got[i], 1e-9)
	}
	assert.Nil(t, LogSpace(1, 2, 0))
}

func TestPhasePortrait(t *testing.T) {
	traj, err := AnalyticTrajectory(1, 1e-3, 1e-2)
	require.NoError(t, err)

	p := NewPhasePortrait(traj, 50)
	assert.LessOrEqual(t, len(p.Points), 51)
	last := p.Points[len(p.Points)-1]
	assert.Equal(t, traj.Y[traj.Len()-1], last.X)
	assert.Equal(t, traj.Z[traj.Len()-1], last.Y)

	art := PhasePortraitToASCII(p, 40, 10)
	assert.Equal(t, 10, strings.Count(art, "\n"))
	assert.Contains(t, art, "•")

	assert.Empty(t, PhasePortraitToASCII(nil, 40, 10))
}
