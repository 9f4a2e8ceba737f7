// Package analysis derives physical quantities from integrated polytropes.
//
// The package turns raw trajectories into diagnostics:
//
//   - [Resample]: cubic-spline resampling of y(x) onto a caller grid
//   - [DensityRatio]: central-to-mean density ratio
//   - [CentralPressure]: central pressure for a given mass and radius
//   - [AnalyticSolution]: closed forms for n = 0 and n = 1
//   - [Star]: an immutable bundle of a finished trajectory and its derived scalars
//   - [Sweep] and [Resolution]: parallel batches over n and over h
//
// # Example
//
//	star, err := analysis.Solve(solver.Config{XInit: 1e-8, N: 3, H: 1e-4, MaxIter: 1e6})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(star.XI1(), star.ThetaPrime(), star.DensityRatio())
package analysis
