package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/polytrope/internal/analysis"
	"github.com/san-kum/polytrope/internal/catalog"
	"github.com/san-kum/polytrope/internal/config"
	"github.com/san-kum/polytrope/internal/export"
	"github.com/san-kum/polytrope/internal/solver"
)

func openCatalog() (*catalog.Catalog, error) {
	path := catalogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return catalog.Open(path)
}

// record stores a finished sweep in the catalog. The sweep name defaults to
// the preset name, then to a timestamp.
func record(ctx context.Context, name string, cfg *config.Config, base solver.Config, sums []analysis.Summary) error {
	if name == "" {
		name = cfg.Name
	}
	if name == "" {
		name = time.Now().Format("20060102-150405")
	}

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	entries := make([]catalog.Entry, len(sums))
	for i, s := range sums {
		sc := base
		sc.N = s.N
		entries[i] = catalog.NewEntry(sc, s)
	}
	if err := cat.Record(ctx, name, entries); err != nil {
		return err
	}
	slog.Info("sweep recorded", "sweep", name, "runs", len(entries), "catalog", catalogPath())
	return nil
}

func runSweep(ctx context.Context, cfg *config.Config) (solver.Config, []analysis.Summary, error) {
	base, err := cfg.SolverConfig()
	if err != nil {
		return base, nil, err
	}
	ns := cfg.Indices()
	slog.Info("sweeping", "models", len(ns), "h", base.H, "x_init", base.XInit)

	start := time.Now()
	sums, err := analysis.Sweep(ctx, base, ns, cfg.Workers)
	if err != nil {
		return base, nil, err
	}
	slog.Info("sweep finished", "elapsed", time.Since(start).Round(time.Millisecond))
	return base, sums, nil
}

func newTableCmd() *cobra.Command {
	var f runFlags
	var out, name string
	var save bool
	cmd := &cobra.Command{
		Use:   "table",
		Short: "write the surface quantities of a sweep as a LaTeX table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, "table")
			if err != nil {
				return err
			}
			base, sums, err := runSweep(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			w, closeFn, err := stdoutOr(out)
			if err != nil {
				return err
			}
			if err := export.LatexTable(w, sums); err != nil {
				closeFn()
				return err
			}
			if err := closeFn(); err != nil {
				return err
			}
			if save {
				return record(cmd.Context(), name, cfg, base, sums)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&name, "name", "", "catalog sweep name")
	cmd.Flags().BoolVar(&save, "record", false, "record the sweep in the catalog")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var f runFlags
	var from, to float64
	var count int
	var name string
	var noRecord bool
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "solve a range of indices in parallel and record them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, "")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("count") || cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
				cfg.Sweep = config.SweepConfig{From: from, To: to, Count: count}
			}
			if cfg.Sweep.Count == 0 && len(cfg.Sweep.Values) == 0 {
				cfg.Sweep = config.SweepConfig{From: from, To: to, Count: count}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			base, sums, err := runSweep(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			printSweep(cmd.OutOrStdout(), sums)
			if noRecord {
				return nil
			}
			return record(cmd.Context(), name, cfg, base, sums)
		},
	}
	f.register(cmd)
	cmd.Flags().Float64Var(&from, "from", 0, "first index")
	cmd.Flags().Float64Var(&to, "to", 4, "last index")
	cmd.Flags().IntVar(&count, "count", 17, "number of indices")
	cmd.Flags().StringVar(&name, "name", "", "catalog sweep name")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "do not record the sweep in the catalog")
	return cmd
}

func printSweep(out io.Writer, sums []analysis.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tSTEPS\tXI1\tTHETA'\tRHO_C/<RHO>")
	for _, s := range sums {
		fmt.Fprintf(w, "%g\t%s\t%s\t%s\t%s\n", s.N, steps(s.Steps), num(s.XI1), num(s.ThetaPrime), num(s.DensityRatio))
	}
	w.Flush()
}

func newProfileCmd() *cobra.Command {
	var f runFlags
	var svgPath string
	var quantity string
	cmd := &cobra.Command{
		Use:   "profile [n...]",
		Short: "plot density, pressure or y against x/xi_1 for several indices",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, "")
			if err != nil {
				return err
			}
			ns := cfg.Indices()
			if len(args) > 0 {
				ns, err = parseIndices(args)
				if err != nil {
					return err
				}
			}
			base, err := cfg.SolverConfig()
			if err != nil {
				return err
			}
			points := cfg.Profile.Points
			if points < 2 {
				points = config.DefaultPoints
			}

			series := make([]export.Series, len(ns))
			g, ctx := errgroup.WithContext(cmd.Context())
			limit := cfg.Workers
			if limit == 0 {
				limit = runtime.GOMAXPROCS(0)
			}
			g.SetLimit(limit)
			for i, n := range ns {
				i, n := i, n
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					sc := base
					sc.N = n
					star, err := analysis.Solve(sc)
					if err != nil {
						return fmt.Errorf("n=%g: %w", n, err)
					}
					s, err := profileSeries(star, quantity, points, cfg.Profile)
					if err != nil {
						return fmt.Errorf("n=%g: %w", n, err)
					}
					s.Stroke = export.Gradient(float64(i) / math.Max(1, float64(len(ns)-1)))
					series[i] = s
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if svgPath != "" {
				if err := os.WriteFile(svgPath, []byte(export.PlotSVG(series, 640, 480)), 0644); err != nil {
					return err
				}
				slog.Info("profile written", "path", svgPath)
			}

			// the terminal plot gets at most a handful of curves
			step := max(1, len(series)/8)
			var data [][]float64
			for i := 0; i < len(series); i += step {
				ys := make([]float64, len(series[i].Points))
				for j, p := range series[i].Points {
					ys[j] = p.Y
				}
				data = append(data, ys)
			}
			fmt.Fprintln(cmd.OutOrStdout(), asciigraph.PlotMany(data,
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s vs x/xi_1, n from %g to %g", quantity, ns[0], ns[len(ns)-1])),
			))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the curves as SVG")
	cmd.Flags().StringVar(&quantity, "quantity", "density", "density, pressure or y")
	return cmd
}

// profileSeries samples one star on points evenly spaced radii from the
// centre to its last interior point, with x scaled by xi_1.
func profileSeries(star *analysis.Star, quantity string, points int, p config.ProfileConfig) (export.Series, error) {
	traj := star.Trajectory()
	grid := analysis.InteriorGrid(traj, points)

	var vals []float64
	var err error
	switch quantity {
	case "density":
		vals, err = star.DensityProfile(grid)
	case "pressure":
		vals, err = star.PressureProfile(grid, p.Mass, p.Radius)
	case "y", "theta":
		vals, err = star.Resample(grid)
	default:
		return export.Series{}, fmt.Errorf("unknown quantity: %s", quantity)
	}
	if err != nil {
		return export.Series{}, err
	}

	s := export.Series{Label: fmt.Sprintf("n=%g", star.N()), Points: make([]analysis.Point, len(grid))}
	for i := range grid {
		s.Points[i] = analysis.Point{X: grid[i] / star.XI1(), Y: vals[i]}
	}
	return s, nil
}

func newResolutionCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "resolution",
		Short: "measure surface errors against step size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, "resolution")
			if err != nil {
				return err
			}
			base, err := cfg.SolverConfig()
			if err != nil {
				return err
			}
			ref, err := analysis.ReferenceFor(base.N)
			if err != nil {
				return err
			}
			hs := cfg.Steps()

			slog.Info("resolution study", "n", base.N, "steps", len(hs))
			pts, err := analysis.Resolution(cmd.Context(), base, hs, ref, cfg.Workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "H\tXI1\tERR\tTHETA'\tERR\tRHO_C/<RHO>\tERR")
			errXI := make([]float64, len(pts))
			errTP := make([]float64, len(pts))
			errRho := make([]float64, len(pts))
			logErr := make([]float64, len(pts))
			for i, p := range pts {
				errXI[i], errTP[i], errRho[i] = p.ErrXI1, p.ErrThetaPrime, p.ErrRatio
				logErr[i] = math.Log10(math.Max(p.ErrXI1, 1e-16))
				fmt.Fprintf(w, "%.3g\t%s\t%.2e\t%s\t%.2e\t%s\t%.2e\n",
					p.H, num(p.XI1), p.ErrXI1, num(p.ThetaPrime), p.ErrThetaPrime, num(p.DensityRatio), p.ErrRatio)
			}
			w.Flush()
			fmt.Fprintln(out)

			for _, o := range []struct {
				name string
				errs []float64
			}{{"xi_1", errXI}, {"theta'", errTP}, {"rho_c/<rho>", errRho}} {
				if p, err := analysis.EstimateOrder(hs, o.errs); err == nil {
					printField(out, "order "+o.name, fmt.Sprintf("%.2f", p))
				}
			}

			if len(logErr) > 1 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, asciigraph.Plot(logErr,
					asciigraph.Height(10),
					asciigraph.Width(60),
					asciigraph.Caption("log10 relative xi_1 error, h increasing"),
				))
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [sweep]",
		Short: "list recorded sweeps, or the runs of one sweep",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				sweeps, err := cat.Sweeps(cmd.Context())
				if err != nil {
					return err
				}
				if len(sweeps) == 0 {
					fmt.Fprintln(out, "no sweeps recorded")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "SWEEP\tRUNS\tRECORDED")
				for _, s := range sweeps {
					fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, s.Runs, s.Created().Format("2006-01-02 15:04:05"))
				}
				return w.Flush()
			}

			entries, err := cat.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no sweep named %q", args[0])
			}
			sums := make([]analysis.Summary, len(entries))
			for i, e := range entries {
				sums[i] = e.Summary()
			}
			printTitle(out, "%s (h=%g, x_init=%g, %s)", args[0], entries[0].Step, entries[0].XInit, entries[0].Backend)
			printSweep(out, sums)
			return nil
		},
	}
}
