package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/polytrope/internal/analysis"
	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/integrators"
	"github.com/san-kum/polytrope/internal/solver"
	"github.com/san-kum/polytrope/internal/storage"
)

const progressEvery = 100_000

func progressObserver(cfg solver.Config) solver.Observer {
	return solver.ObserverFunc(func(i int, s emden.State) {
		if i > 0 && i%progressEvery == 0 {
			slog.Debug("integrating", "n", cfg.N, "step", i, "x", s.X, "y", s.Y)
		}
	})
}

// integrate runs one configuration with progress logging.
func integrate(cfg solver.Config) (*emden.Trajectory, time.Duration, error) {
	stepper, err := integrators.New(cfg.Backend)
	if err != nil {
		return nil, 0, err
	}
	s := solver.New(stepper)
	s.AddObserver(progressObserver(cfg))

	start := time.Now()
	traj, err := s.Run(cfg)
	return traj, time.Since(start), err
}

func newSolveCmd() *cobra.Command {
	var f runFlags
	var noSave bool
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "integrate one polytrope and store the run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, "")
			if err != nil {
				return err
			}
			sc, err := cfg.SolverConfig()
			if err != nil {
				return err
			}

			slog.Debug("solving", "config", sc.String())
			traj, elapsed, err := integrate(sc)
			if err != nil {
				return err
			}
			sum, err := analysis.Summarize(traj)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTitle(out, "polytrope n=%g", sc.N)
			printSummary(out, sum)
			printField(out, "time", elapsed.Round(time.Microsecond).String())
			if sum.Crossed {
				printField(out, "P_c [dyn/cm^2]", num(analysis.CentralPressure(sc.N, sum.ThetaPrime, cfg.Profile.Mass, cfg.Profile.Radius)))
			}

			if noSave {
				return nil
			}
			id, err := storage.New(dataDir()).Save(cmd.Context(), sc, traj, sum)
			if err != nil {
				return err
			}
			printField(out, "run id", id)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func newShowCmd() *cobra.Command {
	var width, height int
	var phase bool
	cmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir())
			meta, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			traj, err := st.LoadTrajectory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTitle(out, "run %s", meta.ID)
			printField(out, "h", num(meta.H))
			printField(out, "x_init", num(meta.XInit))
			printField(out, "backend", meta.Backend)
			printSummary(out, meta.Summary())
			fmt.Fprintln(out)

			if phase {
				p := analysis.NewPhasePortrait(traj, 4*width*height)
				fmt.Fprint(out, analysis.PhasePortraitToASCII(p, width, height))
				fmt.Fprintln(out, "  y →, z ↑")
				return nil
			}

			grid := analysis.InteriorGrid(traj, max(width, 2))
			y, err := analysis.Resample(traj.X, traj.Y, grid)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, asciigraph.Plot(y,
				asciigraph.Height(height),
				asciigraph.Width(width),
				asciigraph.Caption(fmt.Sprintf("y(x), x in [%.3g, %.3g]", grid[0], grid[len(grid)-1])),
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	cmd.Flags().IntVar(&height, "height", 15, "plot height")
	cmd.Flags().BoolVar(&phase, "phase", false, "draw the (y, z) phase portrait instead")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir()).List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tN\tH\tBACKEND\tSTEPS\tXI1\tTIME")
			for _, run := range runs {
				xi1 := "-"
				if run.Crossed {
					xi1 = num(run.XI1)
				}
				fmt.Fprintf(w, "%s\t%g\t%g\t%s\t%s\t%s\t%s\n",
					run.ID, run.N, run.H, run.Backend, steps(run.Steps), xi1,
					run.Timestamp.Local().Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func newAnalyticCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "analytic",
		Short: "compare the integrator against the closed forms for n = 0 and n = 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, "")
			if err != nil {
				return err
			}
			sc, err := cfg.SolverConfig()
			if err != nil {
				return err
			}
			exact, err := analysis.AnalyticSurface(sc.N)
			if err != nil {
				return err
			}
			exactRatio, err := analysis.AnalyticDensityRatio(sc.N)
			if err != nil {
				return err
			}

			star, err := analysis.Solve(sc)
			if err != nil {
				return err
			}
			traj := star.Trajectory()
			y, _, err := analysis.AnalyticSolution(traj.X, sc.N)
			if err != nil {
				return err
			}
			maxErr := 0.0
			for i := range y {
				maxErr = math.Max(maxErr, math.Abs(traj.Y[i]-y[i]))
			}

			out := cmd.OutOrStdout()
			printTitle(out, "n=%g against the closed form (h=%g)", sc.N, sc.H)
			printField(out, "steps", steps(traj.Iterations))
			printField(out, "max |dy|", num(maxErr))
			printField(out, "xi_1 error", num(star.XI1()-exact.XI1))
			printField(out, "theta' error", num(star.ThetaPrime()-exact.ThetaPrime))
			printField(out, "rho ratio error", num(star.DensityRatio()-exactRatio))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newCompareCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "compare [backend...]",
		Short: "run the same polytrope with several steppers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, "compare")
			if err != nil {
				return err
			}
			base, err := cfg.SolverConfig()
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = []string{integrators.Fast.String(), integrators.Reference.String()}
			}

			out := cmd.OutOrStdout()
			printTitle(out, "n=%g h=%g x_init=%g", base.N, base.H, base.XInit)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BACKEND\tSTEPS\tXI1\tTHETA'\tRHO_C/<RHO>\tTIME")
			for _, name := range names {
				b, err := integrators.ParseBackend(name)
				if err != nil {
					return err
				}
				sc := base
				sc.Backend = b
				traj, elapsed, err := integrate(sc)
				if err != nil {
					fmt.Fprintf(w, "%s\terror: %v\n", b, err)
					continue
				}
				sum, err := analysis.Summarize(traj)
				if err != nil {
					fmt.Fprintf(w, "%s\terror: %v\n", b, err)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", b, steps(sum.Steps),
					num(sum.XI1), num(sum.ThetaPrime), num(sum.DensityRatio), elapsed.Round(time.Millisecond))
			}
			return w.Flush()
		},
	}
	f.register(cmd)
	return cmd
}

func stdoutOr(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}
