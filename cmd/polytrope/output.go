package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/polytrope/internal/analysis"
	"github.com/san-kum/polytrope/internal/config"
	"github.com/san-kum/polytrope/internal/export"
	"github.com/san-kum/polytrope/internal/storage"
)

func parseIndices(args []string) ([]float64, error) {
	ns := make([]float64, len(args))
	for i, a := range args {
		n, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %w", a, err)
		}
		ns[i] = n
	}
	return ns, nil
}

func newExportCSVCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			traj, err := storage.New(dataDir()).LoadTrajectory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w, closeFn, err := stdoutOr(out)
			if err != nil {
				return err
			}
			if err := export.WriteCSV(w, traj); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run and its trajectory as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			traj, err := storage.New(dataDir()).LoadTrajectory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			star, err := analysis.NewStar(traj)
			if err != nil {
				return err
			}
			w, closeFn, err := stdoutOr(out)
			if err != nil {
				return err
			}
			if err := export.WriteJSON(w, star); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newExportSVGCmd() *cobra.Command {
	var out, stroke string
	var width, height int
	var phase bool
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			traj, err := storage.New(dataDir()).LoadTrajectory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var pts []analysis.Point
			if phase {
				pts = analysis.NewPhasePortrait(traj, 2000).Points
			} else {
				step := max(1, traj.Len()/2000)
				for i := 0; i < traj.Len(); i += step {
					pts = append(pts, analysis.Point{X: traj.X[i], Y: traj.Y[i]})
				}
				if last := traj.Last(); pts[len(pts)-1].X != last.X {
					pts = append(pts, analysis.Point{X: last.X, Y: last.Y})
				}
			}

			svg := export.ProfileSVG(pts, width, height, stroke)
			if svg == "" {
				return fmt.Errorf("run %s has too few points to draw", args[0])
			}
			if out == "" {
				out = args[0] + ".svg"
			}
			if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
				return err
			}
			slog.Info("svg written", "path", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <run_id>.svg)")
	cmd.Flags().StringVar(&stroke, "stroke", "#1f77b4", "line colour")
	cmd.Flags().IntVar(&width, "width", 640, "image width")
	cmd.Flags().IntVar(&height, "height", 480, "image height")
	cmd.Flags().BoolVar(&phase, "phase", false, "draw the (y, z) phase portrait")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list the built-in parameter sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tN\tH\tX_INIT\tMAX_ITER\tMODELS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				models := len(p.Indices())
				if p.Resolution.Count > 0 {
					models = p.Resolution.Count
				}
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%s\t%d\n", name, indexRange(p), p.Step, p.XInit, steps(p.MaxIter), models)
			}
			return w.Flush()
		},
	}
}

func indexRange(c *config.Config) string {
	ns := c.Indices()
	if len(ns) == 1 {
		return strconv.FormatFloat(ns[0], 'g', -1, 64)
	}
	return fmt.Sprintf("%g..%g", ns[0], ns[len(ns)-1])
}
