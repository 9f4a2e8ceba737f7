package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultDataDir = ".polytrope"

// main registers every command and runs the root command under a context
// that is cancelled on interrupt. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "polytrope",
		Short:         "Lane-Emden polytrope solver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(viper.GetBool("verbose"))
		},
	}

	rootCmd.PersistentFlags().String("data", defaultDataDir, "run storage directory or afs URL")
	rootCmd.PersistentFlags().String("catalog", "", "sweep catalog database (default <data>/catalog.db)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	for _, name := range []string{"data", "catalog", "verbose"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	viper.SetEnvPrefix("POLYTROPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		newSolveCmd(),
		newShowCmd(),
		newListCmd(),
		newAnalyticCmd(),
		newCompareCmd(),
		newTableCmd(),
		newSweepCmd(),
		newProfileCmd(),
		newResolutionCmd(),
		newCatalogCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newExportSVGCmd(),
		newPresetsCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func dataDir() string {
	return viper.GetString("data")
}

func catalogPath() string {
	if p := viper.GetString("catalog"); p != "" {
		return p
	}
	return filepath.Join(dataDir(), "catalog.db")
}
