package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/polytrope/internal/config"
)

// runFlags are the solver parameters shared by every command that solves.
type runFlags struct {
	n          float64
	h          float64
	xInit      float64
	maxIter    int
	backend    string
	workers    int
	configFile string
	preset     string
}

func (f *runFlags) register(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().Float64Var(&f.n, "n", d.Index, "polytropic index, 0 <= n < 5")
	cmd.Flags().Float64Var(&f.h, "h", d.Step, "step size")
	cmd.Flags().Float64Var(&f.xInit, "x-init", d.XInit, "starting radius")
	cmd.Flags().IntVar(&f.maxIter, "max-iter", d.MaxIter, "step limit")
	cmd.Flags().StringVar(&f.backend, "backend", d.Backend, "stepper: fast, reference or euler")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel runs (default GOMAXPROCS)")
	cmd.Flags().StringVar(&f.configFile, "config", "", "run file (.yaml or .toml)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "start from a preset (see 'polytrope presets')")
}

// resolve builds the run configuration: preset, then config file, then any
// flag set explicitly on the command line.
func (f *runFlags) resolve(cmd *cobra.Command, fallbackPreset string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := f.preset
	if name == "" && f.configFile == "" {
		name = fallbackPreset
	}
	if name != "" {
		p := config.GetPreset(name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		cfg = p
	}

	if f.configFile != "" {
		if err := config.Merge(f.configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.Index = f.n
		cfg.Sweep = config.SweepConfig{}
	}
	if flags.Changed("h") {
		cfg.Step = f.h
	}
	if flags.Changed("x-init") {
		cfg.XInit = f.xInit
	}
	if flags.Changed("max-iter") {
		cfg.MaxIter = f.maxIter
	}
	if flags.Changed("backend") {
		cfg.Backend = f.backend
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
