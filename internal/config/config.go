package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/integrators"
	"github.com/san-kum/polytrope/internal/solver"
)

const (
	DefaultXInit   = 1e-8
	DefaultIndex   = 1.5
	DefaultStep    = 1e-4
	DefaultMaxIter = 1_000_000
	DefaultPoints  = 100
	DefaultMass    = 1.0
	DefaultRadius  = 1.0
)

// Config is a run file. YAML and TOML are both accepted, chosen by extension.
type Config struct {
	Name    string  `yaml:"name,omitempty" toml:"name,omitempty"`
	Index   float64 `yaml:"n" toml:"n"`
	Step    float64 `yaml:"h" toml:"h"`
	XInit   float64 `yaml:"x_init" toml:"x_init"`
	MaxIter int     `yaml:"max_iter" toml:"max_iter"`
	Backend string  `yaml:"backend" toml:"backend"`
	Workers int     `yaml:"workers,omitempty" toml:"workers,omitempty"`

	Sweep      SweepConfig      `yaml:"sweep,omitempty" toml:"sweep,omitempty"`
	Profile    ProfileConfig    `yaml:"profile" toml:"profile"`
	Resolution ResolutionConfig `yaml:"resolution,omitempty" toml:"resolution,omitempty"`
}

// SweepConfig selects the indices of a batch run. Explicit Values win over
// an evenly spaced From..To grid.
type SweepConfig struct {
	From   float64   `yaml:"from,omitempty" toml:"from,omitempty"`
	To     float64   `yaml:"to,omitempty" toml:"to,omitempty"`
	Count  int       `yaml:"count,omitempty" toml:"count,omitempty"`
	Values []float64 `yaml:"values,omitempty" toml:"values,omitempty"`
}

type ProfileConfig struct {
	Points int     `yaml:"points" toml:"points"`
	Mass   float64 `yaml:"mass" toml:"mass"`
	Radius float64 `yaml:"radius" toml:"radius"`
}

// ResolutionConfig is a log-spaced range of step sizes.
type ResolutionConfig struct {
	HMin  float64 `yaml:"h_min,omitempty" toml:"h_min,omitempty"`
	HMax  float64 `yaml:"h_max,omitempty" toml:"h_max,omitempty"`
	Count int     `yaml:"count,omitempty" toml:"count,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Index:   DefaultIndex,
		Step:    DefaultStep,
		XInit:   DefaultXInit,
		MaxIter: DefaultMaxIter,
		Backend: integrators.Fast.String(),
		Profile: ProfileConfig{
			Points: DefaultPoints,
			Mass:   DefaultMass,
			Radius: DefaultRadius,
		},
	}
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	}
	return 0, fmt.Errorf("config %s: unsupported extension (want .yaml, .yml or .toml)", path)
}

// Load reads a run file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Merge(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge decodes a run file over cfg. Keys absent from the file keep the
// values already in cfg.
func Merge(path string, cfg *Config) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch f {
	case formatTOML:
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatTOML:
		data, err = toml.Marshal(cfg)
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the solver parameters and the batch settings.
func (c *Config) Validate() error {
	sc, err := c.SolverConfig()
	if err != nil {
		return err
	}
	if err := sc.Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", emden.ErrParameterBounds, c.Workers)
	}
	if c.Profile.Points < 0 {
		return fmt.Errorf("%w: profile points must not be negative, got %d", emden.ErrParameterBounds, c.Profile.Points)
	}
	if c.Profile.Mass <= 0 || c.Profile.Radius <= 0 {
		return fmt.Errorf("%w: profile mass and radius must be positive", emden.ErrParameterBounds)
	}
	if c.Sweep.Count < 0 {
		return fmt.Errorf("%w: sweep count must not be negative, got %d", emden.ErrParameterBounds, c.Sweep.Count)
	}
	if c.Resolution.Count > 0 && (c.Resolution.HMin <= 0 || c.Resolution.HMax < c.Resolution.HMin) {
		return fmt.Errorf("%w: resolution needs 0 < h_min <= h_max", emden.ErrParameterBounds)
	}
	return nil
}

// SolverConfig converts the run file into the solver's parameters.
func (c *Config) SolverConfig() (solver.Config, error) {
	b, err := integrators.ParseBackend(c.Backend)
	if err != nil {
		return solver.Config{}, err
	}
	return solver.Config{
		XInit:   c.XInit,
		N:       c.Index,
		H:       c.Step,
		MaxIter: c.MaxIter,
		Backend: b,
	}, nil
}

// Indices returns the sweep grid, or the single index when no sweep is set.
func (c *Config) Indices() []float64 {
	switch {
	case len(c.Sweep.Values) > 0:
		return append([]float64(nil), c.Sweep.Values...)
	case c.Sweep.Count == 1:
		return []float64{c.Sweep.From}
	case c.Sweep.Count > 1:
		return floats.Span(make([]float64, c.Sweep.Count), c.Sweep.From, c.Sweep.To)
	}
	return []float64{c.Index}
}

// Steps returns the log-spaced step sizes of a resolution study, or the
// single step when none is set.
func (c *Config) Steps() []float64 {
	r := c.Resolution
	switch {
	case r.Count == 1:
		return []float64{r.HMin}
	case r.Count > 1:
		return floats.LogSpan(make([]float64, r.Count), r.HMin, r.HMax)
	}
	return []float64{c.Step}
}
