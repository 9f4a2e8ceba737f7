package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/polytrope/internal/emden"
	"github.com/san-kum/polytrope/internal/integrators"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	sc, err := cfg.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultIndex, sc.N)
	assert.Equal(t, DefaultStep, sc.H)
	assert.Equal(t, integrators.Fast, sc.Backend)
	assert.Equal(t, []float64{DefaultIndex}, cfg.Indices())
	assert.Equal(t, []float64{DefaultStep}, cfg.Steps())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"index too large", func(c *Config) { c.Index = 5 }},
		{"negative step", func(c *Config) { c.Step = -1e-3 }},
		{"zero x_init", func(c *Config) { c.XInit = 0 }},
		{"zero max_iter", func(c *Config) { c.MaxIter = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"zero mass", func(c *Config) { c.Profile.Mass = 0 }},
		{"inverted resolution", func(c *Config) { c.Resolution = ResolutionConfig{HMin: 1e-1, HMax: 1e-3, Count: 3} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			require.ErrorIs(t, cfg.Validate(), emden.ErrParameterBounds)
		})
	}

	cfg := DefaultConfig()
	cfg.Backend = "leapfrog"
	assert.Error(t, cfg.Validate())
}

func TestIndices(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sweep = SweepConfig{From: 0, To: 4, Count: 17}
	ns := cfg.Indices()
	require.Len(t, ns, 17)
	assert.Equal(t, 0.0, ns[0])
	assert.InDelta(t, 0.25, ns[1], 1e-15)
	assert.Equal(t, 4.0, ns[16])

	cfg.Sweep.Values = []float64{1, 3}
	assert.Equal(t, []float64{1, 3}, cfg.Indices())
}

func TestSteps(t *testing.T) {
	cfg := GetPreset("resolution")
	require.NotNil(t, cfg)
	hs := cfg.Steps()
	require.Len(t, hs, 40)
	assert.InEpsilon(t, 1e-4, hs[0], 1e-12)
	assert.InEpsilon(t, 1e-1, hs[39], 1e-12)
}

func TestLoadSave(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "run"+ext)
			want := GetPreset("table")
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want.Index, got.Index)
			assert.Equal(t, want.Step, got.Step)
			assert.Equal(t, want.XInit, got.XInit)
			assert.Equal(t, want.MaxIter, got.MaxIter)
			assert.Equal(t, want.Sweep.Count, got.Sweep.Count)
			assert.Equal(t, want.Indices(), got.Indices())
		})
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte("n = 3.0\nbackend = \"rk4\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Index)
	assert.Equal(t, DefaultStep, cfg.Step)

	sc, err := cfg.SolverConfig()
	require.NoError(t, err)
	assert.Equal(t, integrators.Reference, sc.Backend)
}

func TestMerge_OverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("h: 0.002\n"), 0644))

	cfg := GetPreset("table")
	require.NoError(t, Merge(path, cfg))
	assert.Equal(t, 0.002, cfg.Step)
	assert.Equal(t, 1e-20, cfg.XInit)
	assert.Equal(t, 17, cfg.Sweep.Count)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "run.json"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("n: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("quick")
	require.NotNil(t, cfg)
	assert.Equal(t, 0.01, cfg.Step)
	require.NoError(t, cfg.Validate())

	cfg.Step = 1
	assert.Equal(t, 0.01, Presets["quick"].Step)

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"compare", "profiles", "quick", "resolution", "table"}, ListPresets())
	for _, name := range ListPresets() {
		assert.NoError(t, GetPreset(name).Validate(), name)
	}
}
