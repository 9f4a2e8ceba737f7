package config

import "sort"

// Presets reproduce the parameter sets of the usual studies.
var Presets = map[string]*Config{
	"quick": {
		Name: "quick", Index: 1.5, Step: 0.01, XInit: 0.01, MaxIter: 1000, Backend: "fast",
		Profile: ProfileConfig{Points: 50, Mass: 1, Radius: 1},
	},
	"table": {
		Name: "table", Index: 0, Step: 1e-3, XInit: 1e-20, MaxIter: 100_000, Backend: "fast",
		Sweep:   SweepConfig{From: 0, To: 4, Count: 17},
		Profile: ProfileConfig{Points: 100, Mass: 1, Radius: 1},
	},
	"profiles": {
		Name: "profiles", Index: 0, Step: 1e-3, XInit: 1e-20, MaxIter: 100_000, Backend: "fast",
		Sweep:   SweepConfig{From: 0, To: 4, Count: 1000},
		Profile: ProfileConfig{Points: 100, Mass: 1, Radius: 1},
	},
	"resolution": {
		Name: "resolution", Index: 1, Step: 1e-3, XInit: 1e-8, MaxIter: 1_000_000, Backend: "fast",
		Profile:    ProfileConfig{Points: 100, Mass: 1, Radius: 1},
		Resolution: ResolutionConfig{HMin: 1e-4, HMax: 1e-1, Count: 40},
	},
	"compare": {
		Name: "compare", Index: 4, Step: 1e-6, XInit: 1e-8, MaxIter: 100_000_000, Backend: "fast",
		Profile: ProfileConfig{Points: 100, Mass: 1, Radius: 1},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Sweep.Values = append([]float64(nil), p.Sweep.Values...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
