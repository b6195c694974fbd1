package config

import "sort"

// Presets are graph settings grouped by the function they start on.
var Presets = map[string]map[string]GraphConfig{
	"wave": {
		"calm": {
			Resolution: 20, Function: "wave", Mode: "cycle",
			FunctionDuration: 4, TransitionDuration: 2,
		},
		"fine": {
			Resolution: 100, Function: "wave", Mode: "cycle",
			FunctionDuration: 2, TransitionDuration: 1,
		},
	},
	"multiwave": {
		"shuffle": {
			Resolution: 50, Function: "multiwave", Mode: "random",
			FunctionDuration: 1.5, TransitionDuration: 1,
		},
	},
	"ripple": {
		"pond": {
			Resolution: 60, Function: "ripple", Mode: "cycle",
			FunctionDuration: 5, TransitionDuration: 2,
		},
		"storm": {
			Resolution: 40, Function: "ripple", Mode: "random",
			FunctionDuration: 0.5, TransitionDuration: 0.25,
		},
	},
	"sphere": {
		"showcase": {
			Resolution: 80, Function: "sphere", Mode: "cycle",
			FunctionDuration: 3, TransitionDuration: 1.5,
		},
		"snap": {
			Resolution: 30, Function: "sphere", Mode: "cycle",
			FunctionDuration: 1, TransitionDuration: 0,
		},
	},
	"torus": {
		"dense": {
			Resolution: 200, Function: "torus", Mode: "random",
			FunctionDuration: 2, TransitionDuration: 1,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(function, preset string) *GraphConfig {
	functionPresets, ok := Presets[function]
	if !ok {
		return nil
	}
	cfg, ok := functionPresets[preset]
	if !ok {
		return nil
	}
	return &cfg
}

func ListPresets(function string) []string {
	functionPresets, ok := Presets[function]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(functionPresets))
	for name := range functionPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset copies the preset's graph settings, keeping dt, frames and seed.
func (c *Config) ApplyPreset(p GraphConfig) {
	dt, frames, seed := c.Graph.Dt, c.Graph.Frames, c.Graph.Seed
	c.Graph = p
	c.Graph.Dt, c.Graph.Frames, c.Graph.Seed = dt, frames, seed
}
