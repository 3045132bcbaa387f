package config

import "sort"

var Presets = map[string]*Config{
	// A single steady smoke column rising through still air.
	"plume": {
		N: 64, Diffusion: 0.0001, Viscosity: 0.0001, Dt: 0.1,
		Ticks: 400, Iterations: 4, Fade: 0.004,
		Emitter: EmitterConfig{Enabled: true, X: 32, Y: 60, Amount: 90, Vy: -2.5},
	},
	// Thick ink in honey: heavy diffusion, no wind, slow fade.
	"inkdrop": {
		N: 48, Diffusion: 0.002, Viscosity: 0.001, Dt: 0.1,
		Ticks: 300, Iterations: 8, Fade: 0.001,
		Emitter: EmitterConfig{Enabled: true, X: 24, Y: 24, Amount: 150},
	},
	// Gusty box: the emitter fights an evolving noise wind.
	"storm": {
		N: 64, Diffusion: 0.0001, Viscosity: 0, Dt: 0.1,
		Ticks: 500, Iterations: 4, Fade: 0.006,
		Emitter:    EmitterConfig{Enabled: true, X: 32, Y: 58, Amount: 70, Vy: -1.5},
		Turbulence: TurbulenceConfig{Enabled: true, Strength: 0.8, Scale: 0.12},
	},
	// Nothing injected: useful for checking the zero fixed point.
	"calm": {
		N: 32, Diffusion: 0.0001, Viscosity: 0.0001, Dt: 0.1,
		Ticks: 100, Iterations: 4, Fade: 0,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
