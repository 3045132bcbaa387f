// Package config loads and saves scenario configuration. A Config is
// glue around the solver: solver parameters are re-validated by
// fluid.New, everything else governs the loop and the interaction feel.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quentik/flowlab/internal/brush"
	"github.com/quentik/flowlab/internal/fluid"
)

const (
	DefaultN          = 64
	DefaultDiffusion  = 0.0001
	DefaultViscosity  = 0.0001
	DefaultDt         = 0.1
	DefaultTicks      = 300
	DefaultIterations = 4
	DefaultFade       = 0.005
)

type Config struct {
	N          int     `yaml:"n"`
	Diffusion  float64 `yaml:"diffusion"`
	Viscosity  float64 `yaml:"viscosity"`
	Dt         float64 `yaml:"dt"`
	Ticks      int     `yaml:"ticks"`
	Iterations int     `yaml:"iterations"`
	Fade       float64 `yaml:"fade"`
	Seed       int64   `yaml:"seed"`

	Emitter    EmitterConfig    `yaml:"emitter"`
	Turbulence TurbulenceConfig `yaml:"turbulence"`
	Brush      brush.Config     `yaml:"brush"`
}

type EmitterConfig struct {
	Enabled bool    `yaml:"enabled"`
	X       int     `yaml:"x"`
	Y       int     `yaml:"y"`
	Amount  float64 `yaml:"amount"`
	Vx      float64 `yaml:"vx"`
	Vy      float64 `yaml:"vy"`
}

type TurbulenceConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Strength float64 `yaml:"strength"`
	Scale    float64 `yaml:"scale"`
}

func DefaultConfig() *Config {
	return &Config{
		N:          DefaultN,
		Diffusion:  DefaultDiffusion,
		Viscosity:  DefaultViscosity,
		Dt:         DefaultDt,
		Ticks:      DefaultTicks,
		Iterations: DefaultIterations,
		Fade:       DefaultFade,
		Emitter: EmitterConfig{
			Enabled: true,
			X:       DefaultN / 2,
			Y:       DefaultN - 4,
			Amount:  80,
			Vy:      -2,
		},
		Turbulence: TurbulenceConfig{
			Strength: 0.4,
			Scale:    0.15,
		},
		Brush: brush.DefaultConfig(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SolverParams maps the config onto the solver's construction
// parameters; fluid.New performs the actual validation.
func (c *Config) SolverParams() fluid.Params {
	return fluid.Params{N: c.N, Diffusion: c.Diffusion, Viscosity: c.Viscosity, Dt: c.Dt}
}
