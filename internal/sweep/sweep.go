// Package sweep runs scripted parameter sweeps: the same scenario
// repeated across an evenly spaced range of one solver parameter, with
// the final metrics collected per value.
package sweep

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quentik/flowlab/internal/config"
	"github.com/quentik/flowlab/internal/sim"
)

// Spec is a declarative sweep loaded from YAML.
type Spec struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Param       string  `yaml:"param"`
	Min         float64 `yaml:"min"`
	Max         float64 `yaml:"max"`
	Steps       int     `yaml:"steps"`
	Ticks       int     `yaml:"ticks"`
}

// Point is the outcome at one parameter value.
type Point struct {
	Value   float64
	Metrics map[string]float64
}

func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sp Spec
	if err := yaml.Unmarshal(data, &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

// Values returns the evenly spaced parameter values of the sweep.
func (sp *Spec) Values() []float64 {
	vals := make([]float64, sp.Steps)
	step := (sp.Max - sp.Min) / float64(sp.Steps-1)
	for i := range vals {
		vals[i] = sp.Min + float64(i)*step
	}
	return vals
}

func (sp *Spec) validate() error {
	if sp.Steps < 2 {
		return fmt.Errorf("sweep needs at least 2 steps, got %d", sp.Steps)
	}
	switch sp.Param {
	case "diffusion", "viscosity", "dt":
		return nil
	default:
		return fmt.Errorf("cannot sweep parameter %q (want diffusion, viscosity, or dt)", sp.Param)
	}
}

func (sp *Spec) baseConfig() (*config.Config, error) {
	if sp.Preset == "" {
		return config.DefaultConfig(), nil
	}
	p := config.GetPreset(sp.Preset)
	if p == nil {
		return nil, fmt.Errorf("unknown preset: %s", sp.Preset)
	}
	c := *p
	return &c, nil
}

func (sp *Spec) apply(cfg *config.Config, v float64) {
	switch sp.Param {
	case "diffusion":
		cfg.Diffusion = v
	case "viscosity":
		cfg.Viscosity = v
	case "dt":
		cfg.Dt = v
	}
}

// Run executes the sweep as an ensemble, one independent runner per
// parameter value. The caller supplies the runner assembly so sources
// and metrics match its scenario wiring. Points come back in parameter
// order.
func Run(ctx context.Context, sp *Spec, build func(cfg *config.Config) (*sim.Runner, error)) ([]Point, error) {
	if err := sp.validate(); err != nil {
		return nil, err
	}

	base, err := sp.baseConfig()
	if err != nil {
		return nil, err
	}
	if sp.Ticks > 0 {
		base.Ticks = sp.Ticks
	}

	vals := sp.Values()
	ens := sim.NewEnsemble(len(vals), func(run int) (*sim.Runner, error) {
		cfg := *base
		sp.apply(&cfg, vals[run])
		return build(&cfg)
	})

	results, err := ens.Run(ctx, sim.Config{
		Ticks:      base.Ticks,
		Iterations: base.Iterations,
		Fade:       base.Fade,
	})
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(results))
	for i, res := range results {
		points[i] = Point{Value: vals[i], Metrics: res.Metrics}
	}
	return points, nil
}
