// Package source provides scripted impulse generators for headless
// runs, standing in for the interactive brush.
package source

import (
	"github.com/aquilax/go-perlin"

	"github.com/quentik/flowlab/internal/fluid"
)

// Source mutates the solver fields before a tick runs.
type Source interface {
	Apply(s *fluid.Solver, tick int)
}

// Emitter is a steady plume: a fixed density deposit with a constant
// velocity bias, the classic smoke-column setup.
type Emitter struct {
	X, Y   int
	Amount float64
	Vx, Vy float64
}

func (e *Emitter) Apply(s *fluid.Solver, _ int) {
	s.AddDensity(e.X, e.Y, e.Amount)
	s.AddVelocity(e.X, e.Y, e.Vx, e.Vy)
}

// Turbulence adds a coherent-noise wind over the whole interior. The
// noise field drifts with the tick counter so the wind evolves instead
// of freezing into a static bias.
type Turbulence struct {
	Strength float64
	Scale    float64

	noise *perlin.Perlin
}

func NewTurbulence(seed int64, strength, scale float64) *Turbulence {
	return &Turbulence{
		Strength: strength,
		Scale:    scale,
		noise:    perlin.NewPerlin(2, 2, 3, seed),
	}
}

func (t *Turbulence) Apply(s *fluid.Solver, tick int) {
	if t.Strength == 0 {
		return
	}
	n := s.N()
	z := float64(tick) * 0.05
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			x := float64(i) * t.Scale
			y := float64(j) * t.Scale
			dx := t.noise.Noise3D(x, y, z)
			dy := t.noise.Noise3D(x+131.7, y+87.3, z)
			s.AddVelocity(i, j, dx*t.Strength, dy*t.Strength)
		}
	}
}
