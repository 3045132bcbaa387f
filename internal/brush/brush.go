// Package brush translates pointer-style gestures into solver
// injections. The feel of the interaction (radius, deposit, force
// response) is configuration, not a solver invariant, so everything
// tunable lives in [Config].
package brush

import (
	"math"

	"github.com/quentik/flowlab/internal/fluid"
)

// Config holds the user-feel tunables for one brush.
type Config struct {
	Radius     int     `yaml:"radius"`      // disc radius in cells
	Deposit    float64 `yaml:"deposit"`     // density added per covered cell per stroke
	ForceScale float64 `yaml:"force_scale"` // multiplier from gesture delta to velocity
	MaxForce   float64 `yaml:"max_force"`   // per-component velocity clamp, 0 disables
}

// DefaultConfig matches a medium smoke brush on a 64-cell grid.
func DefaultConfig() Config {
	return Config{
		Radius:     2,
		Deposit:    60,
		ForceScale: 0.2,
		MaxForce:   8,
	}
}

// Brush deposits density and momentum over a disc of cells.
type Brush struct {
	cfg Config
}

func New(cfg Config) *Brush {
	if cfg.Radius < 0 {
		cfg.Radius = 0
	}
	return &Brush{cfg: cfg}
}

func (b *Brush) Config() Config { return b.cfg }

// Stroke applies one gesture sample at (x, y) with motion delta
// (dx, dy). Density lands on every cell of the disc; the scaled and
// clamped force lands with it. Out-of-range centers are fine: the
// solver saturates coordinates.
func (b *Brush) Stroke(s *fluid.Solver, x, y int, dx, dy float64) {
	fx := clampForce(dx*b.cfg.ForceScale, b.cfg.MaxForce)
	fy := clampForce(dy*b.cfg.ForceScale, b.cfg.MaxForce)

	r := b.cfg.Radius
	for oy := -r; oy <= r; oy++ {
		for ox := -r; ox <= r; ox++ {
			if ox*ox+oy*oy > r*r {
				continue
			}
			s.AddDensity(x+ox, y+oy, b.cfg.Deposit)
			s.AddVelocity(x+ox, y+oy, fx, fy)
		}
	}
}

func clampForce(v, max float64) float64 {
	if max <= 0 {
		return v
	}
	return math.Max(-max, math.Min(max, v))
}
