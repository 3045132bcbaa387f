package fluid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every construction failure.
var ErrInvalidConfig = errors.New("invalid solver configuration")

// Params are the construction-time solver parameters. They are
// validated once in New; nothing re-checks them on the hot path.
type Params struct {
	N         int     // interior cells per axis
	Diffusion float64 // density diffusion rate
	Viscosity float64 // velocity diffusion rate
	Dt        float64 // fixed time step per tick
}

// Tick carries the per-tick parameters. Callers are responsible for
// sane values (Iterations ≥ 0, Fade in [0,1]); Step does not validate.
type Tick struct {
	Iterations int     // relaxation sweeps per linear solve
	Fade       float64 // density fraction removed per tick, 0 disables
}

// Solver holds the six field buffers for one simulation instance.
// Buffers are allocated once and mutated in place; independent solvers
// share nothing.
type Solver struct {
	n    int
	dt   float64
	diff float64
	visc float64

	density field // smoke amount, non-negative
	s       field // density work buffer

	vx, vy   field // velocity components
	vx0, vy0 field // velocity work buffers
}

// New allocates a zeroed solver. It fails with an error wrapping
// [ErrInvalidConfig] when the grid size is not positive or any rate is
// negative or non-finite.
func New(p Params) (*Solver, error) {
	if p.N <= 0 {
		return nil, fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidConfig, p.N)
	}
	for _, c := range []struct {
		name string
		val  float64
	}{
		{"diffusion", p.Diffusion},
		{"viscosity", p.Viscosity},
		{"dt", p.Dt},
	} {
		if c.val < 0 || math.IsNaN(c.val) || math.IsInf(c.val, 0) {
			return nil, fmt.Errorf("%w: %s must be finite and non-negative, got %v", ErrInvalidConfig, c.name, c.val)
		}
	}

	size := (p.N + 2) * (p.N + 2)
	return &Solver{
		n:       p.N,
		dt:      p.Dt,
		diff:    p.Diffusion,
		visc:    p.Viscosity,
		density: make(field, size),
		s:       make(field, size),
		vx:      make(field, size),
		vy:      make(field, size),
		vx0:     make(field, size),
		vy0:     make(field, size),
	}, nil
}

// Step advances the simulation one tick. The stage order is
// load-bearing: velocity must be projected before it advects itself or
// density, and diffusion runs implicitly before the explicit advection.
func (s *Solver) Step(t Tick) {
	it := t.Iterations

	s.diffuse(BoundVelX, s.vx0, s.vx, s.visc, it)
	s.diffuse(BoundVelY, s.vy0, s.vy, s.visc, it)

	s.project(s.vx0, s.vy0, s.vx, s.vy, it)

	s.advect(BoundVelX, s.vx, s.vx0, s.vx0, s.vy0)
	s.advect(BoundVelY, s.vy, s.vy0, s.vx0, s.vy0)

	// Advection reintroduces divergence; project again.
	s.project(s.vx, s.vy, s.vx0, s.vy0, it)

	s.diffuse(BoundScalar, s.s, s.density, s.diff, it)
	s.advect(BoundScalar, s.density, s.s, s.vx, s.vy)

	s.dissipate(t.Fade)
}

// AddDensity deposits amount at (x, y). The amount is additive and
// unclamped; out-of-range coordinates saturate to the nearest cell.
func (s *Solver) AddDensity(x, y int, amount float64) {
	s.density[s.idx(x, y)] += amount
}

// AddVelocity adds a velocity delta at (x, y), same saturation rule.
func (s *Solver) AddVelocity(x, y int, dx, dy float64) {
	i := s.idx(x, y)
	s.vx[i] += dx
	s.vy[i] += dy
}

// Reset zero-fills every buffer without reallocating.
func (s *Solver) Reset() {
	s.density.zero()
	s.s.zero()
	s.vx.zero()
	s.vy.zero()
	s.vx0.zero()
	s.vy0.zero()
}

// N reports the interior grid dimension.
func (s *Solver) N() int { return s.n }

// Params echoes the validated construction parameters.
func (s *Solver) Params() Params {
	return Params{N: s.n, Diffusion: s.diff, Viscosity: s.visc, Dt: s.dt}
}

// Density exposes the live density buffer, length (N+2)², row-major
// with the ghost border included. Callers must treat it as read-only
// and only read between ticks.
func (s *Solver) Density() []float64 { return s.density }

// DensityAt reads one density cell through the saturating map.
func (s *Solver) DensityAt(x, y int) float64 { return s.at(s.density, x, y) }

// VelocityAt reads one velocity cell through the saturating map.
func (s *Solver) VelocityAt(x, y int) (vx, vy float64) {
	return s.at(s.vx, x, y), s.at(s.vy, x, y)
}
