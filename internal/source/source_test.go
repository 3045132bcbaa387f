package source

import (
	"testing"

	"github.com/quentik/flowlab/internal/fluid"
)

func newSolver(t *testing.T, n int) *fluid.Solver {
	t.Helper()
	s, err := fluid.New(fluid.Params{N: n, Dt: 0.1})
	if err != nil {
		t.Fatalf("fluid.New: %v", err)
	}
	return s
}

func TestEmitterDeposits(t *testing.T) {
	s := newSolver(t, 8)
	e := &Emitter{X: 4, Y: 6, Amount: 25, Vx: 0, Vy: -1.5}

	e.Apply(s, 0)
	e.Apply(s, 1)

	if got := s.DensityAt(4, 6); got != 50 {
		t.Errorf("density = %v, want 50 after two applications", got)
	}
	_, vy := s.VelocityAt(4, 6)
	if vy != -3 {
		t.Errorf("vy = %v, want -3", vy)
	}
}

func TestTurbulenceDeterministicPerSeed(t *testing.T) {
	a := newSolver(t, 8)
	b := newSolver(t, 8)

	NewTurbulence(42, 1.0, 0.3).Apply(a, 7)
	NewTurbulence(42, 1.0, 0.3).Apply(b, 7)

	for j := 1; j <= 8; j++ {
		for i := 1; i <= 8; i++ {
			avx, avy := a.VelocityAt(i, j)
			bvx, bvy := b.VelocityAt(i, j)
			if avx != bvx || avy != bvy {
				t.Fatalf("velocity mismatch at (%d,%d): (%v,%v) vs (%v,%v)", i, j, avx, avy, bvx, bvy)
			}
		}
	}
}

func TestTurbulenceZeroStrengthIsNoop(t *testing.T) {
	s := newSolver(t, 8)
	NewTurbulence(1, 0, 0.3).Apply(s, 0)

	for j := 0; j <= 9; j++ {
		for i := 0; i <= 9; i++ {
			vx, vy := s.VelocityAt(i, j)
			if vx != 0 || vy != 0 {
				t.Fatalf("expected zero velocity at (%d,%d), got (%v,%v)", i, j, vx, vy)
			}
		}
	}
}

func TestTurbulencePerturbsField(t *testing.T) {
	s := newSolver(t, 8)
	NewTurbulence(42, 2.0, 0.3).Apply(s, 0)

	moved := false
	for j := 1; j <= 8 && !moved; j++ {
		for i := 1; i <= 8; i++ {
			if vx, vy := s.VelocityAt(i, j); vx != 0 || vy != 0 {
				moved = true
				break
			}
		}
	}
	if !moved {
		t.Error("expected turbulence to perturb at least one cell")
	}
}
