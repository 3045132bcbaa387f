package fluid

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newSolver(p Params) *Solver {
	s, err := New(p)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func interiorMass(s *Solver) float64 {
	sum := 0.0
	for j := 1; j <= s.N(); j++ {
		for i := 1; i <= s.N(); i++ {
			sum += s.DensityAt(i, j)
		}
	}
	return sum
}

// swirl injects a non-trivial, divergent velocity pattern.
func swirl(s *Solver) {
	n := s.N()
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			s.AddVelocity(i, j, math.Sin(float64(3*i+j)), math.Cos(float64(i-2*j)))
		}
	}
}

var _ = Describe("Solver", func() {
	Describe("fixed point", func() {
		It("keeps all-zero fields exactly zero over many ticks", func() {
			s := newSolver(Params{N: 8, Diffusion: 0.001, Viscosity: 0.001, Dt: 0.1})
			for i := 0; i < 25; i++ {
				s.Step(Tick{Iterations: 4, Fade: 0})
			}
			for i, v := range s.Density() {
				Expect(v).To(BeZero(), "density[%d]", i)
			}
			for j := 0; j <= s.N()+1; j++ {
				for i := 0; i <= s.N()+1; i++ {
					vx, vy := s.VelocityAt(i, j)
					Expect(vx).To(BeZero())
					Expect(vy).To(BeZero())
				}
			}
		})
	})

	Describe("projection", func() {
		It("reduces mean absolute divergence", func() {
			s := newSolver(Params{N: 16, Dt: 0.1})
			swirl(s)

			before := meanAbsDivergence(s)
			s.project(s.vx, s.vy, s.vx0, s.vy0, 10)
			after := meanAbsDivergence(s)

			Expect(after).To(BeNumerically("<", before))
		})

		It("converges tighter as the iteration count grows", func() {
			residual := func(iters int) float64 {
				s := newSolver(Params{N: 16, Dt: 0.1})
				swirl(s)
				s.project(s.vx, s.vy, s.vx0, s.vy0, iters)
				return meanAbsDivergence(s)
			}

			r1, r5, r20 := residual(1), residual(5), residual(20)
			Expect(r5).To(BeNumerically("<", r1))
			Expect(r20).To(BeNumerically("<", r5))
		})
	})

	Describe("dissipation", func() {
		It("decays every cell monotonically when nothing moves", func() {
			s := newSolver(Params{N: 8, Diffusion: 0, Viscosity: 0, Dt: 0.1})
			s.AddDensity(3, 3, 40)
			s.AddDensity(5, 6, 7)

			prev := append([]float64(nil), s.Density()...)
			for tick := 0; tick < 10; tick++ {
				s.Step(Tick{Iterations: 1, Fade: 0.2})
				for i, v := range s.Density() {
					Expect(v).To(BeNumerically("<=", prev[i]), "tick %d cell %d", tick, i)
				}
				copy(prev, s.Density())
			}
		})

		It("drives density toward zero over repeated ticks", func() {
			s := newSolver(Params{N: 8, Diffusion: 0.0005, Viscosity: 0, Dt: 0.1})
			s.AddDensity(4, 4, 100)
			for tick := 0; tick < 60; tick++ {
				s.Step(Tick{Iterations: 4, Fade: 0.3})
			}
			Expect(interiorMass(s)).To(BeNumerically("<", 1e-6))
		})
	})

	Describe("mass under diffusion", func() {
		It("never increases with a closed boundary and zero fade", func() {
			s := newSolver(Params{N: 12, Diffusion: 0.002, Viscosity: 0, Dt: 0.1})
			s.AddDensity(6, 6, 100)

			prev := interiorMass(s)
			for tick := 0; tick < 20; tick++ {
				s.Step(Tick{Iterations: 8, Fade: 0})
				cur := interiorMass(s)
				Expect(cur).To(BeNumerically("<=", prev*(1+1e-9)), "tick %d", tick)
				prev = cur
			}
		})
	})
})
