package fluid

import "math"

// linSolve relaxes (I - a·L)x = x0 with Gauss-Seidel sweeps over the
// interior, L being the 4-neighbor Laplacian. The caller supplies c
// consistent with its equation (1+6a for diffusion, 6 for pressure).
// Each full sweep costs O(n²) and ends with a boundary pass.
func (s *Solver) linSolve(b Boundary, x, x0 field, a, c float64, iters int) {
	invC := 1.0 / c
	for k := 0; k < iters; k++ {
		for j := 1; j <= s.n; j++ {
			for i := 1; i <= s.n; i++ {
				x[s.idx(i, j)] = (x0[s.idx(i, j)] +
					a*(x[s.idx(i+1, j)]+x[s.idx(i-1, j)]+
						x[s.idx(i, j+1)]+x[s.idx(i, j-1)])) * invC
			}
		}
		s.setBounds(b, x)
	}
}

// diffuse solves the implicit diffusion system for one field, writing
// the smoothed result into x from the previous-step values in x0.
// Zero sweeps degrade to a plain copy, so the rest of the pipeline
// still reads fresh values.
func (s *Solver) diffuse(b Boundary, x, x0 field, rate float64, iters int) {
	if iters <= 0 {
		copy(x, x0)
		s.setBounds(b, x)
		return
	}
	a := s.dt * rate * float64(s.n-2) * float64(s.n-2)
	s.linSolve(b, x, x0, a, 1+6*a, iters)
}

// project removes the divergent component of (vx, vy): compute the
// discrete divergence, solve the pressure Poisson equation, then
// subtract the pressure gradient. p and div are scratch fields. The
// residual divergence shrinks with iters but never reaches zero.
func (s *Solver) project(vx, vy, p, div field, iters int) {
	n := s.n
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			div[s.idx(i, j)] = -0.5 * (vx[s.idx(i+1, j)] - vx[s.idx(i-1, j)] +
				vy[s.idx(i, j+1)] - vy[s.idx(i, j-1)]) / float64(n)
			p[s.idx(i, j)] = 0
		}
	}
	s.setBounds(BoundScalar, div)
	s.setBounds(BoundScalar, p)

	s.linSolve(BoundScalar, p, div, 1, 6, iters)

	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			vx[s.idx(i, j)] -= 0.5 * float64(n) * (p[s.idx(i+1, j)] - p[s.idx(i-1, j)])
			vy[s.idx(i, j)] -= 0.5 * float64(n) * (p[s.idx(i, j+1)] - p[s.idx(i, j-1)])
		}
	}
	s.setBounds(BoundVelX, vx)
	s.setBounds(BoundVelY, vy)
}

// advect transports d0 along (vx, vy) into d: each interior cell traces
// backward to its source position and resamples it bilinearly. The
// source field is always the previous-step buffer, never the one being
// written.
func (s *Solver) advect(b Boundary, d, d0, vx, vy field) {
	n := s.n
	dt0 := s.dt * float64(n-2)

	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			x := float64(i) - dt0*vx[s.idx(i, j)]
			y := float64(j) - dt0*vy[s.idx(i, j)]

			// Keep the sample inside the valid interpolation range.
			if x < 0.5 {
				x = 0.5
			}
			if x > float64(n)+0.5 {
				x = float64(n) + 0.5
			}
			if y < 0.5 {
				y = 0.5
			}
			if y > float64(n)+0.5 {
				y = float64(n) + 0.5
			}

			i0 := int(math.Floor(x))
			i1 := i0 + 1
			j0 := int(math.Floor(y))
			j1 := j0 + 1

			s1 := x - float64(i0)
			s0 := 1 - s1
			t1 := y - float64(j0)
			t0 := 1 - t1

			d[s.idx(i, j)] = s0*(t0*d0[s.idx(i0, j0)]+t1*d0[s.idx(i0, j1)]) +
				s1*(t0*d0[s.idx(i1, j0)]+t1*d0[s.idx(i1, j1)])
		}
	}
	s.setBounds(b, d)
}

// dissipate applies uniform multiplicative decay to density, floored
// at zero. A rate of 0 is a no-op.
func (s *Solver) dissipate(rate float64) {
	if rate <= 0 {
		return
	}
	keep := 1 - rate
	for i, v := range s.density {
		v *= keep
		if v < 0 {
			v = 0
		}
		s.density[i] = v
	}
}
