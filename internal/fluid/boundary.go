package fluid

// Boundary selects how the ghost border mirrors the interior.
type Boundary int

const (
	// BoundScalar copies the interior neighbor unchanged on every edge.
	BoundScalar Boundary = iota
	// BoundVelX negates the neighbor on the left/right edges so the
	// horizontal component cannot penetrate the vertical walls.
	BoundVelX
	// BoundVelY negates the neighbor on the top/bottom edges.
	BoundVelY
)

// setBounds rewrites the ghost border of f from its interior neighbors.
// Border cells are derived state; this runs after every relaxation and
// advection sweep, otherwise the walls leak and the field destabilizes.
func (s *Solver) setBounds(b Boundary, f field) {
	n := s.n
	for i := 1; i <= n; i++ {
		if b == BoundVelY {
			f[s.idx(i, 0)] = -f[s.idx(i, 1)]
			f[s.idx(i, n+1)] = -f[s.idx(i, n)]
		} else {
			f[s.idx(i, 0)] = f[s.idx(i, 1)]
			f[s.idx(i, n+1)] = f[s.idx(i, n)]
		}
		if b == BoundVelX {
			f[s.idx(0, i)] = -f[s.idx(1, i)]
			f[s.idx(n+1, i)] = -f[s.idx(n, i)]
		} else {
			f[s.idx(0, i)] = f[s.idx(1, i)]
			f[s.idx(n+1, i)] = f[s.idx(n, i)]
		}
	}

	// Corners average their two edge neighbors.
	f[s.idx(0, 0)] = 0.5 * (f[s.idx(1, 0)] + f[s.idx(0, 1)])
	f[s.idx(0, n+1)] = 0.5 * (f[s.idx(1, n+1)] + f[s.idx(0, n)])
	f[s.idx(n+1, 0)] = 0.5 * (f[s.idx(n, 0)] + f[s.idx(n+1, 1)])
	f[s.idx(n+1, n+1)] = 0.5 * (f[s.idx(n, n+1)] + f[s.idx(n+1, n)])
}
