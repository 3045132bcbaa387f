package fluid

// field is one scalar component stored flat on the padded grid,
// length (n+2)², row-major.
type field []float64

func (f field) zero() {
	for i := range f {
		f[i] = 0
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// idx maps any integer cell coordinate to an offset into a field.
// Both coordinates are saturated into [0, n+1] first, so the map is
// total: no input can address outside the allocated buffer.
func (s *Solver) idx(x, y int) int {
	x = clampInt(x, 0, s.n+1)
	y = clampInt(y, 0, s.n+1)
	return x + (s.n+2)*y
}

func (s *Solver) at(f field, x, y int) float64 { return f[s.idx(x, y)] }
