package viz

import "github.com/quentik/flowlab/internal/fluid"

// ramp orders characters by apparent brightness for coarse shading.
const ramp = " .:-=+*#%@"

// Shade maps a density value onto the ASCII luminance ramp, saturating
// at max. max must be positive.
func Shade(v, max float64) byte {
	if v <= 0 {
		return ramp[0]
	}
	idx := int(v / max * float64(len(ramp)-1))
	if idx >= len(ramp) {
		idx = len(ramp) - 1
	}
	return ramp[idx]
}

// DensityCanvas renders the solver's interior density onto a braille
// canvas, one sub-pixel per cell, lit when the cell exceeds threshold.
func DensityCanvas(s *fluid.Solver, threshold float64) *Canvas {
	n := s.N()
	c := NewCanvas((n+1)/2, (n+3)/4)
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			if s.DensityAt(i, j) > threshold {
				c.Set(i-1, j-1)
			}
		}
	}
	return c
}

// FrameCanvas is DensityCanvas for an already-extracted frame of n×n
// interior values in row-major order.
func FrameCanvas(frame []float64, n int, threshold float64) *Canvas {
	c := NewCanvas((n+1)/2, (n+3)/4)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if frame[j*n+i] > threshold {
				c.Set(i, j)
			}
		}
	}
	return c
}
