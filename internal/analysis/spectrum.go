// Package analysis provides frequency analysis of recorded stat
// histories, for spotting periodic behavior in a run (an emitter
// pulsing against turbulence, a standing oscillation in mass).
package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum returns the magnitude spectrum of data with the mean
// removed first, so the DC component does not swamp the oscillations.
// The result has len(data)/2+1 bins, bin i covering frequency
// i/(len(data)*dt) for sample interval dt.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	centered := make([]float64, len(data))
	copy(centered, data)
	mean := floats.Sum(centered) / float64(len(centered))
	for i := range centered {
		centered[i] -= mean
	}

	fft := fourier.NewFFT(len(centered))
	coeffs := fft.Coefficients(nil, centered)

	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// Dominant locates the strongest non-DC bin of a spectrum over n
// samples taken dt apart, returning its frequency in cycles per unit
// time and its power. A flat or too-short spectrum yields zeros.
func Dominant(ps []float64, n int, dt float64) (freq, power float64) {
	if len(ps) < 2 || n <= 0 || dt <= 0 {
		return 0, 0
	}

	maxIdx := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	return float64(maxIdx) / (float64(n) * dt), ps[maxIdx]
}
