// Package metrics observes scalar health indicators of a running
// simulation: total smoke mass, residual divergence, peak density.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/quentik/flowlab/internal/fluid"
)

// Metric samples one scalar per tick.
type Metric interface {
	Name() string
	Observe(s *fluid.Solver, tick int)
	Value() float64
	Reset()
}

// interiorDensity copies the interior density cells into buf.
func interiorDensity(s *fluid.Solver, buf []float64) []float64 {
	n := s.N()
	buf = buf[:0]
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			buf = append(buf, s.DensityAt(i, j))
		}
	}
	return buf
}

// TotalMass sums the interior density field.
type TotalMass struct {
	buf  []float64
	last float64
}

func NewTotalMass() *TotalMass { return &TotalMass{} }

func (m *TotalMass) Name() string { return "mass" }

func (m *TotalMass) Observe(s *fluid.Solver, _ int) {
	m.buf = interiorDensity(s, m.buf)
	m.last = floats.Sum(m.buf)
}

func (m *TotalMass) Value() float64 { return m.last }
func (m *TotalMass) Reset()         { m.last = 0 }

// PeakDensity tracks the largest interior density cell.
type PeakDensity struct {
	buf  []float64
	last float64
}

func NewPeakDensity() *PeakDensity { return &PeakDensity{} }

func (m *PeakDensity) Name() string { return "peak_density" }

func (m *PeakDensity) Observe(s *fluid.Solver, _ int) {
	m.buf = interiorDensity(s, m.buf)
	if len(m.buf) == 0 {
		m.last = 0
		return
	}
	m.last = floats.Max(m.buf)
}

func (m *PeakDensity) Value() float64 { return m.last }
func (m *PeakDensity) Reset()         { m.last = 0 }

// MeanDivergence reports the mean absolute discrete divergence over
// interior cells, the quantity the projection stage drives toward zero.
type MeanDivergence struct {
	buf  []float64
	last float64
}

func NewMeanDivergence() *MeanDivergence { return &MeanDivergence{} }

func (m *MeanDivergence) Name() string { return "mean_divergence" }

func (m *MeanDivergence) Observe(s *fluid.Solver, _ int) {
	n := s.N()
	m.buf = m.buf[:0]
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			m.buf = append(m.buf, math.Abs(Divergence(s, i, j)))
		}
	}
	if len(m.buf) == 0 {
		m.last = 0
		return
	}
	m.last = floats.Sum(m.buf) / float64(len(m.buf))
}

func (m *MeanDivergence) Value() float64 { return m.last }
func (m *MeanDivergence) Reset()         { m.last = 0 }

// Divergence computes the same central-difference divergence the
// solver's projection stage uses.
func Divergence(s *fluid.Solver, i, j int) float64 {
	vxR, _ := s.VelocityAt(i+1, j)
	vxL, _ := s.VelocityAt(i-1, j)
	_, vyU := s.VelocityAt(i, j+1)
	_, vyD := s.VelocityAt(i, j-1)
	return -0.5 * ((vxR - vxL) + (vyU - vyD)) / float64(s.N())
}

// Defaults is the standard per-run metric set.
func Defaults() []Metric {
	return []Metric{NewTotalMass(), NewMeanDivergence(), NewPeakDensity()}
}
