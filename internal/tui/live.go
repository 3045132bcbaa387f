// Package tui provides the terminal front ends: a frame-throttled live
// density view for headless runs and a Bubble Tea interactive mode
// with a keyboard-driven smoke brush.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/quentik/flowlab/internal/fluid"
	"github.com/quentik/flowlab/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that paints the density field as
// ASCII shading, throttled to a frame rate.
type LiveRenderer struct {
	frameRate int
	lastFrame time.Time
	maxSeen   float64
}

func NewLiveRenderer(frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{frameRate: frameRate, maxSeen: 1}
}

func (r *LiveRenderer) OnTick(s *fluid.Solver, tick int) {
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	n := s.N()
	mass := 0.0
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			d := s.DensityAt(i, j)
			mass += d
			if d > r.maxSeen {
				r.maxSeen = d
			}
		}
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  tick %d  mass %.1f\n", tick, mass))
	b.WriteString("  +" + strings.Repeat("-", n) + "+\n")
	for j := 1; j <= n; j++ {
		b.WriteString("  |")
		for i := 1; i <= n; i++ {
			b.WriteByte(viz.Shade(s.DensityAt(i, j), r.maxSeen))
		}
		b.WriteString("|\n")
	}
	b.WriteString("  +" + strings.Repeat("-", n) + "+\n")

	fmt.Print(b.String())
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor) }
