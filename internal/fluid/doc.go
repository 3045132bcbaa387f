// Package fluid implements a grid-based "stable fluids" solver for
// real-time smoke simulation.
//
// A [Solver] owns a square grid of N×N interior cells padded with a
// one-cell ghost border, holding a scalar density field and a 2-D
// velocity field. Each [Solver.Step] advances both fields through a
// fixed pipeline:
//
//	diffuse velocity → project → self-advect → project →
//	diffuse density → advect density → dissipate
//
// Diffusion is solved implicitly by Gauss-Seidel relaxation, the
// projection enforces approximate incompressibility via a pressure
// Poisson solve, and advection is semi-Lagrangian with bilinear
// resampling. The scheme stays stable for any time step; accuracy is
// traded off against the per-tick relaxation iteration count.
//
// The solver performs no internal synchronization. One goroutine owns
// it: injections and reads must happen between ticks.
package fluid
