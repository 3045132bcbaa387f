// Package sim drives a fluid solver through fixed-rate ticks. The
// solver itself is synchronous and unaware of scheduling; the Runner
// owns the loop, applies scripted sources before each tick, and lets
// metrics and observers read the fields between ticks.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/quentik/flowlab/internal/fluid"
	"github.com/quentik/flowlab/internal/metrics"
	"github.com/quentik/flowlab/internal/source"
)

// Config are the per-run loop parameters. The solver's own parameters
// were validated at construction; these are validated here because the
// solver's hot path does not re-check them.
type Config struct {
	Ticks      int
	Iterations int
	Fade       float64
}

// Observer sees the solver between ticks, after a tick fully returns.
type Observer interface {
	OnTick(s *fluid.Solver, tick int)
}

// Sample is one tick's metric readings.
type Sample struct {
	Tick   int
	Time   float64
	Values map[string]float64
}

// Result collects the run history and the final metric values.
type Result struct {
	Samples  []Sample
	Metrics  map[string]float64
	TicksRun int
}

// RunError reports a failure positioned inside a run.
type RunError struct {
	Tick    int
	Message string
}

func (e RunError) Error() string {
	return fmt.Sprintf("tick %d: %s", e.Tick, e.Message)
}

// Runner owns one solver and its loop. It is not safe for concurrent
// use; a solver has exactly one owner.
type Runner struct {
	solver    *fluid.Solver
	sources   []source.Source
	metrics   []metrics.Metric
	observers []Observer
}

func New(s *fluid.Solver) *Runner {
	return &Runner{solver: s}
}

func (r *Runner) Solver() *fluid.Solver          { return r.solver }
func (r *Runner) AddSource(src source.Source)    { r.sources = append(r.sources, src) }
func (r *Runner) AddMetric(m metrics.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)         { r.observers = append(r.observers, o) }

// Run executes cfg.Ticks ticks. Cancellation is only honored between
// ticks; a tick in flight always completes. On cancellation the partial
// result is returned alongside ctx.Err(). A metric reading that comes
// back NaN or infinite aborts the run with a RunError naming the tick.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0, cfg.Ticks),
		Metrics: make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	dt := r.solver.Params().Dt
	tick := fluid.Tick{Iterations: cfg.Iterations, Fade: cfg.Fade}

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, src := range r.sources {
			src.Apply(r.solver, i)
		}

		r.solver.Step(tick)
		result.TicksRun++

		sample := Sample{Tick: i, Time: float64(i+1) * dt, Values: make(map[string]float64, len(r.metrics))}
		for _, m := range r.metrics {
			m.Observe(r.solver, i)
			v := m.Value()
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return result, RunError{Tick: i, Message: fmt.Sprintf("metric %s is not finite", m.Name())}
			}
			sample.Values[m.Name()] = v
		}
		result.Samples = append(result.Samples, sample)

		for _, o := range r.observers {
			o.OnTick(r.solver, i)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// RunWithCallback is the streaming variant: cb sees the solver after
// every tick and returns false to stop early.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, cb func(s *fluid.Solver, tick int) bool) error {
	if err := r.validate(cfg); err != nil {
		return err
	}

	tick := fluid.Tick{Iterations: cfg.Iterations, Fade: cfg.Fade}
	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for _, src := range r.sources {
			src.Apply(r.solver, i)
		}
		r.solver.Step(tick)

		if !cb(r.solver, i) {
			return nil
		}
	}
	return nil
}

func (r *Runner) validate(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative, got %d", cfg.Iterations)
	}
	if cfg.Fade < 0 || cfg.Fade > 1 {
		return fmt.Errorf("fade must be in [0,1], got %f", cfg.Fade)
	}
	return nil
}
