package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/quentik/flowlab/internal/fluid"
	"github.com/quentik/flowlab/internal/metrics"
	"github.com/quentik/flowlab/internal/source"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	s, err := fluid.New(fluid.Params{N: 8, Diffusion: 0.0001, Viscosity: 0.0001, Dt: 0.1})
	if err != nil {
		t.Fatalf("fluid.New: %v", err)
	}
	return New(s)
}

func TestRunnerRun(t *testing.T) {
	r := newRunner(t)
	r.AddSource(&source.Emitter{X: 4, Y: 4, Amount: 10, Vy: -0.5})
	r.AddMetric(metrics.NewTotalMass())

	result, err := r.Run(context.Background(), Config{Ticks: 5, Iterations: 4})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.TicksRun != 5 {
		t.Errorf("ticks run = %d, want 5", result.TicksRun)
	}
	if len(result.Samples) != 5 {
		t.Errorf("samples = %d, want 5", len(result.Samples))
	}
	if result.Metrics["mass"] <= 0 {
		t.Errorf("final mass = %v, want > 0 with an emitter running", result.Metrics["mass"])
	}
	if got := result.Samples[4].Time; got != 0.5 {
		t.Errorf("final sample time = %v, want 0.5", got)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero ticks", Config{Ticks: 0, Iterations: 4}},
		{"negative ticks", Config{Ticks: -1, Iterations: 4}},
		{"negative iterations", Config{Ticks: 1, Iterations: -2}},
		{"fade above one", Config{Ticks: 1, Iterations: 1, Fade: 1.5}},
		{"negative fade", Config{Ticks: 1, Iterations: 1, Fade: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRunner(t)
			if _, err := r.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRunnerCancellationBetweenTicks(t *testing.T) {
	r := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, Config{Ticks: 100, Iterations: 1})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result.TicksRun != 0 {
		t.Errorf("ticks run = %d, want 0 with pre-cancelled context", result.TicksRun)
	}
}

// poisonSource corrupts the field after a given tick.
type poisonSource struct{ after int }

func (p *poisonSource) Apply(s *fluid.Solver, tick int) {
	if tick >= p.after {
		s.AddDensity(4, 4, math.NaN())
	}
}

func TestRunnerAbortsOnNonFiniteMetric(t *testing.T) {
	r := newRunner(t)
	r.AddSource(&poisonSource{after: 2})
	r.AddMetric(metrics.NewTotalMass())

	result, err := r.Run(context.Background(), Config{Ticks: 10, Iterations: 1})
	if err == nil {
		t.Fatal("expected error from a NaN density field")
	}

	var runErr RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("err = %T %v, want RunError", err, err)
	}
	if runErr.Tick != 2 {
		t.Errorf("RunError.Tick = %d, want 2", runErr.Tick)
	}
	if result == nil || len(result.Samples) != 2 {
		t.Errorf("expected the 2 clean samples in the partial result, got %+v", result)
	}
}

func TestRunErrorFormat(t *testing.T) {
	err := RunError{Tick: 150, Message: "metric mass is not finite"}
	want := "tick 150: metric mass is not finite"
	if err.Error() != want {
		t.Errorf("RunError.Error() = %q, want %q", err.Error(), want)
	}
}

type countingObserver struct{ calls int }

func (c *countingObserver) OnTick(*fluid.Solver, int) { c.calls++ }

func TestRunnerObservers(t *testing.T) {
	r := newRunner(t)
	obs := &countingObserver{}
	r.AddObserver(obs)

	if _, err := r.Run(context.Background(), Config{Ticks: 7, Iterations: 1}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if obs.calls != 7 {
		t.Errorf("observer calls = %d, want 7", obs.calls)
	}
}

func TestRunWithCallbackStopsEarly(t *testing.T) {
	r := newRunner(t)
	seen := 0
	err := r.RunWithCallback(context.Background(), Config{Ticks: 50, Iterations: 1}, func(_ *fluid.Solver, tick int) bool {
		seen++
		return tick < 2
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if seen != 3 {
		t.Errorf("callback invocations = %d, want 3", seen)
	}
}

func TestEnsembleIndependentRuns(t *testing.T) {
	ens := NewEnsemble(4, func(run int) (*Runner, error) {
		s, err := fluid.New(fluid.Params{N: 8, Dt: 0.1})
		if err != nil {
			return nil, err
		}
		r := New(s)
		r.AddSource(&source.Emitter{X: 4, Y: 4, Amount: float64(run + 1)})
		r.AddMetric(metrics.NewTotalMass())
		return r, nil
	})

	results, err := ens.Run(context.Background(), Config{Ticks: 3, Iterations: 2})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Metrics["mass"] <= results[i-1].Metrics["mass"] {
			t.Errorf("run %d mass %v should exceed run %d mass %v",
				i, results[i].Metrics["mass"], i-1, results[i-1].Metrics["mass"])
		}
	}
}
