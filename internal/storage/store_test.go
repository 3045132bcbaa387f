package storage

import (
	"testing"

	"github.com/quentik/flowlab/internal/fluid"
	"github.com/quentik/flowlab/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Tick: 0, Time: 0.1, Values: map[string]float64{"mass": 80, "mean_divergence": 0.01, "peak_density": 80}},
			{Tick: 1, Time: 0.2, Values: map[string]float64{"mass": 159, "mean_divergence": 0.008, "peak_density": 120}},
		},
		Metrics:  map[string]float64{"mass": 159, "mean_divergence": 0.008, "peak_density": 120},
		TicksRun: 2,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	solver, err := fluid.New(fluid.Params{N: 8, Diffusion: 0.0001, Viscosity: 0, Dt: 0.1})
	if err != nil {
		t.Fatalf("fluid.New: %v", err)
	}
	solver.AddDensity(4, 4, 42)

	runID, err := st.Save("plume", sim.Config{Ticks: 2, Iterations: 4, Fade: 0.005}, 7, solver, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "plume" {
		t.Errorf("preset = %q, want plume", meta.Preset)
	}
	if meta.N != 8 || meta.Dt != 0.1 {
		t.Errorf("solver params lost: n=%d dt=%v", meta.N, meta.Dt)
	}
	if meta.Seed != 7 {
		t.Errorf("seed = %d, want 7", meta.Seed)
	}
	if meta.Metrics["mass"] != 159 {
		t.Errorf("mass metric = %v, want 159", meta.Metrics["mass"])
	}
}

func TestStoreStatsRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	solver, _ := fluid.New(fluid.Params{N: 4, Dt: 0.1})
	runID, err := st.Save("", sim.Config{Ticks: 2, Iterations: 1}, 0, solver, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	rows, err := st.LoadStats(runID)
	if err != nil {
		t.Fatalf("load stats failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1].Mass != 159 || rows[1].Tick != 1 {
		t.Errorf("row 1 = %+v, want mass 159 at tick 1", rows[1])
	}
}

func TestStoreFrameRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	solver, _ := fluid.New(fluid.Params{N: 4, Dt: 0.1})
	solver.AddDensity(2, 3, 17)

	runID, err := st.Save("", sim.Config{Ticks: 1, Iterations: 1}, 0, solver, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cells, err := st.LoadFrame(runID)
	if err != nil {
		t.Fatalf("load frame failed: %v", err)
	}
	if len(cells) != 16 {
		t.Fatalf("cells = %d, want 16 interior cells", len(cells))
	}

	found := false
	for _, c := range cells {
		if c.X == 2 && c.Y == 3 {
			found = true
			if c.Density != 17 {
				t.Errorf("density at (2,3) = %v, want 17", c.Density)
			}
		}
	}
	if !found {
		t.Error("cell (2,3) missing from frame")
	}
}

func TestStoreSaveNilSolverSkipsFrame(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("", sim.Config{Ticks: 2, Iterations: 1}, 0, nil, testResult())
	if err != nil {
		t.Fatalf("save with nil solver failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.N != 0 || meta.Dt != 0 {
		t.Errorf("solver metadata should stay zero without a solver, got n=%d dt=%v", meta.N, meta.Dt)
	}
	if meta.Metrics["mass"] != 159 {
		t.Errorf("mass metric = %v, want 159", meta.Metrics["mass"])
	}

	if rows, err := st.LoadStats(runID); err != nil || len(rows) != 2 {
		t.Errorf("stats should still be written: rows=%d err=%v", len(rows), err)
	}
	if _, err := st.LoadFrame(runID); err == nil {
		t.Error("expected no frame.csv without a solver")
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	solver, _ := fluid.New(fluid.Params{N: 4, Dt: 0.1})
	if _, err := st.Save("", sim.Config{Ticks: 1, Iterations: 1}, 0, solver, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}
