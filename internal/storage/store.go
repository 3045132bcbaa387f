// Package storage persists simulation runs: metadata as JSON, the
// per-tick stats history and the final density frame as CSV.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/quentik/flowlab/internal/fluid"
	"github.com/quentik/flowlab/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	N          int                `json:"n"`
	Diffusion  float64            `json:"diffusion"`
	Viscosity  float64            `json:"viscosity"`
	Dt         float64            `json:"dt"`
	Ticks      int                `json:"ticks"`
	Iterations int                `json:"iterations"`
	Fade       float64            `json:"fade"`
	Seed       int64              `json:"seed"`
	Metrics    map[string]float64 `json:"metrics"`
}

// StatRow is one tick of history in stats.csv.
type StatRow struct {
	Tick           int     `csv:"tick"`
	Time           float64 `csv:"time"`
	Mass           float64 `csv:"mass"`
	MeanDivergence float64 `csv:"mean_divergence"`
	PeakDensity    float64 `csv:"peak_density"`
}

// FrameCell is one interior cell of the final density frame.
type FrameCell struct {
	X       int     `csv:"x"`
	Y       int     `csv:"y"`
	Density float64 `csv:"density"`
}

// Save writes one run directory: metadata.json, stats.csv, frame.csv.
// The solver provides the final density frame; pass nil to skip it.
func (s *Store) Save(preset string, loop sim.Config, seed int64, solver *fluid.Solver, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Preset:     preset,
		Timestamp:  time.Now(),
		Ticks:      loop.Ticks,
		Iterations: loop.Iterations,
		Fade:       loop.Fade,
		Seed:       seed,
		Metrics:    result.Metrics,
	}
	if solver != nil {
		p := solver.Params()
		meta.N = p.N
		meta.Diffusion = p.Diffusion
		meta.Viscosity = p.Viscosity
		meta.Dt = p.Dt
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	rows := make([]StatRow, 0, len(result.Samples))
	for _, sample := range result.Samples {
		rows = append(rows, StatRow{
			Tick:           sample.Tick,
			Time:           sample.Time,
			Mass:           sample.Values["mass"],
			MeanDivergence: sample.Values["mean_divergence"],
			PeakDensity:    sample.Values["peak_density"],
		})
	}

	statsFile, err := os.Create(filepath.Join(runDir, "stats.csv"))
	if err != nil {
		return "", err
	}
	defer statsFile.Close()
	if err := gocsv.MarshalFile(&rows, statsFile); err != nil {
		return "", err
	}

	if solver != nil {
		if err := s.saveFrame(runDir, solver); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) saveFrame(runDir string, solver *fluid.Solver) error {
	n := solver.N()
	cells := make([]FrameCell, 0, n*n)
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			cells = append(cells, FrameCell{X: i, Y: j, Density: solver.DensityAt(i, j)})
		}
	}

	frameFile, err := os.Create(filepath.Join(runDir, "frame.csv"))
	if err != nil {
		return err
	}
	defer frameFile.Close()
	return gocsv.MarshalFile(&cells, frameFile)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadStats(runID string) ([]StatRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "stats.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []StatRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) LoadFrame(runID string) ([]FrameCell, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frame.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cells []FrameCell
	if err := gocsv.UnmarshalFile(file, &cells); err != nil {
		return nil, err
	}
	return cells, nil
}
