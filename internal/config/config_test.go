package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.N <= 0 {
		t.Error("grid size should be positive")
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Iterations <= 0 {
		t.Error("iterations should be positive")
	}
	if cfg.Fade < 0 || cfg.Fade > 1 {
		t.Errorf("fade %f outside [0,1]", cfg.Fade)
	}

	p := cfg.SolverParams()
	if p.N != cfg.N || p.Dt != cfg.Dt {
		t.Error("solver params should mirror the config")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.N = 48
	cfg.Fade = 0.01
	cfg.Turbulence.Enabled = true
	cfg.Brush.Radius = 5

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.N != 48 {
		t.Errorf("n = %d, want 48", loaded.N)
	}
	if loaded.Fade != 0.01 {
		t.Errorf("fade = %f, want 0.01", loaded.Fade)
	}
	if !loaded.Turbulence.Enabled {
		t.Error("turbulence flag lost in round trip")
	}
	if loaded.Brush.Radius != 5 {
		t.Errorf("brush radius = %d, want 5", loaded.Brush.Radius)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("plume")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.Emitter.Enabled {
		t.Error("plume preset should carry an emitter")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	found := false
	for _, n := range names {
		if n == "calm" {
			found = true
		}
	}
	if !found {
		t.Error("calm preset missing from list")
	}
}
