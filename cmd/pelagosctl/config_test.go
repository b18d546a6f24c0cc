package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `
run_id: exp-1
problem:
  name: rastrigin
  dimension: 8
algorithm: sga
topology: fully_connected
islands: 6
evolution:
  population_size: 40
  epochs: 250
migration:
  distribution: broadcast
  direction: source
  rate: -1
  fraction: 0.2
seed: 99
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadRunConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RunID != "exp-1" || cfg.Problem.Name != "rastrigin" || cfg.Problem.Dimension != 8 {
		t.Fatalf("config: %+v", cfg)
	}
	if cfg.Islands != 6 || cfg.Evolution.Epochs != 250 {
		t.Fatalf("config: %+v", cfg)
	}

	req := cfg.request()
	if req.Algorithm != "sga" || req.Topology != "fully_connected" {
		t.Fatalf("request: %+v", req)
	}
	if req.MigrationRate != -1 || req.MigrationFraction != 0.2 {
		t.Fatalf("migration: %+v", req)
	}
	if req.Seed != 99 {
		t.Fatalf("seed: %d", req.Seed)
	}
}

func TestLoadRunConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("islands: 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadRunConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Islands != 2 {
		t.Fatalf("islands: %d", cfg.Islands)
	}
	if cfg.Problem.Name != "sphere" || cfg.Algorithm != "de" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRunConfigMissingFile(t *testing.T) {
	if _, err := loadRunConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDurationOverride(t *testing.T) {
	cfg := defaultRunConfig()
	cfg.Evolution.DurationMS = 1500
	req := cfg.request()
	if req.Duration != 1500*time.Millisecond {
		t.Fatalf("duration: %s", req.Duration)
	}
}
