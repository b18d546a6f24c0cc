package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pelagos/pkg/pelagos"
)

// RunConfig is the YAML shape accepted by `pelagosctl run -config`.
type RunConfig struct {
	RunID     string          `yaml:"run_id"`
	Problem   ProblemConfig   `yaml:"problem"`
	Algorithm string          `yaml:"algorithm"`
	Topology  string          `yaml:"topology"`
	Islands   int             `yaml:"islands"`
	Evolution EvolutionConfig `yaml:"evolution"`
	Migration MigrationConfig `yaml:"migration"`
	Seed      int64           `yaml:"seed"`
}

type ProblemConfig struct {
	Name       string `yaml:"name"`
	Dimension  int    `yaml:"dimension"`
	Objectives int    `yaml:"objectives"`
}

type EvolutionConfig struct {
	PopulationSize int   `yaml:"population_size"`
	Epochs         int   `yaml:"epochs"`
	DurationMS     int64 `yaml:"duration_ms"`
}

type MigrationConfig struct {
	Distribution string  `yaml:"distribution"`
	Direction    string  `yaml:"direction"`
	Rate         int     `yaml:"rate"`
	Fraction     float64 `yaml:"fraction"`
}

func loadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, err
	}
	cfg := defaultRunConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func defaultRunConfig() RunConfig {
	return RunConfig{
		Problem:   ProblemConfig{Name: "sphere", Dimension: 10, Objectives: 2},
		Algorithm: "de",
		Topology:  "ring",
		Islands:   4,
		Evolution: EvolutionConfig{PopulationSize: 20, Epochs: 100},
		Migration: MigrationConfig{Distribution: "point_to_point", Direction: "destination", Rate: 1},
		Seed:      1,
	}
}

func (cfg RunConfig) request() pelagos.RunRequest {
	return pelagos.RunRequest{
		RunID:             cfg.RunID,
		Problem:           cfg.Problem.Name,
		Dimension:         cfg.Problem.Dimension,
		Objectives:        cfg.Problem.Objectives,
		Algorithm:         cfg.Algorithm,
		Topology:          cfg.Topology,
		Islands:           cfg.Islands,
		PopulationSize:    cfg.Evolution.PopulationSize,
		Epochs:            cfg.Evolution.Epochs,
		Duration:          time.Duration(cfg.Evolution.DurationMS) * time.Millisecond,
		Distribution:      cfg.Migration.Distribution,
		Direction:         cfg.Migration.Direction,
		MigrationRate:     cfg.Migration.Rate,
		MigrationFraction: cfg.Migration.Fraction,
		Seed:              cfg.Seed,
	}
}
