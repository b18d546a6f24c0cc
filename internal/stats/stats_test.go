package stats

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"pelagos/internal/model"
)

func TestSummarize(t *testing.T) {
	traces := [][]float64{
		{4, 2, 1},
		{},
		{3, 3},
	}
	summaries := Summarize(traces)
	if len(summaries) != 2 {
		t.Fatalf("summaries: got %d, want 2", len(summaries))
	}
	first := summaries[0]
	if first.Island != 0 || first.Epochs != 3 || first.Best != 1 {
		t.Fatalf("first summary: %+v", first)
	}
	if math.Abs(first.Mean-7.0/3.0) > 1e-12 {
		t.Fatalf("mean: got %g", first.Mean)
	}
	second := summaries[1]
	if second.Island != 2 || second.StdDev != 0 {
		t.Fatalf("second summary: %+v", second)
	}
}

func TestBestOf(t *testing.T) {
	best, ok := BestOf([][]float64{{5, 3}, {4, 2, 9}})
	if !ok || best != 2 {
		t.Fatalf("best: got %g ok=%v, want 2 true", best, ok)
	}
	if _, ok := BestOf(nil); ok {
		t.Fatal("expected no best for empty traces")
	}
}

func TestWriteAndReadRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	traces := [][]float64{{2, 1}, {3}}
	artifacts := RunArtifacts{
		Record: model.RunRecord{
			ID:             "run-1",
			Problem:        "sphere",
			Algorithm:      "de",
			Topology:       "ring",
			Islands:        2,
			PopulationSize: 10,
			Epochs:         2,
			BestFitness:    1,
		},
		Summaries:  Summarize(traces),
		Migrations: []model.MigrationRecord{{Count: 1, Origin: 0, Destination: 1}},
	}

	runDir, err := WriteRunArtifacts(baseDir, artifacts, traces)
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	for _, name := range []string{"config.json", "summary.json", "fitness.csv", "migrations.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	rec, ok, err := ReadRunRecord(baseDir, "run-1")
	if err != nil || !ok {
		t.Fatalf("read record: ok=%v err=%v", ok, err)
	}
	if rec.Problem != "sphere" || rec.BestFitness != 1 {
		t.Fatalf("record: %+v", rec)
	}

	rows, ok, err := ReadFitnessRows(baseDir, "run-1")
	if err != nil || !ok {
		t.Fatalf("read fitness: ok=%v err=%v", ok, err)
	}
	if len(rows) != 3 {
		t.Fatalf("fitness rows: got %d, want 3", len(rows))
	}
	if rows[2].Island != 1 || rows[2].Fitness != 3 {
		t.Fatalf("last row: %+v", rows[2])
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(index) != 1 || index[0].ID != "run-1" {
		t.Fatalf("index: %+v", index)
	}

	// Rewriting the same run must not duplicate the index entry.
	if _, err := WriteRunArtifacts(baseDir, artifacts, traces); err != nil {
		t.Fatalf("rewrite artifacts: %v", err)
	}
	index, err = ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(index) != 1 {
		t.Fatalf("index after rewrite: got %d entries, want 1", len(index))
	}
}

func TestWriteRunArtifactsRequiresID(t *testing.T) {
	if _, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{}, nil); err == nil {
		t.Fatal("expected error for missing run id")
	}
}
