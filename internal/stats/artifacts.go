package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"pelagos/internal/model"
)

const runIndexFile = "run_index.json"

// RunArtifacts is everything persisted to disk for one archipelago run.
type RunArtifacts struct {
	Record     model.RunRecord         `json:"record"`
	Summaries  []IslandSummary         `json:"summaries"`
	Migrations []model.MigrationRecord `json:"migrations"`
}

// FitnessRow is one CSV line of an island's champion trace.
type FitnessRow struct {
	Island  int     `csv:"island"`
	Epoch   int     `csv:"epoch"`
	Fitness float64 `csv:"fitness"`
}

// WriteRunArtifacts lays out runs/<id>/ with config.json, summary.json,
// fitness.csv and migrations.csv, then appends the run to the index.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts, traces [][]float64) (string, error) {
	if artifacts.Record.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Record.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Record); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "summary.json"), artifacts.Summaries); err != nil {
		return "", err
	}

	rows := make([]FitnessRow, 0)
	for island, trace := range traces {
		for epoch, v := range trace {
			rows = append(rows, FitnessRow{Island: island, Epoch: epoch, Fitness: v})
		}
	}
	if err := writeCSV(filepath.Join(runDir, "fitness.csv"), &rows); err != nil {
		return "", err
	}

	migrations := artifacts.Migrations
	if migrations == nil {
		migrations = []model.MigrationRecord{}
	}
	if err := writeCSV(filepath.Join(runDir, "migrations.csv"), &migrations); err != nil {
		return "", err
	}

	if err := appendRunIndex(baseDir, artifacts.Record); err != nil {
		return "", err
	}
	return runDir, nil
}

// ListRunIndex returns all indexed runs, oldest first.
func ListRunIndex(baseDir string) ([]model.RunRecord, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []model.RunRecord
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadRunRecord loads runs/<id>/config.json.
func ReadRunRecord(baseDir, runID string) (model.RunRecord, bool, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return model.RunRecord{}, false, nil
		}
		return model.RunRecord{}, false, err
	}
	var rec model.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.RunRecord{}, false, err
	}
	return rec, true, nil
}

// ReadFitnessRows loads runs/<id>/fitness.csv.
func ReadFitnessRows(baseDir, runID string) ([]FitnessRow, bool, error) {
	file, err := os.Open(filepath.Join(baseDir, runID, "fitness.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	var rows []FitnessRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, false, err
	}
	return rows, true, nil
}

func appendRunIndex(baseDir string, rec model.RunRecord) error {
	entries, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}
	filtered := make([]model.RunRecord, 0, len(entries)+1)
	for _, entry := range entries {
		if entry.ID != rec.ID {
			filtered = append(filtered, entry)
		}
	}
	filtered = append(filtered, rec)
	return writeJSON(filepath.Join(baseDir, runIndexFile), filtered)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCSV(path string, rows any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return gocsv.MarshalFile(rows, file)
}
