// Package storage persists archipelago run records. The engine itself never
// touches a store; callers persist after Join.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pelagos/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Store defines persistence operations for run records, migration history
// and fitness traces.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, rec model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	SaveMigrationHistory(ctx context.Context, runID string, records []model.MigrationRecord) error
	GetMigrationHistory(ctx context.Context, runID string) ([]model.MigrationRecord, bool, error)
	SaveFitnessTraces(ctx context.Context, runID string, traces [][]float64) error
	GetFitnessTraces(ctx context.Context, runID string) ([][]float64, bool, error)
}

func EncodeRun(rec model.RunRecord) ([]byte, error) {
	return json.Marshal(rec)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var rec model.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(rec.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return rec, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != 0 && v.SchemaVersion != CurrentSchemaVersion {
		return fmt.Errorf("%w: schema %d", ErrVersionMismatch, v.SchemaVersion)
	}
	if v.CodecVersion != 0 && v.CodecVersion != CurrentCodecVersion {
		return fmt.Errorf("%w: codec %d", ErrVersionMismatch, v.CodecVersion)
	}
	return nil
}

// Stamp sets the current schema and codec versions on a record.
func Stamp(rec model.RunRecord) model.RunRecord {
	rec.SchemaVersion = CurrentSchemaVersion
	rec.CodecVersion = CurrentCodecVersion
	return rec
}
