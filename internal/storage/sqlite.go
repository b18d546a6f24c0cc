//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"

	_ "modernc.org/sqlite"

	"pelagos/internal/model"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func createTables(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at_utc TEXT NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS migrations (
			run_id TEXT PRIMARY KEY,
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS traces (
			run_id TEXT PRIMARY KEY,
			payload TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store not initialized")
	}
	return s.db, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, rec model.RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := EncodeRun(rec)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at_utc, payload) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET created_at_utc = excluded.created_at_utc, payload = excluded.payload`,
		rec.ID, rec.CreatedAtUTC, string(payload))
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (model.RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.RunRecord{}, false, err
	}
	var payload string
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunRecord{}, false, nil
	}
	if err != nil {
		return model.RunRecord{}, false, err
	}
	rec, err := DecodeRun([]byte(payload))
	if err != nil {
		return model.RunRecord{}, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	query := `SELECT payload FROM runs ORDER BY created_at_utc DESC, id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := DecodeRun([]byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveMigrationHistory(ctx context.Context, runID string, records []model.MigrationRecord) error {
	return s.savePayload(ctx, `migrations`, runID, records)
}

func (s *SQLiteStore) GetMigrationHistory(ctx context.Context, runID string) ([]model.MigrationRecord, bool, error) {
	var records []model.MigrationRecord
	ok, err := s.loadPayload(ctx, `migrations`, runID, &records)
	return records, ok, err
}

func (s *SQLiteStore) SaveFitnessTraces(ctx context.Context, runID string, traces [][]float64) error {
	return s.savePayload(ctx, `traces`, runID, traces)
}

func (s *SQLiteStore) GetFitnessTraces(ctx context.Context, runID string) ([][]float64, bool, error) {
	var traces [][]float64
	ok, err := s.loadPayload(ctx, `traces`, runID, &traces)
	return traces, ok, err
}

func (s *SQLiteStore) savePayload(ctx context.Context, table, runID string, value any) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO `+table+` (run_id, payload) VALUES (?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET payload = excluded.payload`,
		runID, string(payload))
	return err
}

func (s *SQLiteStore) loadPayload(ctx context.Context, table, runID string, out any) (bool, error) {
	db, err := s.getDB()
	if err != nil {
		return false, err
	}
	var payload string
	err = db.QueryRowContext(ctx, `SELECT payload FROM `+table+` WHERE run_id = ?`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, err
	}
	return true, nil
}
