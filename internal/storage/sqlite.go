package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

type SQLiteIndex struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteIndex(path string) *SQLiteIndex {
	return &SQLiteIndex{path: path}
}

func (s *SQLiteIndex) Init(ctx context.Context) error {
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

func (s *SQLiteIndex) Put(ctx context.Context, r Record) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	metrics, err := json.Marshal(r.Metrics)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO sweep_points (key, ru, rv, f, k, path, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			ru = excluded.ru,
			rv = excluded.rv,
			f = excluded.f,
			k = excluded.k,
			path = excluded.path,
			metrics = excluded.metrics
	`, r.Key, r.Ru, r.Rv, r.F, r.K, r.Path, metrics)
	return err
}

func (s *SQLiteIndex) Get(ctx context.Context, key string) (Record, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Record{}, false, err
	}

	row := db.QueryRowContext(ctx, `SELECT key, ru, rv, f, k, path, metrics FROM sweep_points WHERE key = ?`, key)
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return r, true, nil
}

func (s *SQLiteIndex) List(ctx context.Context) ([]Record, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT key, ru, rv, f, k, path, metrics FROM sweep_points ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var r Record
	var metrics []byte
	if err := row.Scan(&r.Key, &r.Ru, &r.Rv, &r.F, &r.K, &r.Path, &metrics); err != nil {
		return Record{}, err
	}
	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &r.Metrics); err != nil {
			return Record{}, fmt.Errorf("decode metrics for %s: %w", r.Key, err)
		}
	}
	return r, nil
}

func (s *SQLiteIndex) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("index is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sweep_points (
			key TEXT PRIMARY KEY,
			ru REAL NOT NULL,
			rv REAL NOT NULL,
			f REAL NOT NULL,
			k REAL NOT NULL,
			path TEXT NOT NULL,
			metrics BLOB
		);
	`)
	return err
}
