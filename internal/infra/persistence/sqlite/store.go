// Package sqlite provides a SQLite-backed ProjectStore for single-node
// deployments and local development.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"coolingcore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion.
var _ domain.ProjectStore = (*Store)(nil)

// Store persists project records in a single projects table keyed
// (owner, name). Blobs are stored as written; schema-evolution policy
// lives above the adapter.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) a SQLite-backed store at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "coolingcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS projects (
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		config BLOB,
		results BLOB,
		created_at TEXT,
		updated_at TEXT,
		PRIMARY KEY (owner, name)
	)`); err != nil {
		return nil, fmt.Errorf("create projects table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Put implements domain.ProjectStore.
func (s *Store) Put(ctx context.Context, record domain.ProjectRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO projects(owner,name,config,results,created_at,updated_at)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(owner,name) DO UPDATE SET
			config=excluded.config,
			results=excluded.results,
			created_at=excluded.created_at,
			updated_at=excluded.updated_at`,
		record.Owner, record.Name, nullableBlob(record.Config), nullableBlob(record.LegacyResults), record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert project %s/%s: %w", record.Owner, record.Name, err)
	}
	return nil
}

// Get implements domain.ProjectStore.
func (s *Store) Get(ctx context.Context, owner, name string) (domain.ProjectRecord, bool, error) {
	record := domain.ProjectRecord{Owner: owner, Name: name}
	err := s.db.QueryRowContext(ctx,
		`SELECT config, results, created_at, updated_at FROM projects WHERE owner=? AND name=?`,
		owner, name).Scan(&record.Config, &record.LegacyResults, &record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProjectRecord{}, false, nil
	}
	if err != nil {
		return domain.ProjectRecord{}, false, fmt.Errorf("select project %s/%s: %w", owner, name, err)
	}
	return record, true, nil
}

// List implements domain.ProjectStore, ordered by project name.
func (s *Store) List(ctx context.Context, owner string) ([]domain.ProjectRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, config, results, created_at, updated_at FROM projects WHERE owner=? ORDER BY name`, owner)
	if err != nil {
		return nil, fmt.Errorf("list projects for %s: %w", owner, err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.ProjectRecord
	for rows.Next() {
		record := domain.ProjectRecord{Owner: owner}
		if err := rows.Scan(&record.Name, &record.Config, &record.LegacyResults, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

// Delete implements domain.ProjectStore; reports whether the key existed.
func (s *Store) Delete(ctx context.Context, owner, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE owner=? AND name=?`, owner, name)
	if err != nil {
		return false, fmt.Errorf("delete project %s/%s: %w", owner, name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// nullableBlob maps an empty slice to NULL so absent blobs stay absent.
func nullableBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
