// Package postgres provides a Postgres-backed ProjectStore that mirrors
// the SQLite adapter's semantics for multi-node deployments.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"coolingcore/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion.
var _ domain.ProjectStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/coolingcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists project records in a projects table keyed (owner, name).
type Store struct {
	db *sql.DB
}

// NewStore opens a Postgres-backed store using dsn (falls back to
// defaultDSN) and ensures the projects table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS projects (
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		config BYTEA,
		results BYTEA,
		created_at TEXT,
		updated_at TEXT,
		PRIMARY KEY (owner, name)
	)`); err != nil {
		return nil, fmt.Errorf("ensure projects table: %w", err)
	}
	return &Store{db: db}, nil
}

// Put implements domain.ProjectStore.
func (s *Store) Put(ctx context.Context, record domain.ProjectRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO projects(owner,name,config,results,created_at,updated_at)
		VALUES($1,$2,$3,$4,$5,$6)
		ON CONFLICT(owner,name) DO UPDATE SET
			config=EXCLUDED.config,
			results=EXCLUDED.results,
			created_at=EXCLUDED.created_at,
			updated_at=EXCLUDED.updated_at`,
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
		`SELECT config, results, created_at, updated_at FROM projects WHERE owner=$1 AND name=$2`,
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
		`SELECT name, config, results, created_at, updated_at FROM projects WHERE owner=$1 ORDER BY name`, owner)
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
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE owner=$1 AND name=$2`, owner, name)
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

func nullableBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a
// restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
