// Package cache remembers which files are already clean for a given set of
// rewrite settings, so unchanged files can be skipped on later runs. It also
// keeps a history of runs.
package cache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

//go:embed migrations/*.sql
var migrations embed.FS

// DefaultPath is the cache location relative to the working directory.
const DefaultPath = ".leapup/cache.db"

// Store is a SQLite-backed cache.
type Store struct {
	db *sql.DB
}

// Run is one recorded invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Checked    int
	Changed    int
	Failed     int
	Skipped    int
}

// Open opens or creates the cache at path and applies pending migrations.
// Use ":memory:" for an in-memory cache.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	// Engine workers share the handle; SQLite takes one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping cache: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an already migrated connection.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Clean reports whether path was last seen with contentHash under settingsKey
// and needed no rewrite.
func (s *Store) Clean(path, contentHash, settingsKey string) (bool, error) {
	var hash, key string
	err := s.db.QueryRow(
		`SELECT content_hash, settings_key FROM file_hashes WHERE file_path = ?`, path,
	).Scan(&hash, &key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", path, err)
	}
	return hash == contentHash && key == settingsKey, nil
}

// MarkClean records that path with contentHash needs no rewrite under
// settingsKey.
func (s *Store) MarkClean(path, contentHash, settingsKey string) error {
	_, err := s.db.Exec(
		`INSERT INTO file_hashes (file_path, content_hash, settings_key, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(file_path) DO UPDATE SET
		   content_hash = excluded.content_hash,
		   settings_key = excluded.settings_key,
		   updated_at = excluded.updated_at`,
		path, contentHash, settingsKey, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", path, err)
	}
	return nil
}

// Forget drops every cached file entry and returns how many were removed.
func (s *Store) Forget(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM file_hashes`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return res.RowsAffected()
}

// StartRun records the start of a run and returns its ID.
func (s *Store) StartRun(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`, id, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// FinishRun stores the counters of a run started with StartRun.
func (s *Store) FinishRun(ctx context.Context, id string, checked, changed, failed, skipped int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, checked = ?, changed = ?, failed = ?, skipped = ? WHERE id = ?`,
		time.Now().UTC(), checked, changed, failed, skipped, id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, checked, changed, failed, skipped
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Checked, &r.Changed, &r.Failed, &r.Skipped); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
