package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/defensoria/expedientes/internal/store"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Backend stores collection payloads in a single sqlite key/value table.
type Backend struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Backend = (*Backend)(nil)

// Open opens the database at path, creating parent directories and the schema as needed.
func Open(path string) (*Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newBackend(db)
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Backend, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	return newBackend(db)
}

// newBackend migrates db and wraps it.
func newBackend(db *sql.DB) (*Backend, error) {
	b := &Backend{db: db, now: time.Now}
	if err := b.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// Close closes the requested operation.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Ping checks that the database answers.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// migrate handles migrate.
func (b *Backend) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA busy_timeout = 5000;`,
		`CREATE TABLE IF NOT EXISTS kv_collections (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT '[]',
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// Get returns the payload stored under key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM kv_collections WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set upserts the payload stored under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO kv_collections(key, value, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), ts(b.now()))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in sorted order.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key FROM kv_collections ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// UpdatedAt returns when key was last written.
func (b *Backend) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	var raw string
	err := b.db.QueryRowContext(ctx, `SELECT updated_at FROM kv_collections WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get %s updated_at: %w", key, err)
	}
	return parseTS(raw), true, nil
}

// ts formats a timestamp for storage.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
