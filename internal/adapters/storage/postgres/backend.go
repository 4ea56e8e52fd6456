package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/defensoria/expedientes/internal/store"
)

// tableName is the key/value table shared with the sqlite layout.
const tableName = "kv_collections"

// psql builds statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Backend stores collection payloads in a PostgreSQL key/value table.
type Backend struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ store.Backend = (*Backend)(nil)

// NewBackend wraps pool and creates the table if needed.
func NewBackend(ctx context.Context, pool *pgxpool.Pool) (*Backend, error) {
	b := &Backend{pool: pool, now: time.Now}
	if err := b.migrate(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Close releases the pool.
func (b *Backend) Close() {
	b.pool.Close()
}

// Ping checks that the database answers.
func (b *Backend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

// migrate creates the key/value table.
func (b *Backend) migrate(ctx context.Context) error {
	_, err := b.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+tableName+` (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT '[]',
		updated_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

// Get returns the payload stored under key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := selectValue(key).ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build get %s: %w", key, err)
	}
	var value string
	if err := b.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set upserts the payload stored under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := upsertValue(key, value, b.now().UTC()).ToSql()
	if err != nil {
		return fmt.Errorf("build set %s: %w", key, err)
	}
	if _, err := b.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in sorted order.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	query, args, err := selectKeys().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build keys: %w", err)
	}
	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}
	return keys, nil
}

func selectValue(key string) squirrel.SelectBuilder {
	return psql.Select("value").From(tableName).Where(squirrel.Eq{"key": key})
}

func upsertValue(key string, value []byte, at time.Time) squirrel.InsertBuilder {
	return psql.Insert(tableName).
		Columns("key", "value", "updated_at").
		Values(key, string(value), at).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at")
}

func selectKeys() squirrel.SelectBuilder {
	return psql.Select("key").From(tableName).OrderBy("key ASC")
}
