// README: Postgres connection pool initialization and the Postgres-backed KV.
package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
    key        TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type PostgresKV struct {
	db *pgxpool.Pool
}

func NewPostgresKV(db *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{db: db}
}

func (p *PostgresKV) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, kvSchema); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return getValue(ctx, p.db, key)
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	return putValue(ctx, p.db, key, value)
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

// Update serializes writers on the key with a transaction-scoped advisory
// lock, which also covers the case where the row does not exist yet.
func (p *PostgresKV) Update(ctx context.Context, key string, fn UpdateFunc) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("postgres lock %s: %w", key, err)
	}

	cur, found, err := getValue(ctx, tx, key)
	if err != nil {
		return err
	}
	next, err := fn(cur, found)
	if err != nil {
		return err
	}
	if err := putValue(ctx, tx, key, next); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres commit %s: %w", key, err)
	}
	return nil
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getValue(ctx context.Context, q pgxQuerier, key string) ([]byte, bool, error) {
	var v []byte
	err := q.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return v, true, nil
}

func putValue(ctx context.Context, q pgxQuerier, key string, value []byte) error {
	_, err := q.Exec(ctx, `
        INSERT INTO kv_store (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE
        SET value = EXCLUDED.value,
            updated_at = EXCLUDED.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("postgres put %s: %w", key, err)
	}
	return nil
}
