package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresBucket is a persistent bucket backed by a PostgreSQL kv_store table.
type PostgresBucket struct {
	db      *sql.DB
	name    string
	timeout time.Duration
}

// NewPostgresBucket creates a new Postgres-backed bucket.
// The kv_store table must exist (see db.MigratePostgres).
func NewPostgresBucket(db *sql.DB, name string, timeout time.Duration) *PostgresBucket {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PostgresBucket{
		db:      db,
		name:    name,
		timeout: timeout,
	}
}

func (b *PostgresBucket) Name() string {
	return b.name
}

func (b *PostgresBucket) IsPersistent() bool {
	return true
}

func (b *PostgresBucket) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}

func (b *PostgresBucket) Get(key string) (string, bool, error) {
	ctx, cancel := b.ctx()
	defer cancel()

	var value string
	err := b.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE bucket = $1 AND key = $2`,
		b.name, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to get value: %w", ErrUnavailable, err)
	}
	return value, true, nil
}

func (b *PostgresBucket) Set(key, value string) error {
	ctx, cancel := b.ctx()
	defer cancel()

	now := time.Now().UTC().Unix()
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO kv_store (bucket, key, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (bucket, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, b.name, key, value, now)
	if err != nil {
		return fmt.Errorf("%w: failed to store value: %w", ErrUnavailable, err)
	}
	return nil
}

func (b *PostgresBucket) Delete(key string) (bool, error) {
	ctx, cancel := b.ctx()
	defer cancel()

	result, err := b.db.ExecContext(ctx,
		`DELETE FROM kv_store WHERE bucket = $1 AND key = $2`,
		b.name, key,
	)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete key: %w", ErrUnavailable, err)
	}

	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// Keys returns all keys in the bucket, sorted.
func (b *PostgresBucket) Keys() ([]string, error) {
	ctx, cancel := b.ctx()
	defer cancel()

	rows, err := b.db.QueryContext(ctx,
		`SELECT key FROM kv_store WHERE bucket = $1 ORDER BY key`,
		b.name,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list keys: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: failed to scan key: %w", ErrUnavailable, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to list keys: %w", ErrUnavailable, err)
	}
	return keys, nil
}

func (b *PostgresBucket) Clear() error {
	ctx, cancel := b.ctx()
	defer cancel()

	if _, err := b.db.ExecContext(ctx, `DELETE FROM kv_store WHERE bucket = $1`, b.name); err != nil {
		return fmt.Errorf("%w: failed to clear bucket: %w", ErrUnavailable, err)
	}
	return nil
}
