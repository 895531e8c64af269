package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/kedoo/internal/shared"
)

// SQLiteBackend stores each key as a row of the kv table. Each callback runs in one SQL transaction.
type SQLiteBackend struct {
	db *sql.DB
}

var _ Backend = (*SQLiteBackend)(nil)

// NewSQLiteBackend wraps an already migrated database.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// OpenSQLiteBackend opens the database at config.Path and applies pending migrations.
func OpenSQLiteBackend(ctx context.Context, config shared.DatabaseConfig) (*SQLiteBackend, error) {
	db, err := shared.NewDatabase(config.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, config.MaxOpenConns, config.MaxIdleConns)

	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return NewSQLiteBackend(db), nil
}

// DB exposes the underlying connection pool.
func (b *SQLiteBackend) DB() *sql.DB { return b.db }

func (b *SQLiteBackend) View(ctx context.Context, fn func(Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(&sqlTx{ctx: ctx, tx: tx, readOnly: true})
}

func (b *SQLiteBackend) Update(ctx context.Context, fn func(Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }

type sqlTx struct {
	ctx      context.Context
	tx       *sql.Tx
	readOnly bool
}

func (t *sqlTx) Get(key string) ([]byte, error) {
	var value string
	err := t.tx.QueryRowContext(t.ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return []byte(value), nil
}

func (t *sqlTx) Set(key string, value []byte) error {
	if t.readOnly {
		return shared.ErrReadOnly
	}
	query := `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := t.tx.ExecContext(t.ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (t *sqlTx) Delete(key string) error {
	if t.readOnly {
		return shared.ErrReadOnly
	}
	if _, err := t.tx.ExecContext(t.ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
