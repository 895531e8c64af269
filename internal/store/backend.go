package store

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/redis/go-redis/v9"
)

// Tx is a view of the key space inside a [Backend] transaction.
type Tx interface {
	Get(key string) ([]byte, error)    // Get returns the stored value or [shared.ErrKeyNotFound]
	Set(key string, value []byte) error // Set stages a write; fails with [shared.ErrReadOnly] in a view
	Delete(key string) error            // Delete stages a removal; fails with [shared.ErrReadOnly] in a view
}

// Backend is the key-value storage beneath a [Store].
//
// Update applies all writes made by fn atomically, and none of them when fn returns an error.
type Backend interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// Open builds the backend selected by config.Store.Backend.
func Open(ctx context.Context, config *shared.Config, logger *log.Logger) (Backend, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Store.Backend {
	case "memory":
		logger.Warn("using in-memory store, data will not survive this process")
		return NewMemoryBackend(), nil
	case "file":
		logger.Debug("opening file store", "path", config.Store.Path)
		return NewFileBackend(config.Store.Path)
	case "sqlite":
		logger.Debug("opening sqlite store", "path", config.Database.Path)
		return OpenSQLiteBackend(ctx, config.Database)
	case "redis":
		logger.Debug("opening redis store", "addr", config.Redis.Addr, "prefix", config.Redis.Prefix)
		client := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", config.Redis.Addr, err)
		}
		return NewRedisBackend(client, config.Redis.Prefix, config.Redis.MaxRetries), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownBackend, config.Store.Backend)
	}
}
