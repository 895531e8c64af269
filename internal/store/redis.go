package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/redis/go-redis/v9"
)

// defaultRedisRetries bounds optimistic retries when the config leaves max_retries unset.
const defaultRedisRetries = 5

// errWatchSetGrew signals that a callback read keys that were not under WATCH; the attempt is rerun with them.
var errWatchSetGrew = errors.New("watch set grew")

// RedisBackend stores each key under prefix+key.
//
// Update is optimistic: the keys a callback reads are watched, writes are queued in a MULTI/EXEC
// pipeline, and the whole callback is rerun when a watched key changes underneath it.
type RedisBackend struct {
	client     *redis.Client
	prefix     string
	maxRetries int
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend wraps client. Keys are namespaced by prefix, e.g. "kedoo:".
func NewRedisBackend(client *redis.Client, prefix string, maxRetries int) *RedisBackend {
	if maxRetries <= 0 {
		maxRetries = defaultRedisRetries
	}
	return &RedisBackend{client: client, prefix: prefix, maxRetries: maxRetries}
}

func (r *RedisBackend) View(ctx context.Context, fn func(Tx) error) error {
	return fn(&redisTx{ctx: ctx, getter: r.client, prefix: r.prefix, readOnly: true})
}

func (r *RedisBackend) Update(ctx context.Context, fn func(Tx) error) error {
	watched := map[string]struct{}{}

	for conflicts := 0; conflicts < r.maxRetries; {
		var tx *redisTx
		err := r.client.Watch(ctx, func(rtx *redis.Tx) error {
			tx = &redisTx{ctx: ctx, getter: rtx, prefix: r.prefix, reads: map[string]struct{}{}, writes: map[string][]byte{}}
			if err := fn(tx); err != nil {
				return err
			}

			for k := range tx.reads {
				if _, ok := watched[k]; !ok {
					return errWatchSetGrew
				}
			}
			if len(tx.writes) == 0 {
				return nil
			}

			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for k, v := range tx.writes {
					if v == nil {
						pipe.Del(ctx, k)
						continue
					}
					pipe.Set(ctx, k, v, 0)
				}
				return nil
			})
			return err
		}, slices.Sorted(maps.Keys(watched))...)

		switch {
		case err == nil:
			return nil
		case errors.Is(err, errWatchSetGrew):
			maps.Copy(watched, tx.reads)
		case errors.Is(err, redis.TxFailedErr):
			conflicts++
		default:
			return err
		}
	}

	return fmt.Errorf("%w: gave up after %d attempts", shared.ErrConflict, r.maxRetries)
}

func (r *RedisBackend) Close() error { return r.client.Close() }

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// redisTx reads through staged writes to redis. Keys in reads and writes carry the prefix.
type redisTx struct {
	ctx      context.Context
	getter   redisGetter
	prefix   string
	reads    map[string]struct{}
	writes   map[string][]byte
	readOnly bool
}

func (t *redisTx) Get(key string) ([]byte, error) {
	k := t.prefix + key
	if v, ok := t.writes[k]; ok {
		if v == nil {
			return nil, shared.ErrKeyNotFound
		}
		return slices.Clone(v), nil
	}
	if t.reads != nil {
		t.reads[k] = struct{}{}
	}

	data, err := t.getter.Get(t.ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return data, nil
}

func (t *redisTx) Set(key string, value []byte) error {
	if t.readOnly {
		return shared.ErrReadOnly
	}
	if value == nil {
		value = []byte{}
	}
	t.writes[t.prefix+key] = slices.Clone(value)
	return nil
}

func (t *redisTx) Delete(key string) error {
	if t.readOnly {
		return shared.ErrReadOnly
	}
	t.writes[t.prefix+key] = nil
	return nil
}
