package store

import (
	"bytes"
	"context"
	"sync"

	"github.com/desertthunder/kedoo/internal/shared"
)

// MemoryBackend keeps the key space in a map guarded by a read-write mutex.
//
// Update callbacks run under the write lock against staged writes that are swapped in on success.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte

	// commit, when set, persists the next state before it becomes visible.
	commit func(map[string][]byte) error
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty [MemoryBackend].
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: map[string][]byte{}}
}

// View runs fn under the read lock with a read-only [Tx].
func (m *MemoryBackend) View(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fn(&memTx{base: m.data, readOnly: true})
}

// Update runs fn under the write lock and applies its writes when it returns nil.
func (m *MemoryBackend) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{base: m.data, writes: map[string][]byte{}}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.writes) == 0 {
		return nil
	}

	next := make(map[string][]byte, len(m.data)+len(tx.writes))
	for k, v := range m.data {
		next[k] = v
	}
	for k, v := range tx.writes {
		if v == nil {
			delete(next, k)
			continue
		}
		next[k] = v
	}

	if m.commit != nil {
		if err := m.commit(next); err != nil {
			return err
		}
	}
	m.data = next
	return nil
}

// Close is a no-op.
func (m *MemoryBackend) Close() error { return nil }

// Snapshot returns a copy of the key space.
func (m *MemoryBackend) Snapshot() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		out[k] = bytes.Clone(v)
	}
	return out
}

// memTx reads through staged writes to the base map. A nil staged value marks a deletion.
type memTx struct {
	base     map[string][]byte
	writes   map[string][]byte
	readOnly bool
}

func (t *memTx) Get(key string) ([]byte, error) {
	if v, ok := t.writes[key]; ok {
		if v == nil {
			return nil, shared.ErrKeyNotFound
		}
		return bytes.Clone(v), nil
	}
	v, ok := t.base[key]
	if !ok {
		return nil, shared.ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

func (t *memTx) Set(key string, value []byte) error {
	if t.readOnly {
		return shared.ErrReadOnly
	}
	if value == nil {
		value = []byte{}
	}
	t.writes[key] = bytes.Clone(value)
	return nil
}

func (t *memTx) Delete(key string) error {
	if t.readOnly {
		return shared.ErrReadOnly
	}
	t.writes[key] = nil
	return nil
}
