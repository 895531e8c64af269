package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Store is the local record store: users, releases, trash, tickets, the session slot and the theme.
//
// Collections are read and rewritten whole inside backend transactions. Each exported method is one
// transaction, so a caller never observes a half-applied change.
type Store struct {
	backend Backend
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a [Store].
type Option func(*Store)

// WithClock replaces the clock used for createdAt, updatedAt and deletedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store over backend.
func New(backend Backend, logger *log.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  shared.WithLogger(logger, "component", "store"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the backend the store runs on.
func (s *Store) Backend() Backend { return s.backend }

// Close closes the backend.
func (s *Store) Close() error { return s.backend.Close() }

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// readList decodes the JSON array under key for display. Missing keys and malformed documents both yield
// an empty list.
func readList[T any](s *Store, tx Tx, key string) ([]T, error) {
	items, err := editList[T](tx, key)
	if errors.Is(err, shared.ErrMalformed) {
		s.logger.Warn("ignoring malformed document", "key", key, "err", err)
		return []T{}, nil
	}
	return items, err
}

// editList decodes the JSON array under key before it is rewritten. A malformed document is an
// [shared.ErrMalformed] error so the caller never writes over data it could not read.
func editList[T any](tx Tx, key string) ([]T, error) {
	data, err := tx.Get(key)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrMalformed, key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func writeList[T any](tx Tx, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return tx.Set(key, data)
}

// record constrains P to the pointer type of E implementing [models.Record].
type record[E any] interface {
	*E
	models.Record
}

func indexOf[E any, P record[E]](items []E, id string) int {
	for i := range items {
		if P(&items[i]).RecordID() == id {
			return i
		}
	}
	return -1
}

// ownedBy returns the items belonging to userID, or all of them when userID is empty.
func ownedBy[E any, P record[E]](items []E, userID string) []E {
	if userID == "" {
		return items
	}
	out := make([]E, 0, len(items))
	for i := range items {
		if P(&items[i]).Owner() == userID {
			out = append(out, items[i])
		}
	}
	return out
}

// list reads the collection under key filtered to userID.
func list[E any, P record[E]](ctx context.Context, s *Store, key, userID string) ([]E, error) {
	var out []E
	err := s.backend.View(ctx, func(tx Tx) error {
		items, err := readList[E](s, tx, key)
		if err != nil {
			return err
		}
		out = ownedBy[E, P](items, userID)
		return nil
	})
	return out, err
}

// find returns a copy of the record with id from the collection under key.
func find[E any, P record[E]](ctx context.Context, s *Store, key, id string, notFound error) (*E, error) {
	var out *E
	err := s.backend.View(ctx, func(tx Tx) error {
		items, err := readList[E](s, tx, key)
		if err != nil {
			return err
		}
		i := indexOf[E, P](items, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", notFound, id)
		}
		out = &items[i]
		return nil
	})
	return out, err
}

// update applies patch to the record with id and rewrites the collection.
func update[E any, P record[E]](ctx context.Context, s *Store, key, id string, notFound error, patch func(P)) (*E, error) {
	var out *E
	err := s.backend.Update(ctx, func(tx Tx) error {
		items, err := editList[E](tx, key)
		if err != nil {
			return err
		}
		i := indexOf[E, P](items, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", notFound, id)
		}

		patch(P(&items[i]))
		if err := writeList(tx, key, items); err != nil {
			return err
		}
		cp := items[i]
		out = &cp
		return nil
	})
	return out, err
}
