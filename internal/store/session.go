package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// CurrentUser returns the user in the session slot, or nil when nobody is signed in.
func (s *Store) CurrentUser(ctx context.Context) (*models.User, error) {
	var current *models.User
	err := s.backend.View(ctx, func(tx Tx) error {
		data, err := tx.Get(KeyCurrentUser)
		if errors.Is(err, shared.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var u models.User
		if err := json.Unmarshal(data, &u); err != nil || u.ID == "" {
			s.logger.Warn("ignoring malformed session", "key", KeyCurrentUser, "err", err)
			return nil
		}
		current = &u
		return nil
	})
	return current, err
}

// SetCurrentUser writes u to the session slot without its password. A nil u clears the slot.
func (s *Store) SetCurrentUser(ctx context.Context, u *models.User) error {
	return s.backend.Update(ctx, func(tx Tx) error {
		if u == nil {
			return tx.Delete(KeyCurrentUser)
		}
		data, err := json.Marshal(u.Redacted())
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
		return tx.Set(KeyCurrentUser, data)
	})
}

// Theme returns the selected theme id, or [models.DefaultTheme] when none is stored.
func (s *Store) Theme(ctx context.Context) (string, error) {
	theme := models.DefaultTheme
	err := s.backend.View(ctx, func(tx Tx) error {
		data, err := tx.Get(KeyTheme)
		if errors.Is(err, shared.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(data) > 0 {
			theme = string(data)
		}
		return nil
	})
	return theme, err
}

// SetTheme stores the theme id as a bare string.
func (s *Store) SetTheme(ctx context.Context, id string) error {
	return s.backend.Update(ctx, func(tx Tx) error {
		return tx.Set(KeyTheme, []byte(id))
	})
}
