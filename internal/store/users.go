package store

import (
	"context"
	"fmt"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Users returns every registered user in registration order.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, s, KeyUsers, "")
}

// User returns the user with id.
func (s *Store) User(ctx context.Context, id string) (*models.User, error) {
	return find[models.User](ctx, s, KeyUsers, id, shared.ErrUserNotFound)
}

// SaveUser appends u. An empty id is replaced by a generated one; an id already in use is rejected.
//
// Email uniqueness is not enforced here.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = shared.GenerateID()
	}
	return s.backend.Update(ctx, func(tx Tx) error {
		users, err := editList[models.User](tx, KeyUsers)
		if err != nil {
			return err
		}
		if indexOf(users, u.ID) >= 0 {
			return fmt.Errorf("%w: user %s", shared.ErrDuplicateID, u.ID)
		}
		return writeList(tx, KeyUsers, append(users, *u))
	})
}

// FindUser returns the first user whose email and password both match exactly.
func (s *Store) FindUser(ctx context.Context, email, password string) (*models.User, error) {
	return s.firstUser(ctx, func(u *models.User) bool {
		return u.Email == email && u.Password == password
	})
}

// UserByEmail returns the first user registered with email. Matching is exact and case-sensitive.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.firstUser(ctx, func(u *models.User) bool { return u.Email == email })
}

func (s *Store) firstUser(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(&users[i]) {
			return &users[i], nil
		}
	}
	return nil, shared.ErrUserNotFound
}

// UpdateUser merges patch into the user with id and returns the result.
func (s *Store) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	return update[models.User](ctx, s, KeyUsers, id, shared.ErrUserNotFound, patch.Apply)
}
