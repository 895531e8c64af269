package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Releases returns the active releases of userID, or of every user when userID is empty.
func (s *Store) Releases(ctx context.Context, userID string) ([]models.Release, error) {
	return list[models.Release](ctx, s, KeyReleases, userID)
}

// Release returns the active release with id.
func (s *Store) Release(ctx context.Context, id string) (*models.Release, error) {
	return find[models.Release](ctx, s, KeyReleases, id, shared.ErrReleaseNotFound)
}

// SaveRelease appends r to the active list.
//
// An empty id is replaced by a generated one and a zero createdAt is stamped. Ids already used by an
// active or trashed release are rejected.
func (s *Store) SaveRelease(ctx context.Context, r *models.Release) error {
	if r.ID == "" {
		r.ID = shared.GenerateID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = models.NewTimestamp(s.timestamp())
	}

	return s.backend.Update(ctx, func(tx Tx) error {
		active, err := editList[models.Release](tx, KeyReleases)
		if err != nil {
			return err
		}
		trash, err := editList[models.Release](tx, KeyTrash)
		if err != nil {
			return err
		}
		if indexOf(active, r.ID) >= 0 || indexOf(trash, r.ID) >= 0 {
			return fmt.Errorf("%w: release %s", shared.ErrDuplicateID, r.ID)
		}
		return writeList(tx, KeyReleases, append(active, *r))
	})
}

// UpdateRelease merges patch into the active release with id and stamps updatedAt.
func (s *Store) UpdateRelease(ctx context.Context, id string, patch models.ReleasePatch) (*models.Release, error) {
	return update[models.Release](ctx, s, KeyReleases, id, shared.ErrReleaseNotFound, func(r *models.Release) {
		patch.Apply(r)
		r.UpdatedAt = models.NewTimestamp(s.timestamp())
	})
}

// DeleteRelease moves the active release with id to the trash in a single transaction.
func (s *Store) DeleteRelease(ctx context.Context, id string) error {
	return s.backend.Update(ctx, func(tx Tx) error {
		active, err := editList[models.Release](tx, KeyReleases)
		if err != nil {
			return err
		}
		i := indexOf(active, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", shared.ErrReleaseNotFound, id)
		}

		trash, err := editList[models.Release](tx, KeyTrash)
		if err != nil {
			return err
		}

		moved := active[i]
		moved.DeletedAt = models.NewTimestamp(s.timestamp())

		if err := writeList(tx, KeyReleases, slices.Delete(active, i, i+1)); err != nil {
			return err
		}
		return writeList(tx, KeyTrash, append(trash, moved))
	})
}

// Trash returns the trashed releases of userID, or of every user when userID is empty.
func (s *Store) Trash(ctx context.Context, userID string) ([]models.Release, error) {
	return list[models.Release](ctx, s, KeyTrash, userID)
}

// RestoreFromTrash moves the trashed release with id back to the end of the active list.
func (s *Store) RestoreFromTrash(ctx context.Context, id string) error {
	return s.backend.Update(ctx, func(tx Tx) error {
		trash, err := editList[models.Release](tx, KeyTrash)
		if err != nil {
			return err
		}
		i := indexOf(trash, id)
		if i < 0 {
			return fmt.Errorf("%w: %s in trash", shared.ErrReleaseNotFound, id)
		}

		active, err := editList[models.Release](tx, KeyReleases)
		if err != nil {
			return err
		}

		restored := trash[i]
		restored.DeletedAt = ""

		if err := writeList(tx, KeyTrash, slices.Delete(trash, i, i+1)); err != nil {
			return err
		}
		if indexOf(active, id) >= 0 {
			s.logger.Warn("release already active, dropping trash copy", "id", id)
			return nil
		}
		return writeList(tx, KeyReleases, append(active, restored))
	})
}

// DeleteFromTrashPermanently removes the trashed release with id.
func (s *Store) DeleteFromTrashPermanently(ctx context.Context, id string) error {
	return s.backend.Update(ctx, func(tx Tx) error {
		trash, err := editList[models.Release](tx, KeyTrash)
		if err != nil {
			return err
		}
		i := indexOf(trash, id)
		if i < 0 {
			return fmt.Errorf("%w: %s in trash", shared.ErrReleaseNotFound, id)
		}
		return writeList(tx, KeyTrash, slices.Delete(trash, i, i+1))
	})
}

// EmptyTrash removes the trashed releases of userID, or all of them when userID is empty.
// It returns how many were removed.
func (s *Store) EmptyTrash(ctx context.Context, userID string) (int, error) {
	removed := 0
	err := s.backend.Update(ctx, func(tx Tx) error {
		trash, err := editList[models.Release](tx, KeyTrash)
		if err != nil {
			return err
		}

		kept := slices.DeleteFunc(trash, func(r models.Release) bool {
			return userID == "" || r.UserID == userID
		})
		removed = len(trash) - len(kept)
		if removed == 0 {
			return nil
		}
		return writeList(tx, KeyTrash, kept)
	})
	return removed, err
}
