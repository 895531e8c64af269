package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// TrashService manages the signed-in user's deleted releases.
type TrashService struct {
	store  RecordStore
	logger *log.Logger
}

func NewTrashService(st RecordStore, logger *log.Logger) *TrashService {
	return &TrashService{store: st, logger: shared.WithLogger(logger, "service", "trash")}
}

// List returns the signed-in user's trashed releases in deletion order.
func (t *TrashService) List(ctx context.Context) ([]models.Release, error) {
	u, err := session(ctx, t.store)
	if err != nil {
		return nil, err
	}
	return t.store.Trash(ctx, u.ID)
}

// Restore moves a trashed release back to the active list.
func (t *TrashService) Restore(ctx context.Context, id string) error {
	if err := t.ownedInTrash(ctx, id); err != nil {
		return err
	}
	if err := t.store.RestoreFromTrash(ctx, id); err != nil {
		return err
	}
	t.logger.Info("release restored", "id", id)
	return nil
}

// Purge deletes a trashed release for good.
func (t *TrashService) Purge(ctx context.Context, id string) error {
	if err := t.ownedInTrash(ctx, id); err != nil {
		return err
	}
	if err := t.store.DeleteFromTrashPermanently(ctx, id); err != nil {
		return err
	}
	t.logger.Info("release deleted permanently", "id", id)
	return nil
}

// Empty purges every trashed release of the signed-in user and returns how many were removed.
func (t *TrashService) Empty(ctx context.Context) (int, error) {
	u, err := session(ctx, t.store)
	if err != nil {
		return 0, err
	}
	n, err := t.store.EmptyTrash(ctx, u.ID)
	if err != nil {
		return 0, err
	}
	t.logger.Info("trash emptied", "removed", n)
	return n, nil
}

func (t *TrashService) ownedInTrash(ctx context.Context, id string) error {
	u, err := session(ctx, t.store)
	if err != nil {
		return err
	}
	all, err := t.store.Trash(ctx, "")
	if err != nil {
		return err
	}
	for _, r := range all {
		if r.ID != id {
			continue
		}
		if r.UserID != u.ID {
			return fmt.Errorf("%w: release %s", shared.ErrForbidden, id)
		}
		return nil
	}
	return fmt.Errorf("%w: %s in trash", shared.ErrReleaseNotFound, id)
}
