package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// SettingsService manages the selected theme. The theme is per installation, not per user.
type SettingsService struct {
	store RecordStore
}

func NewSettingsService(st RecordStore) *SettingsService {
	return &SettingsService{store: st}
}

// Themes lists the selectable themes.
func (s *SettingsService) Themes() []models.Theme {
	return models.Themes
}

// Theme returns the selected theme, falling back to the default for unknown stored ids.
func (s *SettingsService) Theme(ctx context.Context) (models.Theme, error) {
	id, err := s.store.Theme(ctx)
	if err != nil {
		return models.Theme{}, err
	}
	return models.ThemeOrDefault(id), nil
}

// SetTheme selects the theme with id.
func (s *SettingsService) SetTheme(ctx context.Context, id string) (models.Theme, error) {
	theme, ok := models.LookupTheme(id)
	if !ok {
		return models.Theme{}, fmt.Errorf("%w: unknown theme %q", shared.ErrInvalidArgument, id)
	}
	if err := s.store.SetTheme(ctx, theme.ID); err != nil {
		return models.Theme{}, err
	}
	return theme, nil
}
