package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// ReleaseFilter narrows [ReleaseService.List]. Zero fields match everything.
type ReleaseFilter struct {
	Status models.ReleaseStatus
	Genre  string
	Query  string // case-insensitive substring of the title or an artist
}

// Match reports whether r passes the filter.
func (f ReleaseFilter) Match(r *models.Release) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Genre != "" && !strings.EqualFold(r.Genre, f.Genre) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(r.AlbumTitle + "\n" + strings.Join(r.AlbumArtists, "\n"))
		return strings.Contains(haystack, q)
	}
	return true
}

// Stats counts the signed-in user's releases per status, as shown on the dashboard.
type Stats struct {
	Total    int                          `json:"total"`
	ByStatus map[models.ReleaseStatus]int `json:"byStatus"`
	Trashed  int                          `json:"trashed"`
	Tracks   int                          `json:"tracks"`
}

// ReleaseService manages the signed-in user's releases and the moderation workflow.
type ReleaseService struct {
	store  RecordStore
	logger *log.Logger
}

func NewReleaseService(st RecordStore, logger *log.Logger) *ReleaseService {
	return &ReleaseService{store: st, logger: shared.WithLogger(logger, "service", "releases")}
}

// List returns the signed-in user's active releases that match filter, in creation order.
func (s *ReleaseService) List(ctx context.Context, filter ReleaseFilter) ([]models.Release, error) {
	u, err := session(ctx, s.store)
	if err != nil {
		return nil, err
	}
	releases, err := s.store.Releases(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Release, 0, len(releases))
	for i := range releases {
		if filter.Match(&releases[i]) {
			out = append(out, releases[i])
		}
	}
	return out, nil
}

// Genres returns the distinct genres of the signed-in user's releases in first-seen order.
func (s *ReleaseService) Genres(ctx context.Context) ([]string, error) {
	releases, err := s.List(ctx, ReleaseFilter{})
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	genres := []string{}
	for _, r := range releases {
		if r.Genre != "" && !seen[r.Genre] {
			seen[r.Genre] = true
			genres = append(genres, r.Genre)
		}
	}
	return genres, nil
}

// Get returns one of the signed-in user's releases.
func (s *ReleaseService) Get(ctx context.Context, id string) (*models.Release, error) {
	u, err := session(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return s.owned(ctx, u, id)
}

func (s *ReleaseService) owned(ctx context.Context, u *models.User, id string) (*models.Release, error) {
	r, err := s.store.Release(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != u.ID {
		return nil, fmt.Errorf("%w: release %s", shared.ErrForbidden, id)
	}
	return r, nil
}

// Create saves r for the signed-in user. Only drafts and releases submitted for moderation can be created.
// Submitted releases must carry at least one artist and one track.
func (s *ReleaseService) Create(ctx context.Context, r *models.Release) (*models.Release, error) {
	u, err := session(ctx, s.store)
	if err != nil {
		return nil, err
	}

	r.UserID = u.ID
	r.ID = shared.GenerateID()
	r.RejectionReason = ""
	r.UpdatedAt, r.DeletedAt = "", ""
	if r.Status == "" {
		r.Status = models.StatusDraft
	}

	switch r.Status {
	case models.StatusDraft:
		if err := r.Validate(); err != nil {
			return nil, err
		}
	case models.StatusModeration:
		if err := submittable(r); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: a new release cannot be %s", shared.ErrInvalidTransition, r.Status)
	}

	if err := s.store.SaveRelease(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("release created", "id", r.ID, "status", r.Status)
	return r, nil
}

// Edit applies patch to a draft or rejected release of the signed-in user. The status cannot be patched.
func (s *ReleaseService) Edit(ctx context.Context, id string, patch models.ReleasePatch) (*models.Release, error) {
	u, err := session(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil || patch.RejectionReason != nil {
		return nil, fmt.Errorf("%w: status changes go through submit or moderation", shared.ErrInvalidArgument)
	}

	r, err := s.owned(ctx, u, id)
	if err != nil {
		return nil, err
	}
	if r.Status != models.StatusDraft && r.Status != models.StatusRejected {
		return nil, fmt.Errorf("%w: %s releases cannot be edited", shared.ErrInvalidTransition, r.Status)
	}

	patch.Apply(r)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.store.UpdateRelease(ctx, id, patch)
}

// Submit sends a draft or rejected release of the signed-in user to moderation.
func (s *ReleaseService) Submit(ctx context.Context, id string) (*models.Release, error) {
	u, err := session(ctx, s.store)
	if err != nil {
		return nil, err
	}
	r, err := s.owned(ctx, u, id)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransition(models.StatusModeration) {
		return nil, fmt.Errorf("%w: %s -> %s", shared.ErrInvalidTransition, r.Status, models.StatusModeration)
	}
	if err := submittable(r); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateRelease(ctx, id, models.StatusPatch(models.StatusModeration, ""))
	if err != nil {
		return nil, err
	}
	s.logger.Info("release submitted", "id", id)
	return updated, nil
}

// Decision is a moderator verdict.
type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

// Moderate records a moderator verdict on a release in moderation. Rejections need a reason.
// The moderator is not the release owner, so no session is required.
func (s *ReleaseService) Moderate(ctx context.Context, id string, decision Decision, reason string) (*models.Release, error) {
	var next models.ReleaseStatus
	switch decision {
	case Approve:
		next, reason = models.StatusApproved, ""
	case Reject:
		next = models.StatusRejected
		if strings.TrimSpace(reason) == "" {
			return nil, fmt.Errorf("%w: rejection reason", shared.ErrMissingArgument)
		}
	default:
		return nil, fmt.Errorf("%w: decision %q", shared.ErrInvalidArgument, decision)
	}

	r, err := s.store.Release(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != models.StatusModeration || !r.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", shared.ErrInvalidTransition, r.Status, next)
	}

	updated, err := s.store.UpdateRelease(ctx, id, models.StatusPatch(next, strings.TrimSpace(reason)))
	if err != nil {
		return nil, err
	}
	s.logger.Info("release moderated", "id", id, "status", next)
	return updated, nil
}

// Delete moves one of the signed-in user's releases to the trash.
func (s *ReleaseService) Delete(ctx context.Context, id string) error {
	u, err := session(ctx, s.store)
	if err != nil {
		return err
	}
	if _, err := s.owned(ctx, u, id); err != nil {
		return err
	}
	if err := s.store.DeleteRelease(ctx, id); err != nil {
		return err
	}
	s.logger.Info("release moved to trash", "id", id)
	return nil
}

// Stats returns the dashboard counters for the signed-in user.
func (s *ReleaseService) Stats(ctx context.Context) (*Stats, error) {
	u, err := session(ctx, s.store)
	if err != nil {
		return nil, err
	}
	releases, err := s.store.Releases(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	trash, err := s.store.Trash(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(releases), Trashed: len(trash), ByStatus: map[models.ReleaseStatus]int{}}
	for _, status := range models.ReleaseStatuses {
		stats.ByStatus[status] = 0
	}
	for _, r := range releases {
		stats.ByStatus[r.Status]++
		stats.Tracks += len(r.Tracks)
	}
	return stats, nil
}

// submittable checks what moderation needs beyond field validation.
func submittable(r *models.Release) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if len(models.CompactStrings(r.AlbumArtists)) == 0 {
		return fmt.Errorf("%w: at least one album artist", shared.ErrIncompleteStep)
	}
	if len(r.Tracks) == 0 {
		return fmt.Errorf("%w: at least one track", shared.ErrIncompleteStep)
	}
	for i, t := range r.Tracks {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: track %d has no name", shared.ErrIncompleteStep, i+1)
		}
	}
	return nil
}
