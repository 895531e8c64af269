// package wizard holds the state of the three-step release creation form
//
// The form starts with one empty album artist and one blank track. Steps are validated when leaving them:
//   - [StepAlbumInfo] : title, at least one artist and a genre; UPC and original date when previously released
//   - [StepTracklist] : at least one track, every track named
//   - [StepPreview] : read-only summary
//
// [Wizard.SaveDraft] only needs a title; [Wizard.Submit] validates every step.
package wizard

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Step is a page of the form.
type Step int

const (
	StepAlbumInfo Step = iota
	StepTracklist
	StepPreview
)

// Steps lists the pages in order.
var Steps = []Step{StepAlbumInfo, StepTracklist, StepPreview}

func (s Step) String() string {
	switch s {
	case StepAlbumInfo:
		return "Album info"
	case StepTracklist:
		return "Tracklist"
	case StepPreview:
		return "Preview"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Form is the data entered so far.
type Form struct {
	AlbumTitle     string
	AlbumArtists   []string
	WasReleased    bool
	UPC            string
	OldReleaseDate string
	Cover          string
	Genre          string
	Tracks         []models.Track
}

// Wizard walks a [Form] through the creation steps.
type Wizard struct {
	step  Step
	form  Form
	newID func() string
}

// New starts an empty form on the first step.
func New() *Wizard {
	w := &Wizard{newID: shared.GenerateID}
	w.form = Form{
		AlbumArtists: []string{""},
		Tracks:       []models.Track{models.NewTrack(w.newID())},
	}
	return w
}

// Step returns the current page.
func (w *Wizard) Step() Step { return w.step }

// Form returns a copy of the form.
func (w *Wizard) Form() Form {
	f := w.form
	f.AlbumArtists = slices.Clone(w.form.AlbumArtists)
	f.Tracks = slices.Clone(w.form.Tracks)
	return f
}

// SetAlbumInfo replaces the first page's scalar fields.
func (w *Wizard) SetAlbumInfo(title, genre string, wasReleased bool, upc, oldReleaseDate string) {
	w.form.AlbumTitle = title
	w.form.Genre = genre
	w.form.WasReleased = wasReleased
	w.form.UPC = upc
	w.form.OldReleaseDate = oldReleaseDate
}

// SetCover stores the cover as a data URI. See formatter.CoverDataURI.
func (w *Wizard) SetCover(dataURI string) { w.form.Cover = dataURI }

// AddArtist appends an empty album artist entry.
func (w *Wizard) AddArtist() { w.form.AlbumArtists = append(w.form.AlbumArtists, "") }

// SetArtist sets the album artist at index i.
func (w *Wizard) SetArtist(i int, name string) error {
	if i < 0 || i >= len(w.form.AlbumArtists) {
		return fmt.Errorf("%w: artist index %d", shared.ErrInvalidArgument, i)
	}
	w.form.AlbumArtists[i] = name
	return nil
}

// RemoveArtist drops the album artist at index i. The last entry cannot be removed.
func (w *Wizard) RemoveArtist(i int) error {
	if i < 0 || i >= len(w.form.AlbumArtists) {
		return fmt.Errorf("%w: artist index %d", shared.ErrInvalidArgument, i)
	}
	if len(w.form.AlbumArtists) == 1 {
		return fmt.Errorf("%w: a release needs an artist entry", shared.ErrInvalidArgument)
	}
	w.form.AlbumArtists = slices.Delete(w.form.AlbumArtists, i, i+1)
	return nil
}

// AddTrack appends a blank track and returns its id.
func (w *Wizard) AddTrack() string {
	t := models.NewTrack(w.newID())
	w.form.Tracks = append(w.form.Tracks, t)
	return t.ID
}

// UpdateTrack applies fn to the track with id. The id itself cannot change.
func (w *Wizard) UpdateTrack(id string, fn func(*models.Track)) error {
	i := w.trackIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: track %s", shared.ErrInvalidArgument, id)
	}
	fn(&w.form.Tracks[i])
	w.form.Tracks[i].ID = id
	return nil
}

// RemoveTrack drops the track with id. The last track cannot be removed.
func (w *Wizard) RemoveTrack(id string) error {
	i := w.trackIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: track %s", shared.ErrInvalidArgument, id)
	}
	if len(w.form.Tracks) == 1 {
		return fmt.Errorf("%w: a release needs a track", shared.ErrInvalidArgument)
	}
	w.form.Tracks = slices.Delete(w.form.Tracks, i, i+1)
	return nil
}

func (w *Wizard) trackIndex(id string) int {
	return slices.IndexFunc(w.form.Tracks, func(t models.Track) bool { return t.ID == id })
}

// Next validates the current page and advances.
func (w *Wizard) Next() error {
	if w.step == StepPreview {
		return fmt.Errorf("%w: already on the last step", shared.ErrInvalidTransition)
	}
	if err := w.validate(w.step); err != nil {
		return err
	}
	w.step++
	return nil
}

// Back returns to the previous page without validation.
func (w *Wizard) Back() error {
	if w.step == StepAlbumInfo {
		return fmt.Errorf("%w: already on the first step", shared.ErrInvalidTransition)
	}
	w.step--
	return nil
}

// Goto jumps to step. Moving forward requires every page before step to validate.
func (w *Wizard) Goto(step Step) error {
	if step < StepAlbumInfo || step > StepPreview {
		return fmt.Errorf("%w: %s", shared.ErrInvalidArgument, step)
	}
	for s := StepAlbumInfo; s < step; s++ {
		if err := w.validate(s); err != nil {
			return err
		}
	}
	w.step = step
	return nil
}

// Validate checks every page and returns the first failure.
func (w *Wizard) Validate() error {
	for _, s := range Steps {
		if err := w.validate(s); err != nil {
			return err
		}
	}
	return nil
}

func (w *Wizard) validate(step Step) error {
	f := &w.form
	switch step {
	case StepAlbumInfo:
		var missing []string
		if strings.TrimSpace(f.AlbumTitle) == "" {
			missing = append(missing, "album title")
		}
		if len(models.CompactStrings(f.AlbumArtists)) == 0 {
			missing = append(missing, "album artist")
		}
		if strings.TrimSpace(f.Genre) == "" {
			missing = append(missing, "genre")
		}
		if f.WasReleased {
			if strings.TrimSpace(f.UPC) == "" {
				missing = append(missing, "UPC")
			}
			if strings.TrimSpace(f.OldReleaseDate) == "" {
				missing = append(missing, "original release date")
			} else if _, err := time.Parse(shared.DateLayout, f.OldReleaseDate); err != nil {
				return fmt.Errorf("%w: original release date must be YYYY-MM-DD", shared.ErrInvalidInput)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", shared.ErrIncompleteStep, strings.Join(missing, ", "))
		}
	case StepTracklist:
		if len(f.Tracks) == 0 {
			return fmt.Errorf("%w: at least one track", shared.ErrIncompleteStep)
		}
		for i, t := range f.Tracks {
			if strings.TrimSpace(t.Name) == "" {
				return fmt.Errorf("%w: track %d name", shared.ErrIncompleteStep, i+1)
			}
		}
	}
	return nil
}

// Build assembles a release from the form. Blank list entries are dropped, release history fields are
// cleared for new albums, and lyrics fields are cleared for tracks without lyrics.
func (w *Wizard) Build(status models.ReleaseStatus) *models.Release {
	f := w.Form()
	r := &models.Release{
		AlbumTitle:   strings.TrimSpace(f.AlbumTitle),
		AlbumArtists: models.CompactStrings(f.AlbumArtists),
		WasReleased:  models.YesNo(f.WasReleased),
		Cover:        f.Cover,
		Status:       status,
		Genre:        strings.TrimSpace(f.Genre),
		Tracks:       make([]models.Track, 0, len(f.Tracks)),
	}
	if f.WasReleased {
		r.UPC = strings.TrimSpace(f.UPC)
		r.OldReleaseDate = strings.TrimSpace(f.OldReleaseDate)
	}

	for _, t := range f.Tracks {
		t.Name = strings.TrimSpace(t.Name)
		t.Artists = models.CompactStrings(t.Artists)
		t.Musicians = models.CompactStrings(t.Musicians)
		t.Lyricists = models.CompactStrings(t.Lyricists)
		if !t.HasLyrics {
			t.Language, t.Lyrics = "", ""
		}
		r.Tracks = append(r.Tracks, t)
	}
	return r
}

// SaveDraft builds a draft. Only the album title is required.
func (w *Wizard) SaveDraft() (*models.Release, error) {
	if strings.TrimSpace(w.form.AlbumTitle) == "" {
		return nil, fmt.Errorf("%w: album title", shared.ErrIncompleteStep)
	}
	return w.Build(models.StatusDraft), nil
}

// Submit validates every page and builds a release for moderation.
func (w *Wizard) Submit() (*models.Release, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w.Build(models.StatusModeration), nil
}
