package wizard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(t *testing.T) *Wizard {
	t.Helper()
	w := New()
	w.SetAlbumInfo("Summer Vibes", "Pop", false, "", "")
	require.NoError(t, w.SetArtist(0, "Artist Name"))
	id := w.Form().Tracks[0].ID
	require.NoError(t, w.UpdateTrack(id, func(tr *models.Track) { tr.Name = "First Song" }))
	return w
}

func TestNew(t *testing.T) {
	w := New()
	f := w.Form()
	assert.Equal(t, StepAlbumInfo, w.Step())
	assert.Equal(t, []string{""}, f.AlbumArtists)
	require.Len(t, f.Tracks, 1)
	assert.True(t, f.Tracks[0].HasLyrics)
	assert.NotEmpty(t, f.Tracks[0].ID)
}

func TestNavigation(t *testing.T) {
	t.Run("next validates album info", func(t *testing.T) {
		w := New()
		err := w.Next()
		require.ErrorIs(t, err, shared.ErrIncompleteStep)
		assert.Contains(t, err.Error(), "album title")
		assert.Contains(t, err.Error(), "genre")
		assert.Equal(t, StepAlbumInfo, w.Step())
	})

	t.Run("previously released needs UPC and date", func(t *testing.T) {
		w := filled(t)
		w.SetAlbumInfo("Summer Vibes", "Pop", true, "", "")
		assert.ErrorIs(t, w.Next(), shared.ErrIncompleteStep)

		w.SetAlbumInfo("Summer Vibes", "Pop", true, "123456789012", "01/05/2020")
		assert.ErrorIs(t, w.Next(), shared.ErrInvalidInput)

		w.SetAlbumInfo("Summer Vibes", "Pop", true, "123456789012", "2020-05-01")
		assert.NoError(t, w.Next())
	})

	t.Run("walk through", func(t *testing.T) {
		w := filled(t)
		require.NoError(t, w.Next())
		assert.Equal(t, StepTracklist, w.Step())

		id := w.AddTrack()
		assert.ErrorIs(t, w.Next(), shared.ErrIncompleteStep, "new track has no name")
		require.NoError(t, w.RemoveTrack(id))

		require.NoError(t, w.Next())
		assert.Equal(t, StepPreview, w.Step())
		assert.ErrorIs(t, w.Next(), shared.ErrInvalidTransition)

		require.NoError(t, w.Back())
		require.NoError(t, w.Back())
		assert.ErrorIs(t, w.Back(), shared.ErrInvalidTransition)
	})

	t.Run("goto", func(t *testing.T) {
		w := New()
		assert.ErrorIs(t, w.Goto(StepPreview), shared.ErrIncompleteStep)

		w = filled(t)
		require.NoError(t, w.Goto(StepPreview))
		require.NoError(t, w.Goto(StepAlbumInfo))
		assert.ErrorIs(t, w.Goto(Step(7)), shared.ErrInvalidArgument)
	})
}

func TestEditing(t *testing.T) {
	w := New()
	w.AddArtist()
	require.NoError(t, w.SetArtist(1, "Guest"))
	assert.ErrorIs(t, w.SetArtist(5, "x"), shared.ErrInvalidArgument)

	require.NoError(t, w.RemoveArtist(0))
	assert.Equal(t, []string{"Guest"}, w.Form().AlbumArtists)
	assert.ErrorIs(t, w.RemoveArtist(0), shared.ErrInvalidArgument, "last artist stays")

	only := w.Form().Tracks[0].ID
	assert.ErrorIs(t, w.RemoveTrack(only), shared.ErrInvalidArgument, "last track stays")
	assert.ErrorIs(t, w.UpdateTrack("missing", func(*models.Track) {}), shared.ErrInvalidArgument)

	require.NoError(t, w.UpdateTrack(only, func(tr *models.Track) { tr.ID = "hijack" }))
	assert.Equal(t, only, w.Form().Tracks[0].ID, "track ids are stable")
}

func TestBuild(t *testing.T) {
	w := filled(t)
	w.AddArtist()
	id := w.Form().Tracks[0].ID
	require.NoError(t, w.UpdateTrack(id, func(tr *models.Track) {
		tr.Artists = []string{"Artist Name", " "}
		tr.HasLyrics = false
		tr.Language = "en"
		tr.Lyrics = "words"
	}))
	w.SetAlbumInfo("Summer Vibes", "Pop", false, "999", "2020-01-01")

	r := w.Build(models.StatusDraft)
	assert.Equal(t, []string{"Artist Name"}, r.AlbumArtists)
	assert.Empty(t, r.UPC, "history fields only apply to previously released albums")
	assert.Empty(t, r.OldReleaseDate)

	tr := r.Tracks[0]
	assert.Equal(t, []string{"Artist Name"}, tr.Artists)
	assert.Equal(t, []string{}, tr.Musicians)
	assert.Empty(t, tr.Lyrics)
	assert.Empty(t, tr.Language)
}

func TestSaveDraftAndSubmit(t *testing.T) {
	w := New()
	_, err := w.SaveDraft()
	assert.ErrorIs(t, err, shared.ErrIncompleteStep)

	w.SetAlbumInfo("Just a title", "", false, "", "")
	draft, err := w.SaveDraft()
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, draft.Status)

	_, err = w.Submit()
	assert.ErrorIs(t, err, shared.ErrIncompleteStep)

	w = filled(t)
	r, err := w.Submit()
	require.NoError(t, err)
	assert.Equal(t, models.StatusModeration, r.Status)
}

func TestManifest(t *testing.T) {
	dir := t.TempDir()
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.png"), png, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01.wav"), []byte("RIFF"), 0644))

	manifest := `
title = "Night Dreams"
artists = ["A", "B"]
genre = "Electronic"
cover = "cover.png"

[[tracks]]
name = "Intro"
file = "01.wav"
explicit = true
has_lyrics = false

[[tracks]]
name = "Outro"
artists = ["A"]
lyrics = "la"
`
	path := filepath.Join(dir, "release.toml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0644))

	t.Run("load", func(t *testing.T) {
		w, err := LoadManifest(path)
		require.NoError(t, err)

		r, err := w.Submit()
		require.NoError(t, err)
		assert.Equal(t, "Night Dreams", r.AlbumTitle)
		assert.Equal(t, "A, B", r.Artists())
		assert.Contains(t, r.Cover, "data:image/png;base64,")
		require.Len(t, r.Tracks, 2)
		assert.Equal(t, "01.wav", r.Tracks[0].File)
		assert.False(t, r.Tracks[0].HasLyrics)
		assert.True(t, r.Tracks[1].HasLyrics, "has_lyrics defaults to true")
		assert.Equal(t, 1, r.ExplicitTracks())
	})

	t.Run("unknown keys", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(bad, []byte("title = \"x\"\nlabel = \"y\"\n"), 0644))
		_, err := LoadManifest(bad)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.Contains(t, err.Error(), "label")
	})

	t.Run("missing track file", func(t *testing.T) {
		bad := filepath.Join(dir, "missing.toml")
		require.NoError(t, os.WriteFile(bad, []byte("title = \"x\"\n[[tracks]]\nname = \"a\"\nfile = \"nope.wav\"\n"), 0644))
		_, err := LoadManifest(bad)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("write and reload", func(t *testing.T) {
		w, err := LoadManifest(path)
		require.NoError(t, err)
		r, err := w.Submit()
		require.NoError(t, err)

		out := filepath.Join(dir, "out.toml")
		require.NoError(t, WriteManifest(out, r))

		again, err := LoadManifest(out)
		require.NoError(t, err)
		r2, err := again.Submit()
		require.NoError(t, err)
		assert.Equal(t, r.AlbumTitle, r2.AlbumTitle)
		assert.Equal(t, len(r.Tracks), len(r2.Tracks))
		assert.Equal(t, r.Tracks[1].Lyrics, r2.Tracks[1].Lyrics)
	})
}
