package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Manifest is a release described in TOML, an alternative to filling the form interactively.
//
//	title = "Summer Vibes"
//	artists = ["Artist Name"]
//	genre = "Pop"
//	cover = "cover.png"
//
//	[[tracks]]
//	name = "First Song"
//	artists = ["Artist Name"]
//	has_lyrics = true
//	lyrics = "..."
//
// Paths are relative to the manifest file.
type Manifest struct {
	Title          string          `toml:"title"`
	Artists        []string        `toml:"artists"`
	WasReleased    bool            `toml:"was_released"`
	UPC            string          `toml:"upc"`
	OldReleaseDate string          `toml:"old_release_date"`
	Cover          string          `toml:"cover"`
	Genre          string          `toml:"genre"`
	Tracks         []TrackManifest `toml:"tracks"`
}

// TrackManifest is one [[tracks]] table.
type TrackManifest struct {
	Name         string   `toml:"name"`
	Artists      []string `toml:"artists"`
	File         string   `toml:"file"`
	ISRC         string   `toml:"isrc"`
	Version      string   `toml:"version"`
	Musicians    []string `toml:"musicians"`
	Lyricists    []string `toml:"lyricists"`
	TikTokMoment string   `toml:"tiktok_moment"`
	Explicit     bool     `toml:"explicit"`
	HasLyrics    *bool    `toml:"has_lyrics"`
	Language     string   `toml:"language"`
	Lyrics       string   `toml:"lyrics"`
}

// LoadManifest reads a manifest file into a new wizard positioned on the first step. Unknown keys are rejected.
func LoadManifest(path string) (*Wizard, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown manifest keys %s", shared.ErrInvalidInput, strings.Join(keys, ", "))
	}

	return m.Wizard(filepath.Dir(path))
}

// Wizard fills a new wizard from the manifest. Relative cover and track file paths resolve against dir.
func (m *Manifest) Wizard(dir string) (*Wizard, error) {
	w := New()
	w.SetAlbumInfo(m.Title, m.Genre, m.WasReleased, m.UPC, m.OldReleaseDate)
	if len(m.Artists) > 0 {
		w.form.AlbumArtists = append([]string{}, m.Artists...)
	}

	if m.Cover != "" {
		uri, err := formatter.CoverDataURI(resolve(dir, m.Cover))
		if err != nil {
			return nil, err
		}
		w.SetCover(uri)
	}

	if len(m.Tracks) > 0 {
		w.form.Tracks = make([]models.Track, 0, len(m.Tracks))
	}
	for _, tm := range m.Tracks {
		t := models.NewTrack(w.newID())
		t.Name = tm.Name
		t.ISRC = tm.ISRC
		t.Version = tm.Version
		t.TikTokMoment = tm.TikTokMoment
		t.ExplicitLyrics = tm.Explicit
		t.Language = tm.Language
		t.Lyrics = tm.Lyrics
		if tm.HasLyrics != nil {
			t.HasLyrics = *tm.HasLyrics
		}
		if tm.File != "" {
			file := resolve(dir, tm.File)
			if _, err := os.Stat(file); err != nil {
				return nil, fmt.Errorf("%w: track %q file: %v", shared.ErrInvalidInput, tm.Name, err)
			}
			t.File = filepath.Base(file)
		}
		if len(tm.Artists) > 0 {
			t.Artists = append([]string{}, tm.Artists...)
		}
		if len(tm.Musicians) > 0 {
			t.Musicians = append([]string{}, tm.Musicians...)
		}
		if len(tm.Lyricists) > 0 {
			t.Lyricists = append([]string{}, tm.Lyricists...)
		}
		w.form.Tracks = append(w.form.Tracks, t)
	}
	return w, nil
}

// WriteManifest encodes a release as a manifest. The cover is not included because it lives inline.
func WriteManifest(path string, r *models.Release) error {
	m := Manifest{
		Title:          r.AlbumTitle,
		Artists:        r.AlbumArtists,
		WasReleased:    bool(r.WasReleased),
		UPC:            r.UPC,
		OldReleaseDate: r.OldReleaseDate,
		Genre:          r.Genre,
	}
	for _, t := range r.Tracks {
		hasLyrics := t.HasLyrics
		m.Tracks = append(m.Tracks, TrackManifest{
			Name:         t.Name,
			Artists:      t.Artists,
			File:         t.File,
			ISRC:         t.ISRC,
			Version:      t.Version,
			Musicians:    t.Musicians,
			Lyricists:    t.Lyricists,
			TikTokMoment: t.TikTokMoment,
			Explicit:     t.ExplicitLyrics,
			HasLyrics:    &hasLyrics,
			Language:     t.Language,
			Lyrics:       t.Lyrics,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return f.Close()
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
