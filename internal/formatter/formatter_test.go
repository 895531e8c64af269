package formatter

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
	th "github.com/desertthunder/kedoo/internal/testing"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func sampleRelease() *models.Release {
	r := th.Release("r1", "u1")
	r.AlbumTitle = "Summer Vibes"
	r.Tracks = append(r.Tracks, models.Track{
		ID:             "t2",
		Name:           "Second, Song",
		Artists:        []string{"Artist Name", "", "Guest"},
		Version:        "Remix",
		ISRC:           "RUA1D2400001",
		ExplicitLyrics: true,
		HasLyrics:      true,
		Language:       "ru",
		Lyrics:         "la la la",
	})
	return r
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleRelease())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "#,ID,Name,Artists,Version,ISRC,Musicians,Lyricists,TikTok Moment,Explicit,Language\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `2,t2,"Second, Song","Artist Name, Guest",Remix,RUA1D2400001,,,,yes,ru`) {
			t.Errorf("CSV missing quoted second track, got: %s", output)
		}
		if lines := strings.Count(output, "\n"); lines != 3 {
			t.Errorf("expected 3 lines, got %d", lines)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleRelease(), "r1/cover.png")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Summer Vibes\n",
			"![Cover](r1/cover.png)",
			"**Status**: Draft",
			"**Tracks**: 2",
			"2. Artist Name, Guest - Second, Song (Remix) [E]",
			"### 2. Second, Song",
			"_Language: ru_",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
		if strings.Contains(output, "Previously released") {
			t.Error("unreleased album should not show release history")
		}
	})

	t.Run("ExportToMarkdown without cover", func(t *testing.T) {
		data, _ := ExportToMarkdown(sampleRelease(), "")
		if strings.Contains(string(data), "![Cover]") {
			t.Error("expected no cover reference")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleRelease())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "Release: Summer Vibes") || !strings.Contains(output, "1. Artist Name - First Song") {
			t.Errorf("unexpected text export: %s", output)
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		r := sampleRelease()
		r.Cover = "data:image/png;base64,AAAA"
		data, err := ToMetadataJSON(r)
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		var decoded models.Release
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Cover != "" || len(decoded.Tracks) != 2 {
			t.Errorf("unexpected metadata: %+v", decoded)
		}
		if r.Cover == "" {
			t.Error("ToMetadataJSON must not modify its argument")
		}
	})
}

func TestCover(t *testing.T) {
	t.Run("CoverDataURI", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cover.bin")
		if err := os.WriteFile(path, pngHeader, 0644); err != nil {
			t.Fatal(err)
		}

		uri, err := CoverDataURI(path)
		if err != nil {
			t.Fatalf("CoverDataURI failed: %v", err)
		}
		want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
		if uri != want {
			t.Errorf("got %s, want %s", uri, want)
		}

		mediaType, data, err := DecodeCover(uri)
		if err != nil || mediaType != "image/png" || string(data) != string(pngHeader) {
			t.Errorf("DecodeCover round trip failed: %s %v", mediaType, err)
		}
	})

	t.Run("CoverDataURI rejects non-images", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := CoverDataURI(path); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("DecodeCover errors", func(t *testing.T) {
		for _, uri := range []string{"https://example.com/a.png", "data:image/png;base64", "data:image/png,raw", "data:image/png;base64,!!"} {
			if _, _, err := DecodeCover(uri); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("DecodeCover(%q) expected ErrInvalidInput, got %v", uri, err)
			}
		}
	})
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	r := sampleRelease()
	r.Cover = "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)

	t.Run("markdown with cover", func(t *testing.T) {
		files, err := Write(r, FormatMarkdown, dir)
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("expected cover and sheet, got %v", files)
		}
		th.AssertFileExists(t, filepath.Join(dir, "r1", "cover.png"))
		if !strings.Contains(th.MustReadFile(t, filepath.Join(dir, "r1.md")), "![Cover](r1/cover.png)") {
			t.Error("sheet should link the cover")
		}
	})

	t.Run("csv", func(t *testing.T) {
		files, err := Write(r, FormatCSV, dir)
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if len(files) != 1 || filepath.Base(files[0]) != "r1_tracks.csv" {
			t.Errorf("unexpected files %v", files)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := Write(r, Format("pdf"), dir); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"MD", FormatMarkdown},
		{"txt", FormatText},
		{" json ", FormatJSON},
	}
	for _, tt := range tc {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, %v", tt.in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}
