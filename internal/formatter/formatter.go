// package formatter provides functions to export release data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// ParseFormat accepts a format name or a common alias (md, txt).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, s)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joined(values []string) string {
	return strings.Join(models.CompactStrings(values), ", ")
}

// ExportToCSV converts a release tracklist to CSV, one row per track.
func ExportToCSV(r *models.Release) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"#", "ID", "Name", "Artists", "Version", "ISRC", "Musicians", "Lyricists", "TikTok Moment", "Explicit", "Language"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range r.Tracks {
		record := []string{
			fmt.Sprint(i + 1),
			track.ID,
			track.Name,
			joined(track.Artists),
			track.Version,
			track.ISRC,
			joined(track.Musicians),
			joined(track.Lyricists),
			track.TikTokMoment,
			yesNo(track.ExplicitLyrics),
			track.Language,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a release sheet with an optional cover image reference.
func ExportToMarkdown(r *models.Release, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", r.AlbumTitle)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Artists**: %s\n", r.Artists())
	fmt.Fprintf(&buf, "**Genre**: %s\n", r.Genre)
	fmt.Fprintf(&buf, "**Status**: %s\n", r.Status.Label())
	if r.WasReleased {
		fmt.Fprintf(&buf, "**Previously released**: %s (UPC %s)\n", r.OldReleaseDate, r.UPC)
	}
	if r.RejectionReason != "" {
		fmt.Fprintf(&buf, "**Rejection reason**: %s\n", r.RejectionReason)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(r.Tracks))

	buf.WriteString("## Tracks\n\n")
	for i, track := range r.Tracks {
		line := fmt.Sprintf("%d. %s - %s", i+1, joined(track.Artists), track.Name)
		if track.Version != "" {
			line += fmt.Sprintf(" (%s)", track.Version)
		}
		if track.ExplicitLyrics {
			line += " [E]"
		}
		buf.WriteString(line + "\n")
	}

	for i, track := range r.Tracks {
		if !track.HasLyrics || track.Lyrics == "" {
			continue
		}
		fmt.Fprintf(&buf, "\n### %d. %s\n\n", i+1, track.Name)
		if track.Language != "" {
			fmt.Fprintf(&buf, "_Language: %s_\n\n", track.Language)
		}
		buf.WriteString(track.Lyrics + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a release to plain text.
func ExportToText(r *models.Release) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Release: %s\n", r.AlbumTitle)
	fmt.Fprintf(&buf, "Artists: %s\n", r.Artists())
	fmt.Fprintf(&buf, "Genre: %s\n", r.Genre)
	fmt.Fprintf(&buf, "Status: %s\n", r.Status.Label())
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(r.Tracks))

	for i, track := range r.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, joined(track.Artists), track.Name)
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON encodes the release without its cover, which is exported as a separate file.
func ToMetadataJSON(r *models.Release) ([]byte, error) {
	cp := *r
	cp.Cover = ""
	data, err := json.MarshalIndent(&cp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode release: %w", err)
	}
	return append(data, '\n'), nil
}

// CoverDataURI reads an image file and encodes it as a base64 data URI. The MIME type is sniffed from the content.
func CoverDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read cover: %w", err)
	}

	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%w: cover %s is %s, not an image", shared.ErrInvalidInput, path, mediaType)
	}

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeCover splits a base64 data URI into its MIME type and bytes.
func DecodeCover(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: cover is not a data URI", shared.ErrInvalidInput)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: cover data URI has no payload", shared.ErrInvalidInput)
	}
	mediaType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: cover data URI is not base64", shared.ErrInvalidInput)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: cover payload: %v", shared.ErrInvalidInput, err)
	}
	return mediaType, data, nil
}

// coverExtension picks a file extension for a cover MIME type.
func coverExtension(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}

// WriteCover decodes the release cover into dir as cover.<ext> and returns the file name.
// Releases without a cover yield an empty name.
func WriteCover(r *models.Release, dir string) (string, error) {
	if r.Cover == "" {
		return "", nil
	}
	mediaType, data, err := DecodeCover(r.Cover)
	if err != nil {
		return "", err
	}

	name := "cover" + coverExtension(mediaType)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write cover: %w", err)
	}
	return name, nil
}

// Write exports r in format into dir, which is created when missing, and returns the files written.
//
// File names use the release id: {id}_tracks.csv, {id}.md, {id}.txt, {id}.json. Markdown and JSON exports
// also write the cover image next to them.
func Write(r *models.Release, format Format, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var (
		data      []byte
		name      string
		err       error
		files     []string
		coverName string
	)

	if format == FormatMarkdown || format == FormatJSON {
		coverDir := filepath.Join(dir, r.ID)
		if r.Cover != "" {
			if err := os.MkdirAll(coverDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory: %w", err)
			}
		}
		coverName, err = WriteCover(r, coverDir)
		if err != nil {
			return nil, err
		}
		if coverName != "" {
			coverName = filepath.ToSlash(filepath.Join(r.ID, coverName))
			files = append(files, filepath.Join(dir, coverName))
		}
	}

	switch format {
	case FormatCSV:
		data, err = ExportToCSV(r)
		name = r.ID + "_tracks.csv"
	case FormatMarkdown:
		data, err = ExportToMarkdown(r, coverName)
		name = r.ID + ".md"
	case FormatText:
		data, err = ExportToText(r)
		name = r.ID + ".txt"
	case FormatJSON:
		data, err = ToMetadataJSON(r)
		name = r.ID + ".json"
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", format, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return append(files, path), nil
}
