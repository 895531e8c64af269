package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/shared"
	th "github.com/desertthunder/kedoo/internal/testing"
)

func readManifest(t *testing.T, path string) manifest {
	t.Helper()
	var m manifest
	if err := json.Unmarshal([]byte(th.MustReadFile(t, path)), &m); err != nil {
		t.Fatalf("invalid manifest: %v", err)
	}
	return m
}

func TestBulkExport_SuccessfulExport(t *testing.T) {
	tests := []struct {
		name      string
		format    formatter.Format
		count     int
		wantFiles []string
	}{
		{name: "json", format: formatter.FormatJSON, count: 1, wantFiles: []string{"r1.json"}},
		{name: "csv", format: formatter.FormatCSV, count: 3, wantFiles: []string{"r1_tracks.csv", "r2_tracks.csv", "r3_tracks.csv"}},
		{name: "text", format: formatter.FormatText, count: 2, wantFiles: []string{"r1.txt", "r2.txt"}},
		{name: "markdown", format: formatter.FormatMarkdown, count: 2, wantFiles: []string{"r1.md", "r2.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src, ids := newMockSource(tt.count)

			result, err := NewExporter(src, th.Logger()).BulkExport(context.Background(), nil, ids, BulkExportOpts{
				Format:    tt.format,
				OutputDir: dir,
			})
			if err != nil {
				t.Fatalf("BulkExport failed: %v", err)
			}

			if result.Total != tt.count || result.Succeeded != tt.count || result.Failed != 0 {
				t.Errorf("unexpected counts: %+v", result)
			}
			for _, name := range tt.wantFiles {
				th.AssertFileExists(t, filepath.Join(dir, name))
			}

			if result.ManifestPath != filepath.Join(dir, ManifestName) {
				t.Errorf("unexpected manifest path %s", result.ManifestPath)
			}
			m := readManifest(t, result.ManifestPath)
			if m.Format != tt.format || m.Succeeded != tt.count || len(m.Releases) != tt.count {
				t.Errorf("unexpected manifest: %+v", m)
			}
			if m.Releases[0].Files[0] != tt.wantFiles[0] {
				t.Errorf("manifest paths should be relative, got %v", m.Releases[0].Files)
			}
		})
	}
}

func TestBulkExport_PartialFailures(t *testing.T) {
	dir := t.TempDir()
	src, _ := newMockSource(3)
	ids := []string{"r1", "missing", "r2", "r3"}

	result, err := NewExporter(src, th.Logger()).BulkExport(context.Background(), nil, ids, BulkExportOpts{
		Format:     formatter.FormatJSON,
		OutputDir:  dir,
		NumWorkers: 2,
	})
	if err != nil {
		t.Fatalf("BulkExport failed: %v", err)
	}

	if result.Succeeded != 3 || result.Failed != 1 {
		t.Errorf("expected 3 succeeded and 1 failed, got %+v", result)
	}
	for i, res := range result.Results {
		if res.ReleaseID != ids[i] {
			t.Errorf("result %d is %s, want %s", i, res.ReleaseID, ids[i])
		}
	}

	failed := result.Results[1]
	if failed.Success() || !errors.Is(failed.Err, shared.ErrReleaseNotFound) {
		t.Errorf("expected not-found failure, got %v", failed.Err)
	}

	m := readManifest(t, result.ManifestPath)
	if m.Failed != 1 || !strings.Contains(m.Releases[1].Error, "release not found") {
		t.Errorf("manifest should record the failure: %+v", m.Releases[1])
	}
}

func TestBulkExport_InvalidOptions(t *testing.T) {
	src, ids := newMockSource(1)
	e := NewExporter(src, th.Logger())

	if _, err := e.BulkExport(context.Background(), nil, nil, BulkExportOpts{OutputDir: t.TempDir()}); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
	if _, err := e.BulkExport(context.Background(), nil, ids, BulkExportOpts{Format: "pdf", OutputDir: t.TempDir()}); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.BulkExport(context.Background(), nil, ids, BulkExportOpts{OutputDir: filepath.Join(blocker, "out")}); err == nil {
		t.Error("expected error when output directory cannot be created")
	}
}

func TestBulkExport_DefaultOptions(t *testing.T) {
	th.MustChdir(t, t.TempDir())
	src, ids := newMockSource(1)

	result, err := NewExporter(src, th.Logger()).BulkExport(context.Background(), nil, ids, BulkExportOpts{})
	if err != nil {
		t.Fatalf("BulkExport failed: %v", err)
	}
	if !strings.HasPrefix(result.OutputDirectory, "kedoo_export_") {
		t.Errorf("unexpected default directory %s", result.OutputDirectory)
	}
	th.AssertFileExists(t, filepath.Join(result.OutputDirectory, "r1.json"))
}

func TestBulkExport_ContextCancellation(t *testing.T) {
	dir := t.TempDir()
	src, ids := newMockSource(5)
	src.loads = make(chan string, len(ids))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewExporter(src, th.Logger()).BulkExport(ctx, nil, ids, BulkExportOpts{OutputDir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.ManifestPath != "" {
		t.Errorf("cancelled export should not write a manifest: %+v", result)
	}
	if len(src.loads) != 0 {
		t.Errorf("no release should be loaded after cancellation, got %d", len(src.loads))
	}
}

func TestBulkExport_RateLimiting(t *testing.T) {
	src, ids := newMockSource(3)

	start := time.Now()
	_, err := NewExporter(src, th.Logger()).BulkExport(context.Background(), nil, ids, BulkExportOpts{
		OutputDir: t.TempDir(),
		RateLimit: 20,
	})
	if err != nil {
		t.Fatalf("BulkExport failed: %v", err)
	}

	// burst of one: the 2nd and 3rd loads wait 50ms each
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("expected rate limiting to slow the export, took %v", elapsed)
	}
}

func TestBulkExport_ProgressUpdates(t *testing.T) {
	src, ids := newMockSource(3)
	prog := make(chan ProgressUpdate, 32)

	_, err := NewExporter(src, th.Logger()).BulkExport(context.Background(), prog, ids, BulkExportOpts{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("BulkExport failed: %v", err)
	}
	close(prog)

	phases := map[Phase]int{}
	for u := range prog {
		phases[u.Phase]++
		if u.Phase == ExportRelease && u.Total != 3 {
			t.Errorf("unexpected total in %+v", u)
		}
	}
	if phases[LoadReleases] != 1 || phases[ExportRelease] != 6 || phases[WriteManifest] != 1 {
		t.Errorf("unexpected phase counts %v", phases)
	}
}

func TestBulkExport_UnreadProgressChannel(t *testing.T) {
	src, ids := newMockSource(4)
	prog := make(chan ProgressUpdate)

	done := make(chan error, 1)
	go func() {
		_, err := NewExporter(src, th.Logger()).BulkExport(context.Background(), prog, ids, BulkExportOpts{OutputDir: t.TempDir()})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("BulkExport blocked on an unread progress channel")
	}
}
