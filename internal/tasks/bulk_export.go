package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10

	// ManifestName is the summary file written at the root of the output directory.
	ManifestName = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk release exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format (default: json)
	OutputDir  string           // Base output directory (default: kedoo_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4, max: 10)
	RateLimit  float64          // Releases loaded per second; zero means unlimited
}

type exportJob struct {
	index   int
	release *models.Release
}

type manifestEntry struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Files []string `json:"files"`
	Error string   `json:"error,omitempty"`
}

type manifest struct {
	Format     formatter.Format `json:"format"`
	ExportedAt time.Time        `json:"exportedAt"`
	Total      int              `json:"total"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
	Releases   []manifestEntry  `json:"releases"`
}

// BulkExport exports the releases with the given ids concurrently.
//
// A producer loads releases in order and feeds a bounded worker pool; each worker writes one release with
// [formatter.Write]. Per-release failures are recorded in the result and do not stop the batch. When ctx is
// cancelled the partial result is returned with the context error and no manifest is written.
func (e *Exporter) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no releases to export", shared.ErrMissingArgument)
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if !slices.Contains(formatter.Formats, opts.Format) {
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("kedoo_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, maxWorkers, len(ids))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	jobs := make(chan exportJob, len(ids))
	results := make(chan ReleaseExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		sendProgress(prog, loadingUpdate(len(ids)))
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			r, err := e.source.Release(ctx, id)
			if err != nil {
				results <- ReleaseExportResult{
					ReleaseID: id,
					Title:     fmt.Sprintf("Unknown (%s)", id),
					Err:       fmt.Errorf("failed to load release: %w", err),
					index:     i,
				}
				continue
			}

			sendProgress(prog, exportingUpdate(i+1, len(ids), r.AlbumTitle))
			jobs <- exportJob{index: i, release: r}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	result := &BulkExportResult{
		Total:           len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ReleaseExportResult, 0, len(ids)),
	}

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Success() {
			result.Succeeded++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res))
		} else {
			result.Failed++
			e.logger.Warn("release export failed", "id", res.ReleaseID, "error", res.Err)
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res))
		}
	}
	slices.SortFunc(result.Results, func(a, b ReleaseExportResult) int { return a.index - b.index })

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted after %d of %d releases: %w", completed, len(ids), err)
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestName)
	sendProgress(prog, manifestUpdate(manifestPath))
	if err := writeManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker drains jobs until the channel closes or ctx is done.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- ReleaseExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- e.exportRelease(job, opts)
	}
}

func (e *Exporter) exportRelease(j exportJob, opts BulkExportOpts) ReleaseExportResult {
	res := ReleaseExportResult{
		ReleaseID: j.release.ID,
		Title:     j.release.AlbumTitle,
		Files:     []string{},
		index:     j.index,
	}

	files, err := formatter.Write(j.release, opts.Format, opts.OutputDir)
	if err != nil {
		res.Err = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return res
	}
	res.Files = files
	e.logger.Debug("exported release", "id", j.release.ID, "files", len(files))
	return res
}

func writeManifest(result *BulkExportResult, format formatter.Format, path string) error {
	m := manifest{
		Format:     format,
		ExportedAt: time.Now().UTC(),
		Total:      result.Total,
		Succeeded:  result.Succeeded,
		Failed:     result.Failed,
		Releases:   make([]manifestEntry, 0, len(result.Results)),
	}
	for _, res := range result.Results {
		entry := manifestEntry{ID: res.ReleaseID, Title: res.Title, Files: make([]string, 0, len(res.Files))}
		for _, f := range res.Files {
			if rel, err := filepath.Rel(result.OutputDirectory, f); err == nil {
				f = filepath.ToSlash(rel)
			}
			entry.Files = append(entry.Files, f)
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		m.Releases = append(m.Releases, entry)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
