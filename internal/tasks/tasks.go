package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/models"
)

// ReleaseSource loads releases by id. [store.Store] satisfies it.
type ReleaseSource interface {
	Release(ctx context.Context, id string) (*models.Release, error)
}

// ReleaseExportResult is the outcome for one release of a bulk export.
type ReleaseExportResult struct {
	ReleaseID string
	Title     string
	Files     []string
	Err       error
	index     int
}

// Success reports whether every file of the release was written.
func (r ReleaseExportResult) Success() bool { return r.Err == nil }

// BulkExportResult summarises a bulk export. Results follow the order of the requested ids.
type BulkExportResult struct {
	Total           int
	Succeeded       int
	Failed          int
	OutputDirectory string
	ManifestPath    string
	Results         []ReleaseExportResult
}

// Exporter writes releases from a [ReleaseSource] to disk.
type Exporter struct {
	source ReleaseSource
	logger *log.Logger
}

// NewExporter creates an Exporter reading from source.
func NewExporter(source ReleaseSource, logger *log.Logger) *Exporter {
	return &Exporter{source: source, logger: logger}
}
