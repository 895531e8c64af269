package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase of a bulk operation.
type Phase int

const (
	LoadReleases Phase = iota
	ExportRelease
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case LoadReleases:
		return "load_releases"
	case ExportRelease:
		return "export_release"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress delivers update unless the channel is nil or full.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func loadingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadReleases,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Loading %d releases...", total),
	}
}

func exportingUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRelease,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, title),
	}
}

func exportCompletedUpdate(step, total int, res ReleaseExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRelease,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, res.Title, len(res.Files)),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res ReleaseExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRelease,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Title, res.Err),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: "Writing manifest " + path,
	}
}
