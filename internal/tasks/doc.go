// Package tasks runs long release operations off the caller's goroutine with progress reporting.
//
// # Bulk export
//
// [Exporter.BulkExport] writes many releases to disk with a bounded worker pool:
//
//  1. A producer loads each release from the [ReleaseSource], optionally paced by a rate limiter
//  2. Workers render the release with the formatter package (CSV, Markdown, text or JSON)
//  3. Results are collected, ordered like the requested ids, and summarised in export_manifest.json
//
// A release that cannot be loaded or written is recorded as a failure; the rest of the batch continues.
//
// # Progress Reporting
//
// Updates are sent on an optional [ProgressUpdate] channel with select/default, so a slow or absent reader
// never stalls the export. Updates may be dropped; the returned [BulkExportResult] is authoritative.
package tasks
