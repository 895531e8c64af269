package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/services"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/store"
	"github.com/desertthunder/kedoo/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportReleases writes several releases concurrently and prints progress as it goes.
func (r *Runner) ExportReleases(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	ids := cmd.Args().Slice()
	if cmd.Bool("all") {
		if len(ids) > 0 {
			return fmt.Errorf("%w: cannot combine --all with release ids", shared.ErrInvalidArgument)
		}
		releases, err := svc.Releases.List(ctx, services.ReleaseFilter{})
		if err != nil {
			return err
		}
		for _, rel := range releases {
			ids = append(ids, rel.ID)
		}
	} else {
		for _, id := range ids {
			if _, err := svc.Releases.Get(ctx, id); err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: pass release ids or --all", shared.ErrMissingArgument)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r.logger.Info("starting bulk export", "releases", len(ids), "format", format)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.LoadReleases:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportRelease:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.exporter.BulkExport(ctx, progressCh, ids, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Export Complete!")
		r.writePlain("Directory: %s\n", result.OutputDirectory)
		r.writePlain("Exported: %d/%d\n", result.Succeeded, result.Total)
		if result.Failed > 0 {
			r.writePlain("\nFailed to export %d release(s):\n", result.Failed)
			for _, res := range result.Results {
				if !res.Success() {
					r.writePlain("  - %s: %v\n", res.Title, res.Err)
				}
			}
		}
	}
	return err
}

// ExportDump writes every store key as a JSON object.
func (r *Runner) ExportDump(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	dump, err := r.store.Export(ctx)
	if err != nil {
		return err
	}
	data, err := dump.Encode()
	if err != nil {
		return err
	}

	out := cmd.String("output")
	if out == "" {
		_, err := r.output.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0600); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	r.logger.Info("dump written", "path", out, "keys", len(dump))
	return r.writePlain("✓ %d key(s) written to %s\n", len(dump), out)
}

// Import loads a dump produced by 'export dump' or a browser storage export.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dump: %w", err)
	}
	dump, err := store.ParseDump(data)
	if err != nil {
		return err
	}

	if err := r.open(ctx); err != nil {
		return err
	}
	keys, err := r.store.Import(ctx, dump)
	if err != nil {
		return err
	}

	r.writePlain("✓ Imported %d key(s)\n", len(keys))
	for _, k := range keys {
		r.writePlain("  %s\n", k)
	}
	return nil
}
