package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	if path := r.config.Log.File; path != "" {
		fileLogger, err := shared.NewFileLogger(path)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
		r.SetLogger(fileLogger)
	}

	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, svc, r.exporter, cmd.String("export-dir"))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
