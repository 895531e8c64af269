package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/store"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the embedded template when missing and initializes the configured store.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if !cmd.Bool("skip-config") {
		if _, err := os.Stat(configPath); err == nil {
			r.logger.Info("using existing config file", "path", configPath)
		} else {
			r.logger.Info("config file not found, creating from template", "path", configPath)
			if err := shared.CreateConfigFile(configPath); err != nil {
				return err
			}
			r.writePlain("✓ Config written to %s\n", configPath)

			config, err := shared.ResolveConfig(configPath)
			if err != nil {
				return err
			}
			r.config = config
		}
	}

	r.logger.Info("initializing store", "backend", r.config.Store.Backend)
	if err := r.open(ctx); err != nil {
		return err
	}

	version, err := r.store.Version(ctx)
	if err != nil {
		return err
	}
	r.writePlain("✓ %s store ready at schema revision %d\n", r.config.Store.Backend, version)
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'kedoo auth register --email you@example.com --username you --password ...'\n")
	r.writePlain("2. Run 'kedoo releases create release.toml' or 'kedoo tui'\n")
	return nil
}

// Migrate upgrades stored documents and reports the schema revision.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	version, err := r.store.Version(ctx)
	if err != nil {
		return err
	}
	r.writePlain("Store revision: %d\n", version)

	if sqlite, ok := r.store.Backend().(*store.SQLiteBackend); ok {
		tables, err := shared.MigrationVersion(ctx, sqlite.DB())
		if err != nil {
			return fmt.Errorf("failed to read database migrations: %w", err)
		}
		r.writePlain("Database migrations: %d\n", tables)
	}
	return nil
}
