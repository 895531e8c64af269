package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/kedoo/internal/server"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the local JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services(ctx)
	if err != nil {
		return err
	}

	config := r.config.Server
	if cmd.IsSet("host") {
		config.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		config.Port = cmd.Int("port")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.NewAPIRouter(svc, config, r.logger), config, r.logger)
	r.writePlain("Serving kedoo API at %s (Ctrl+C to stop)\n", srv.URL())

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(srv.URL() + "/api/releases"); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	}

	return srv.Run(ctx)
}
