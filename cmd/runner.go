package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/services"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/store"
	"github.com/desertthunder/kedoo/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store is opened lazily by the first action that needs it, so setup can run before any backend exists.
type Runner struct {
	config   *shared.Config
	logger   *log.Logger
	output   io.Writer
	store    *store.Store
	svc      *services.Services
	exporter *tasks.Exporter
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	Store  *store.Store // skips backend selection when set
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		store:  opts.Store,
	}
	if r.store != nil {
		r.wire()
	}
	return r
}

// SetLogger replaces the logger used by the runner and every service it built.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.store != nil {
		r.wire()
	}
}

func (r *Runner) wire() {
	r.svc = services.New(r.store, r.logger)
	r.exporter = tasks.NewExporter(r.store, r.logger)
}

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "kedoo",
		Usage:   "Release distribution dashboard",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("KEDOO_CONFIG"),
			},
		},
		Before:   r.Before,
		After:    r.After,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, migrateCommand, authCommand, releasesCommand, trashCommand, ticketsCommand,
		walletCommand, settingsCommand, exportCommand, importCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before resolves the configuration and applies its log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		config, err := shared.ResolveConfig(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Log.Level))
	return ctx, nil
}

// After closes the store if an action opened it.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}

// open selects the configured backend, brings it to the current schema revision and builds the services.
func (r *Runner) open(ctx context.Context) error {
	if r.svc != nil {
		return nil
	}
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}

	backend, err := store.Open(ctx, r.config, r.logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	r.store = store.New(backend, r.logger)

	version, err := r.store.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}
	r.logger.Debug("store ready", "backend", r.config.Store.Backend, "revision", version)

	r.wire()
	return nil
}

// services opens the store if needed and returns the services bundle.
func (r *Runner) services(ctx context.Context) (*services.Services, error) {
	if err := r.open(ctx); err != nil {
		return nil, err
	}
	return r.svc, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
