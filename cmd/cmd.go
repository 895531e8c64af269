// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func idArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

// setupCommand writes a config file and prepares the configured store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the configured store",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "skip-config",
				Usage: "Do not write a config file",
			},
		},
		Action: r.Setup,
	}
}

// migrateCommand upgrades stored documents to the current schema revision.
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Upgrade stored data to the current schema revision",
		Action: r.Migrate,
	}
}

// authCommand handles accounts and the session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account and session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out",
				Action: r.AuthLogout,
			},
			{
				Name:  "reset",
				Usage: "Set a new password for an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "New password", Required: true},
				},
				Action: r.AuthReset,
			},
			{
				Name:    "whoami",
				Aliases: []string{"status"},
				Usage:   "Show the signed-in user",
				Flags:   jsonFlags(),
				Action:  r.AuthWhoami,
			},
			{
				Name:  "profile",
				Usage: "Change the signed-in user's email or password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}},
				},
				Action: r.AuthProfile,
			},
		},
	}
}

// releasesCommand handles the release list, the creation wizard and moderation
func releasesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "releases",
		Aliases: []string{"release", "rel"},
		Usage:   "Create, browse and submit releases",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your releases",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "draft, moderation, approved or rejected"},
					&cli.StringFlag{Name: "genre", Aliases: []string{"g"}},
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Match title or artist"},
				}, jsonFlags()...),
				Action: r.ReleasesList,
			},
			{
				Name:      "show",
				Usage:     "Show a release and its tracklist",
				Arguments: idArg(),
				Flags:     jsonFlags(),
				Action:    r.ReleasesShow,
			},
			{
				Name:  "create",
				Usage: "Create a release from a TOML manifest",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "manifest"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "draft",
						Usage: "Save as a draft instead of submitting for moderation",
					},
				},
				Action: r.ReleasesCreate,
			},
			{
				Name:      "edit",
				Usage:     "Edit a draft or rejected release",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title"},
					&cli.StringSliceFlag{Name: "artist", Usage: "Album artist, repeatable; replaces the list"},
					&cli.StringFlag{Name: "genre"},
					&cli.StringFlag{Name: "cover", Usage: "Path to a cover image"},
					&cli.BoolFlag{Name: "was-released"},
					&cli.StringFlag{Name: "upc"},
					&cli.StringFlag{Name: "old-release-date", Usage: "YYYY-MM-DD"},
					&cli.StringFlag{Name: "manifest", Usage: "Replace the whole release from a TOML manifest"},
				},
				Action: r.ReleasesEdit,
			},
			{
				Name:      "manifest",
				Usage:     "Write a release as a TOML manifest",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path", Value: "release.toml"},
				},
				Action: r.ReleasesManifest,
			},
			{
				Name:      "submit",
				Usage:     "Send a draft or rejected release to moderation",
				Arguments: idArg(),
				Action:    r.ReleasesSubmit,
			},
			{
				Name:      "moderate",
				Usage:     "Approve or reject a release in moderation",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "approve"},
					&cli.StringFlag{Name: "reject", Usage: "Reject with the given reason"},
				},
				Action: r.ReleasesModerate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Move a release to the trash",
				Arguments: idArg(),
				Action:    r.ReleasesDelete,
			},
			{
				Name:   "stats",
				Usage:  "Count releases per status",
				Flags:  jsonFlags(),
				Action: r.ReleasesStats,
			},
			{
				Name:      "export",
				Usage:     "Export one release to a file",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, md, txt or json", Value: "md"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory", Value: "."},
				},
				Action: r.ReleasesExport,
			},
		},
	}
}

// trashCommand handles soft-deleted releases
func trashCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "trash",
		Usage: "Restore or permanently delete trashed releases",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List trashed releases",
				Flags:   jsonFlags(),
				Action:  r.TrashList,
			},
			{
				Name:      "restore",
				Usage:     "Move a release back to the release list",
				Arguments: idArg(),
				Action:    r.TrashRestore,
			},
			{
				Name:      "purge",
				Usage:     "Permanently delete a trashed release",
				Arguments: idArg(),
				Action:    r.TrashPurge,
			},
			{
				Name:   "empty",
				Usage:  "Permanently delete every trashed release",
				Action: r.TrashEmpty,
			},
		},
	}
}

// ticketsCommand handles support tickets
func ticketsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tickets",
		Aliases: []string{"ticket", "support"},
		Usage:   "Support tickets",
		Commands: []*cli.Command{
			{
				Name:  "open",
				Usage: "Open a ticket",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Aliases: []string{"s"}, Required: true},
					&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true},
				},
				Action: r.TicketsOpen,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your tickets, newest first",
				Flags:   jsonFlags(),
				Action:  r.TicketsList,
			},
			{
				Name:      "respond",
				Usage:     "Record a support response on a ticket",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true},
				},
				Action: r.TicketsRespond,
			},
			{
				Name:      "close",
				Usage:     "Close a ticket",
				Arguments: idArg(),
				Action:    r.TicketsClose,
			},
			{
				Name:      "reopen",
				Usage:     "Reopen a closed ticket",
				Arguments: idArg(),
				Action:    r.TicketsReopen,
			},
		},
	}
}

// walletCommand shows the mock balance
func walletCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "wallet",
		Usage: "Earnings balance",
		Commands: []*cli.Command{
			{
				Name:   "balance",
				Usage:  "Show the balance",
				Flags:  jsonFlags(),
				Action: r.WalletBalance,
			},
			{
				Name:  "withdraw",
				Usage: "Request a withdrawal, e.g. 'withdraw 12.50'",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "amount"},
				},
				Action: r.WalletWithdraw,
			},
		},
	}
}

// settingsCommand handles the colour theme
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Dashboard settings",
		Commands: []*cli.Command{
			{
				Name:  "theme",
				Usage: "Colour theme",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List available themes",
						Flags:  jsonFlags(),
						Action: r.ThemeList,
					},
					{
						Name:   "get",
						Usage:  "Show the current theme",
						Action: r.ThemeGet,
					},
					{
						Name:      "set",
						Usage:     "Choose a theme",
						Arguments: idArg(),
						Action:    r.ThemeSet,
					},
				},
			},
		},
	}
}

// exportCommand writes releases or the raw store to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export releases or the whole store",
		Commands: []*cli.Command{
			{
				Name:      "releases",
				Usage:     "Export several releases concurrently",
				ArgsUsage: "[id...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "Export every release you own"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, md, txt or json", Value: "json"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory (default: kedoo_export_<unix>)"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Concurrent writers", Value: 4},
					&cli.FloatFlag{Name: "rate", Usage: "Releases loaded per second, 0 for unlimited"},
				},
				Action: r.ExportReleases,
			},
			{
				Name:  "dump",
				Usage: "Write every store key as a JSON object",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path, stdout when empty"},
				},
				Action: r.ExportDump,
			},
		},
	}
}

// importCommand loads a store dump
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Load a JSON dump of store keys, e.g. a browser local storage export",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Action: r.Import,
	}
}

// serveCommand runs the local JSON API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Override server.host"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Override server.port"},
			&cli.BoolFlag{Name: "open", Usage: "Open the API root in a browser"},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "export-dir", Usage: "Where exports started from the dashboard are written", Value: "."},
		},
		Action: r.TUI,
	}
}
