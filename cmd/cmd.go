// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/sati/internal/records"
	"github.com/urfave/cli/v3"
)

// authCommand handles sign-in state with the personal data server.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage sign-in state",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in through the PDS authorization flow",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "handle"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and discard the saved session",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the signed-in account",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthWhoami,
			},
		},
	}
}

// logCommand records a completed meditation session.
func logCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "Record a completed meditation session",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:     "duration",
				Aliases:  []string{"d"},
				Usage:    "Session length in seconds",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "preset",
				Aliases: []string{"p"},
				Usage:   "Preset the session used",
			},
			&cli.StringFlag{
				Name:    "notes",
				Aliases: []string{"n"},
				Usage:   "Free-form notes",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Log,
	}
}

// sessionsCommand lists recorded meditation sessions.
func sessionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sessions",
		Aliases: []string{"ls"},
		Usage:   "List recorded meditation sessions",
		Flags:   listFlags(),
		Action:  r.Sessions,
	}
}

// presetCommand handles meditation preset operations.
func presetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "preset",
		Usage: "Manage meditation presets",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a meditation preset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Preset name",
						Required: true,
					},
					&cli.FloatFlag{
						Name:     "duration",
						Aliases:  []string{"d"},
						Usage:    "Preset length in seconds",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Sound cue as seconds:sound (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PresetCreate,
			},
			{
				Name:   "list",
				Usage:  "List meditation presets",
				Flags:  listFlags(),
				Action: r.PresetList,
			},
		},
	}
}

// cacheCommand handles the opt-in local snapshot of remote records.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Snapshot remote records locally",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Fetch all records and replace the local snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.CacheSync,
			},
			{
				Name:  "show",
				Usage: "Show the local snapshot without touching the network",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CacheShow,
			},
		},
	}
}

// exportCommand writes all records to local files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all records to local files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (json, csv, markdown, txt)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
		},
		Action: r.Export,
	}
}

// setupCommand handles setup operations for configuration and the snapshot database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize snapshot database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive meditation tracking.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive meditation tracker",
		Action:  r.TUI,
	}
}

// listFlags are the shared flags for record listing commands.
func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of records per page (1-100)",
			Value: records.DefaultListLimit,
		},
		&cli.StringFlag{
			Name:  "cursor",
			Usage: "Resume listing from a cursor",
		},
		&cli.BoolFlag{
			Name:  "reverse",
			Usage: "List in reverse order",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}
