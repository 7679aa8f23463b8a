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
			Usage: "Pretty-print JSON output",
		},
	}
}

func serverFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "server",
		Usage: "Address of a running intermediary (defaults to [server] host:port)",
	}
}

func stringArg(name string) []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: name}}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize the database and configuration",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recently applied migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the file to create (defaults to --config)",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the offline caching intermediary in front of the web app",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to [server] host:port)",
			},
			&cli.StringFlag{
				Name:  "upstream",
				Usage: "Origin to proxy (defaults to [offline] upstream)",
			},
			&cli.StringFlag{
				Name:  "static",
				Usage: "Build directory to serve and watch (defaults to [offline] static_dir)",
			},
			&cli.BoolFlag{
				Name:  "discover",
				Usage: "Add assets referenced by the root document to the precache manifest",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the app in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

func offlineCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "offline",
		Usage: "Inspect and control the caching intermediary",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show active and waiting versions and partition sizes",
				Flags: append([]cli.Flag{
					serverFlag(),
					&cli.BoolFlag{
						Name:  "local",
						Usage: "Read the cache database directly instead of asking the server",
					},
				}, jsonFlags()...),
				Action: r.OfflineStatus,
			},
			{
				Name:   "version",
				Usage:  "Print the active cache version",
				Flags:  []cli.Flag{serverFlag()},
				Action: r.OfflineVersion,
			},
			{
				Name:   "skip-waiting",
				Usage:  "Promote the waiting version",
				Flags:  []cli.Flag{serverFlag()},
				Action: r.OfflineSkipWaiting,
			},
			{
				Name:   "clear",
				Usage:  "Delete every cache partition from the database",
				Action: r.OfflineClear,
			},
			{
				Name:      "sync",
				Usage:     "Trigger a background sync by tag",
				Arguments: stringArg("tag"),
				Flags:     []cli.Flag{serverFlag()},
				Action:    r.OfflineSync,
			},
			{
				Name:  "push",
				Usage: "Deliver a push event and print the notification",
				Flags: []cli.Flag{
					serverFlag(),
					&cli.StringFlag{Name: "title", Usage: "Notification title"},
					&cli.StringFlag{Name: "body", Usage: "Notification body"},
					&cli.StringFlag{Name: "url", Usage: "URL opened when the notification is clicked"},
				},
				Action: r.OfflinePush,
			},
		},
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog",
		Commands: []*cli.Command{
			{
				Name:      "songs",
				Usage:     "Search songs",
				Arguments: stringArg("query"),
				Flags:     jsonFlags(),
				Action:    r.SearchSongs,
			},
			{
				Name:      "artists",
				Usage:     "Search artists",
				Arguments: stringArg("query"),
				Flags:     jsonFlags(),
				Action:    r.SearchArtists,
			},
			{
				Name:      "suggest",
				Usage:     "Show query completions",
				Arguments: stringArg("query"),
				Flags:     jsonFlags(),
				Action:    r.SearchSuggest,
			},
		},
	}
}

func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse the catalog",
		Commands: []*cli.Command{
			{
				Name:   "featured",
				Usage:  "List featured playlists",
				Flags:  jsonFlags(),
				Action: r.BrowseFeatured,
			},
			{
				Name:   "genres",
				Usage:  "List genres",
				Flags:  jsonFlags(),
				Action: r.BrowseGenres,
			},
			{
				Name:   "recent",
				Usage:  "List recently played songs",
				Flags:  jsonFlags(),
				Action: r.BrowseRecent,
			},
			{
				Name:   "top-artists",
				Usage:  "List top artists",
				Flags:  jsonFlags(),
				Action: r.BrowseTopArtists,
			},
			{
				Name:      "artist",
				Usage:     "Show an artist with top songs and albums",
				Arguments: stringArg("id"),
				Flags:     jsonFlags(),
				Action:    r.BrowseArtist,
			},
			{
				Name:      "follow",
				Usage:     "Toggle following an artist",
				Arguments: stringArg("id"),
				Action:    r.BrowseFollow,
			},
		},
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Manage your playlists",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a playlist",
				Arguments: stringArg("name"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Playlist description"},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "list",
				Usage: "List playlists",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "Only show playlists matching this text"},
				}, jsonFlags()...),
				Action: r.PlaylistList,
			},
			{
				Name:      "show",
				Usage:     "Show a playlist and its songs",
				Arguments: stringArg("id"),
				Flags:     jsonFlags(),
				Action:    r.PlaylistShow,
			},
			{
				Name:  "add",
				Usage: "Add a song found by search to a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "pick", Usage: "Index of the search result to add", Value: 0},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove every copy of a song from a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "song"},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:      "update",
				Usage:     "Change playlist details",
				Arguments: stringArg("id"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "New name"},
					&cli.StringFlag{Name: "description", Usage: "New description"},
					&cli.StringFlag{Name: "cover", Usage: "New cover image URL"},
					&cli.BoolFlag{Name: "public", Usage: "Make the playlist public"},
					&cli.BoolFlag{Name: "private", Usage: "Make the playlist private"},
				},
				Action: r.PlaylistUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				Arguments: stringArg("id"),
				Action:    r.PlaylistDelete,
			},
			{
				Name:      "export",
				Usage:     "Export a playlist to csv, markdown, json or text",
				Arguments: stringArg("id"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, markdown, json or text", Value: "json"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path (a directory for markdown)", Required: true},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the signed-in session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Sources: cli.EnvVars("SONORA_PASSWORD")},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "signup",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Sources: cli.EnvVars("SONORA_PASSWORD")},
				},
				Action: r.AuthSignup,
			},
			{
				Name:   "logout",
				Usage:  "Sign out",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in user",
				Flags:  jsonFlags(),
				Action: r.AuthWhoami,
			},
		},
	}
}

func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "theme",
		Usage: "Show or change the color theme",
		Commands: []*cli.Command{
			{Name: "show", Usage: "Print the current theme", Action: r.ThemeShow},
			{Name: "toggle", Usage: "Switch between light and dark", Action: r.ThemeToggle},
			{
				Name:      "set",
				Usage:     "Set the theme to light or dark",
				Arguments: stringArg("theme"),
				Action:    r.ThemeSet,
			},
		},
	}
}

func volumeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "volume",
		Usage:     "Show or set the playback volume (0 to 1)",
		Arguments: stringArg("level"),
		Action:    r.Volume,
	}
}

func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "play",
		Aliases: []string{"tui"},
		Usage:   "Launch the interactive player",
		Action:  r.Play,
	}
}
