// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

// setupCommand initializes the config file and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file and database, run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
		Commands: []*cli.Command{
			{
				Name:  "rollback",
				Usage: "Roll back the most recent database migration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand runs the OAuth2 authorization-code flow against Spotify.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify using OAuth2",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the browser callback",
				Value: 3 * time.Minute,
			},
		},
		Action: r.Auth,
	}
}

// profileCommand shows the authenticated account.
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show the authenticated Spotify account",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Profile,
	}
}

// syncCommand ingests recently played tracks into the local history.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Pull recently played tracks into local listening history",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Target number of play events to ingest",
				Value: 50,
			},
		},
		Action: r.Sync,
	}
}

// topCommand lists personal top rankings.
func topCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "top",
		Usage: "Personal top rankings",
		Commands: []*cli.Command{
			{
				Name:   "artists",
				Usage:  "List your top artists",
				Flags:  listingFlags(20),
				Action: r.TopArtists,
			},
			{
				Name:   "tracks",
				Usage:  "List your top tracks",
				Flags:  listingFlags(20),
				Action: r.TopTracks,
			},
		},
	}
}

// browseCommand covers catalog listings outside the top rankings.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse releases, follows, and the catalog",
		Commands: []*cli.Command{
			{
				Name:   "releases",
				Usage:  "List new album releases",
				Flags:  listingFlags(20),
				Action: r.BrowseReleases,
			},
			{
				Name:   "follows",
				Usage:  "List artists you follow",
				Flags:  listingFlags(20),
				Action: r.BrowseFollows,
			},
			{
				Name:  "search",
				Usage: "Search the track catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags:  listingFlags(20),
				Action: r.BrowseSearch,
			},
		},
	}
}

// statsCommand groups the analytics reports.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Listening analytics reports",
		Commands: []*cli.Command{
			{
				Name:   "moods",
				Usage:  "Cluster your top tracks by mood",
				Flags:  listingFlags(50),
				Action: r.StatsMoods,
			},
			{
				Name:  "compare",
				Usage: "Compare two playlists by overlap and audio profile",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "a"},
					&cli.StringArg{Name: "b"},
				},
				Action: r.StatsCompare,
			},
			{
				Name:  "monthly",
				Usage: "Listening time per calendar month",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				},
				Action: r.StatsMonthly,
			},
			{
				Name:   "journeys",
				Usage:  "How tracks move across your listening horizons",
				Flags:  listingFlags(50),
				Action: r.StatsJourneys,
			},
			{
				Name:   "persona",
				Usage:  "Your listening personality profile",
				Flags:  listingFlags(50),
				Action: r.StatsPersona,
			},
			{
				Name:  "genres",
				Usage: "Genre distribution of your top artists",
				Flags: append(listingFlags(50),
					&cli.IntFlag{
						Name:  "slots",
						Usage: "Number of named genre slots before the Other bucket",
						Value: 8,
					},
				),
				Action: r.StatsGenres,
			},
			{
				Name:   "hours",
				Usage:  "Listening clock: plays per hour of the day",
				Action: r.StatsHours,
			},
			{
				Name:  "energy",
				Usage: "Energy curve of a playlist, start to finish",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Action: r.StatsEnergy,
			},
		},
	}
}

// exportCommand writes analytics output back to Spotify.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export analytics back to Spotify",
		Commands: []*cli.Command{
			{
				Name:  "playlist",
				Usage: "Create a playlist from one of your mood clusters",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "mood"},
				},
				Flags: append(listingFlags(50),
					&cli.StringFlag{
						Name:  "name",
						Usage: "Playlist name (defaults to the mood and month)",
					},
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Make the playlist public",
					},
				),
				Action: r.ExportMoodPlaylist,
			},
		},
	}
}

// cacheCommand manages the local batch cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage locally cached listings",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Drop every cached batch for your account",
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand launches the interactive insights browser.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive insights browser",
		Flags:  listingFlags(50),
		Action: r.TUI,
	}
}

// listingFlags is the flag set shared by every listing-backed command.
func listingFlags(limit int) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "range",
			Aliases: []string{"r"},
			Usage:   "Time range: short_term, medium_term, or long_term",
			Value:   "medium_term",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of results",
			Value: limit,
		},
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Bypass the cache and refetch",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "csv",
			Usage: "Output CSV where supported",
		},
	}
}
