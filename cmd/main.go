package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/desertthunder/soundscope/internal/shared"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	var db *sql.DB
	if handle, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(handle, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		db = handle
	} else {
		logger.Warn("database unavailable", "path", config.Database.Path, "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		DB:         db,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "soundscope",
		Usage:    "Personal Spotify listening analytics",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrInsufficientScope):
			logger.Fatalf("spotify denied a required scope, run `soundscope auth` to grant access again: %v", err)
		case errors.Is(err, shared.ErrUnauthorized):
			logger.Fatalf("authorization required, run `soundscope auth`: %v", err)
		case errors.Is(errors.Unwrap(err), shared.ErrNotImplemented):
			logger.Warn("not implemented")
			os.Exit(0)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
