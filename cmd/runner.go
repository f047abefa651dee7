package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundscope/internal/services"
	"github.com/desertthunder/soundscope/internal/shared"
	"github.com/desertthunder/soundscope/internal/store"
	"github.com/desertthunder/soundscope/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    *services.SpotifyClient
	features   *services.FeaturesClient
	store      *store.Store
	engine     *tasks.SyncEngine
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Spotify    *services.SpotifyClient
	Features   *services.FeaturesClient
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Spotify == nil {
		opts.Spotify = services.NewSpotifyClient(opts.Config.Credentials.Spotify, opts.Logger)
	}
	if opts.Features == nil {
		opts.Features = services.NewFeaturesClient(opts.Config.Features.BaseURL, opts.Logger)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Spotify,
		features:   opts.Features,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	if opts.DB != nil {
		r.store = store.New(opts.DB, opts.Logger)
		r.engine = tasks.NewSyncEngine(opts.Spotify, opts.Features, r.store, opts.Config.Cache, opts.Logger)
	}

	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, profileCommand, syncCommand, topCommand, browseCommand, statsCommand, exportCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireEngine guards commands that touch the local store.
func (r *Runner) requireEngine() error {
	if r.engine == nil {
		return fmt.Errorf("%w: database unavailable, run `soundscope setup` first", shared.ErrMissingConfig)
	}
	return nil
}

// credential rebuilds the caller-owned token triple from the [token] config
// section. Every command passes the same pointer through its operation and
// persists it afterwards via persistCredential.
func (r *Runner) credential() (*services.Credential, error) {
	tok := r.config.Token
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: run `soundscope auth` first", shared.ErrUnauthorized)
	}

	cred := &services.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if tok.ExpiresAt > 0 {
		cred.ExpiresAt = time.Unix(tok.ExpiresAt, 0)
	}
	return cred, nil
}

// persistCredential writes a rotated token triple back to the config file.
// A credential that never refreshed leaves the file untouched.
func (r *Runner) persistCredential(cred *services.Credential) {
	if cred == nil || !cred.Refreshed() || r.configPath == "" {
		return
	}

	r.config.Token = shared.TokenConfig{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		ExpiresAt:    cred.ExpiresAt.Unix(),
	}
	if err := r.config.Save(r.configPath); err != nil {
		r.logger.Warn("failed to persist refreshed token", "path", r.configPath, "error", err)
	} else {
		r.logger.Debug("refreshed token persisted", "path", r.configPath)
	}
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

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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
