package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/soundscope/internal/server"
	"github.com/desertthunder/soundscope/internal/services"
	"github.com/desertthunder/soundscope/internal/shared"
	"github.com/urfave/cli/v3"
)

// Auth runs the authorization-code flow: a localhost callback server, a
// browser consent page, and a code-for-token exchange. The resulting token
// triple is written to the [token] section of the config file.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	spotifyCfg := r.config.Credentials.Spotify
	if spotifyCfg.ClientID == "" || spotifyCfg.ClientSecret == "" {
		return fmt.Errorf("%w: set credentials.spotify in %s or SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET", shared.ErrMissingCredentials, r.configPath)
	}

	state := shared.GenerateID()
	oauthConfig := server.NewOAuthConfig(spotifyCfg, server.DefaultScopes)
	handler := server.NewOAuthHandler(oauthConfig, state)

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("callback server stopped", "error", err)
		}
	}()
	defer srv.Shutdown(context.Background())

	consentURL := services.AuthCodeURL(spotifyCfg, state, server.DefaultScopes)
	r.logger.Info("waiting for Spotify consent", "callback", addr)
	if err := shared.OpenBrowser(consentURL); err != nil {
		r.logger.Warn("could not open browser", "error", err)
		r.writePlain("Open this URL to authorize:\n%s\n", consentURL)
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrUnauthorized, err)
		}
		cred := result.Credential
		r.config.Token = shared.TokenConfig{
			AccessToken:  cred.AccessToken,
			RefreshToken: cred.RefreshToken,
			ExpiresAt:    cred.ExpiresAt.Unix(),
		}
		if err := r.config.Save(r.configPath); err != nil {
			return fmt.Errorf("failed to persist token: %w", err)
		}
		r.logger.Info("authentication successful")
		return r.writePlain("✓ Spotify connected, token saved to %s\n", r.configPath)

	case <-time.After(cmd.Duration("timeout")):
		return fmt.Errorf("%w: timed out waiting for the browser callback", shared.ErrUnauthorized)

	case <-ctx.Done():
		return ctx.Err()
	}
}
