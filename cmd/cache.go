package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// CacheClear drops every cached batch for the caller's account. Listening
// history is untouched; the next listing command refetches from Spotify.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}
	r.persistCredential(cred)

	if err := r.engine.RefreshOwner(ctx, ownerID); err != nil {
		return err
	}

	r.logger.Info("cache cleared", "owner", ownerID)
	return r.writePlain("✓ Cleared cached listings for %s\n", ownerID)
}
