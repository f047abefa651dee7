package main

import (
	"context"

	"github.com/desertthunder/soundscope/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync pages through recently played tracks and stores the new plays.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	cred, err := r.credential()
	if err != nil {
		return err
	}

	ownerID, err := r.spotify.CurrentUserID(ctx, cred)
	if err != nil {
		r.persistCredential(cred)
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	result, err := r.engine.SyncRecentPlays(ctx, cred, ownerID, cmd.Int("limit"), progress)
	close(progress)
	<-done
	r.persistCredential(cred)
	if err != nil {
		return err
	}

	r.writePlainHeader("Sync complete")
	r.writePlain("Pages fetched:  %d\n", result.PagesFetched)
	r.writePlain("Events seen:    %d\n", result.Received)
	r.writePlain("Unique plays:   %d\n", result.Unique)
	r.writePlain("Newly stored:   %d\n", result.Inserted)
	if !result.OldestAt.IsZero() {
		r.writePlain("Window:         %s to %s\n",
			result.OldestAt.Format("2006-01-02 15:04"),
			result.NewestAt.Format("2006-01-02 15:04"))
	}
	return nil
}
