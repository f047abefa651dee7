package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/soundscope/internal/analytics"
	"github.com/desertthunder/soundscope/internal/shared"
	"github.com/urfave/cli/v3"
)

// ExportMoodPlaylist creates a Spotify playlist from one of the caller's
// mood clusters.
func (r *Runner) ExportMoodPlaylist(ctx context.Context, cmd *cli.Command) error {
	mood := analytics.Mood(cmd.StringArg("mood"))
	if !validMood(mood) {
		return fmt.Errorf("%w: mood must be one of %v", shared.ErrInvalidInput, analytics.Moods())
	}

	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	report, err := r.engine.MoodClusters(ctx, cred, ownerID, cmd.String("range"), cmd.Int("limit"), cmd.Bool("force"), nil)
	if err != nil {
		r.persistCredential(cred)
		return err
	}

	cluster := report.Clusters[mood]
	if len(cluster) == 0 {
		r.persistCredential(cred)
		return r.writePlain("No tracks classified as %s in this range.\n", mood)
	}

	name := cmd.String("name")
	if name == "" {
		name = fmt.Sprintf("soundscope: %s (%s)", mood, time.Now().Format("Jan 2006"))
	}
	description := fmt.Sprintf("Top %s tracks clustered by audio features, %s range.", mood, cmd.String("range"))

	r.logger.Info("creating playlist", "name", name, "tracks", len(cluster))

	playlistID, err := r.spotify.CreatePlaylist(ctx, cred, ownerID, name, description, cmd.Bool("public"))
	if err != nil {
		r.persistCredential(cred)
		return err
	}

	uris := make([]string, 0, len(cluster))
	for _, entry := range cluster {
		uris = append(uris, "spotify:track:"+entry.Track.ID)
	}

	err = r.spotify.AddTracksToPlaylist(ctx, cred, playlistID, uris)
	r.persistCredential(cred)
	if err != nil {
		return err
	}

	r.writePlain("✓ Created playlist %q with %d tracks\n", name, len(uris))
	return r.writePlain("https://open.spotify.com/playlist/%s\n", playlistID)
}

func validMood(mood analytics.Mood) bool {
	for _, m := range analytics.Moods() {
		if m == mood {
			return true
		}
	}
	return false
}
