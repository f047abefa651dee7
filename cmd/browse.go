package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/soundscope/internal/formatter"
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/desertthunder/soundscope/internal/services"
	"github.com/desertthunder/soundscope/internal/shared"
	"github.com/desertthunder/soundscope/internal/tasks"
	"github.com/urfave/cli/v3"
)

// listingContext resolves the credential and owner id every cached listing
// command needs.
func (r *Runner) listingContext(ctx context.Context) (*services.Credential, string, error) {
	if err := r.requireEngine(); err != nil {
		return nil, "", err
	}

	cred, err := r.credential()
	if err != nil {
		return nil, "", err
	}

	ownerID, err := r.spotify.CurrentUserID(ctx, cred)
	if err != nil {
		r.persistCredential(cred)
		return nil, "", err
	}
	return cred, ownerID, nil
}

func (r *Runner) noteCacheHit(listing tasks.Listing) {
	if listing.FromCache {
		r.logger.Debug("served from cache", "batch", listing.BatchID, "fetched_at", listing.FetchedAt)
	}
}

// Profile shows the authenticated account.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	cred, err := r.credential()
	if err != nil {
		return err
	}

	profile, err := r.spotify.Profile(ctx, cred)
	r.persistCredential(cred)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}

	r.writePlainHeader(profile.DisplayName)
	r.writePlain("ID:        %s\n", profile.ID)
	r.writePlain("Followers: %d\n", profile.Followers)
	if profile.Product != "" {
		r.writePlain("Plan:      %s\n", profile.Product)
	}
	r.writePlain("%s\n", profile.SpotifyURL)
	return nil
}

// TopArtists lists the caller's top artists for a time range.
func (r *Runner) TopArtists(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	listing, err := r.engine.TopArtists(ctx, cred, ownerID, cmd.String("range"), cmd.Int("limit"), cmd.Bool("force"))
	r.persistCredential(cred)
	if err != nil {
		return err
	}
	r.noteCacheHit(listing.Listing)

	return r.renderArtists(cmd, fmt.Sprintf("Top Artists (%s)", cmd.String("range")), listing.Artists)
}

// TopTracks lists the caller's top tracks for a time range.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	listing, err := r.engine.TopTracks(ctx, cred, ownerID, cmd.String("range"), cmd.Int("limit"), cmd.Bool("force"))
	r.persistCredential(cred)
	if err != nil {
		return err
	}
	r.noteCacheHit(listing.Listing)

	return r.renderTracks(cmd, fmt.Sprintf("Top Tracks (%s)", cmd.String("range")), listing.Tracks)
}

// BrowseReleases lists new album releases.
func (r *Runner) BrowseReleases(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	listing, err := r.engine.NewReleases(ctx, cred, ownerID, cmd.Int("limit"), cmd.Bool("force"))
	r.persistCredential(cred)
	if err != nil {
		return err
	}
	r.noteCacheHit(listing.Listing)

	if cmd.Bool("json") {
		return r.writeJSON(listing.Releases, true)
	}

	r.writePlainHeader("New Releases")
	for _, rel := range listing.Releases {
		r.writePlain("%3d. %s by %s (%s, %d tracks)\n", rel.Rank, rel.Name, rel.Artists, rel.ReleaseDate, rel.TotalTracks)
	}
	return nil
}

// BrowseFollows lists the artists the caller follows.
func (r *Runner) BrowseFollows(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	listing, err := r.engine.FollowedArtists(ctx, cred, ownerID, cmd.Int("limit"), cmd.Bool("force"))
	r.persistCredential(cred)
	if err != nil {
		return err
	}
	r.noteCacheHit(listing.Listing)

	return r.renderArtists(cmd, "Followed Artists", listing.Artists)
}

// BrowseSearch searches the track catalog.
func (r *Runner) BrowseSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	listing, err := r.engine.SearchTracks(ctx, cred, ownerID, query, cmd.Int("limit"), cmd.Bool("force"))
	r.persistCredential(cred)
	if err != nil {
		return err
	}
	r.noteCacheHit(listing.Listing)

	return r.renderTracks(cmd, fmt.Sprintf("Search: %s", query), listing.Tracks)
}

func (r *Runner) renderTracks(cmd *cli.Command, title string, tracks []models.Track) error {
	switch {
	case cmd.Bool("json"):
		return r.writeJSON(tracks, true)
	case cmd.Bool("csv"):
		data, err := formatter.TracksToCSV(tracks)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}

	r.writePlainHeader(title)
	for _, t := range tracks {
		r.writePlain("%3d. %s by %s\n", t.Rank, t.Name, t.Artists)
	}
	return nil
}

func (r *Runner) renderArtists(cmd *cli.Command, title string, artists []models.Artist) error {
	switch {
	case cmd.Bool("json"):
		return r.writeJSON(artists, true)
	case cmd.Bool("csv"):
		data, err := formatter.ArtistsToCSV(artists)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}

	r.writePlainHeader(title)
	for _, a := range artists {
		if len(a.Genres) > 0 {
			r.writePlain("%3d. %s (%s)\n", a.Rank, a.Name, strings.Join(a.Genres, ", "))
		} else {
			r.writePlain("%3d. %s\n", a.Rank, a.Name)
		}
	}
	return nil
}
