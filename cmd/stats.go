package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/soundscope/internal/formatter"
	"github.com/desertthunder/soundscope/internal/shared"
	"github.com/urfave/cli/v3"
)

// StatsMoods clusters the caller's top tracks by mood.
func (r *Runner) StatsMoods(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	report, err := r.engine.MoodClusters(ctx, cred, ownerID, cmd.String("range"), cmd.Int("limit"), cmd.Bool("force"), nil)
	r.persistCredential(cred)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}
	return r.writeBytes(formatter.MoodReportToMarkdown(report))
}

// StatsCompare compares two playlists by overlap and audio profile.
func (r *Runner) StatsCompare(ctx context.Context, cmd *cli.Command) error {
	playlistA := cmd.StringArg("a")
	playlistB := cmd.StringArg("b")
	if playlistA == "" || playlistB == "" {
		return fmt.Errorf("%w: two playlist ids", shared.ErrMissingArgument)
	}

	if err := r.requireEngine(); err != nil {
		return err
	}
	cred, err := r.credential()
	if err != nil {
		return err
	}

	cmp, err := r.engine.ComparePlaylists(ctx, cred, playlistA, playlistB, nil)
	r.persistCredential(cred)
	if err != nil {
		return err
	}

	return r.writeBytes(formatter.ComparisonToMarkdown(cmp))
}

// StatsMonthly reports listening time per calendar month.
func (r *Runner) StatsMonthly(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}
	r.persistCredential(cred)

	summary, err := r.engine.MonthlySummary(ctx, ownerID, r.config.Stats.Location())
	if err != nil {
		return err
	}

	if cmd.Bool("csv") {
		data, err := formatter.MonthlyToCSV(summary)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}

	r.writePlainHeader("Monthly Listening")
	for _, bucket := range summary.Buckets {
		r.writePlain("%s  %4d plays  %7.2f h\n", bucket.Label, bucket.PlayCount, bucket.Hours)
	}
	r.writePlain("\nBased on %d stored plays\n", summary.SampleSize)
	return nil
}

// StatsJourneys classifies tracks by their movement across time horizons.
func (r *Runner) StatsJourneys(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	report, err := r.engine.TrackJourneys(ctx, cred, ownerID, cmd.Int("limit"), cmd.Bool("force"))
	r.persistCredential(cred)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}
	return r.writeBytes(formatter.JourneysToMarkdown(report))
}

// StatsPersona builds the caller's listening personality profile.
func (r *Runner) StatsPersona(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	persona, err := r.engine.Personality(ctx, cred, ownerID, cmd.Int("limit"), r.config.Stats.Location(), cmd.Bool("force"), nil)
	r.persistCredential(cred)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(persona, true)
	}
	return r.writeBytes(formatter.PersonaToText(persona))
}

// StatsGenres shows the genre distribution of the caller's top artists.
func (r *Runner) StatsGenres(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}

	slices, err := r.engine.GenreBreakdown(ctx, cred, ownerID, cmd.String("range"), cmd.Int("limit"), cmd.Int("slots"), cmd.Bool("force"))
	r.persistCredential(cred)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(slices, true)
	}

	r.writePlainHeader(fmt.Sprintf("Genres (%s)", cmd.String("range")))
	for _, slice := range slices {
		r.writePlain("%-24s %3d %s\n", slice.Genre, slice.Count, strings.Repeat("█", slice.Count))
	}
	return nil
}

// StatsHours shows plays per hour of the day from stored history.
func (r *Runner) StatsHours(ctx context.Context, cmd *cli.Command) error {
	cred, ownerID, err := r.listingContext(ctx)
	if err != nil {
		return err
	}
	r.persistCredential(cred)

	histogram, top, err := r.engine.ListeningClock(ctx, ownerID, r.config.Stats.Location())
	if err != nil {
		return err
	}

	r.writePlainHeader("Listening Clock")
	for hour, count := range histogram {
		r.writePlain("%02d:00 %4d %s\n", hour, count, strings.Repeat("█", count))
	}
	if len(top) > 0 {
		r.writePlain("\nPeak hours:")
		for _, hc := range top {
			r.writePlain(" %s (%d)", hc.Label, hc.Count)
		}
		r.writePlain("\n")
	}
	return nil
}

// StatsEnergy prints the energy curve of a playlist, start to finish.
func (r *Runner) StatsEnergy(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	if err := r.requireEngine(); err != nil {
		return err
	}
	cred, err := r.credential()
	if err != nil {
		return err
	}

	points, err := r.engine.EnergyCurve(ctx, cred, playlistID, nil)
	r.persistCredential(cred)
	if err != nil {
		return err
	}

	r.writePlainHeader("Energy Curve")
	for _, p := range points {
		if p.Energy == nil {
			r.writePlain("%3d. %-40s   n/a\n", p.Position, p.Track.Name)
			continue
		}
		r.writePlain("%3d. %-40s %5.1f\n", p.Position, p.Track.Name, *p.Energy)
	}
	return nil
}
