package tasks

import (
	"context"
	"time"

	"github.com/desertthunder/soundscope/internal/analytics"
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/desertthunder/soundscope/internal/services"
)

// historySampleSize bounds how many recent plays feed the time-based
// insights.
const historySampleSize = 500

// journeyBadgeCap limits how many tracks each journey badge shows.
const journeyBadgeCap = 3

// MoodReport clusters a top-track listing by mood.
type MoodReport struct {
	TimeRange string
	FromCache bool
	Clusters  map[analytics.Mood][]analytics.MoodTrack
	Vector    analytics.VectorResult
	Total     int
}

// MoodClusters fetches the owner's top tracks, enriches them with audio
// features, and buckets them by mood.
func (e *SyncEngine) MoodClusters(ctx context.Context, cred *services.Credential, ownerID, timeRange string, limit int, force bool, progress chan<- ProgressUpdate) (*MoodReport, error) {
	e.sendProgress(progress, fetchListingUpdate("top tracks"))
	listing, err := e.TopTracks(ctx, cred, ownerID, timeRange, limit, force)
	if err != nil {
		return nil, err
	}

	features, err := e.trackFeatures(ctx, listing.Tracks, progress)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, classifyUpdate(len(listing.Tracks)))
	return &MoodReport{
		TimeRange: timeRange,
		FromCache: listing.FromCache,
		Clusters:  analytics.ClusterByMood(listing.Tracks, features),
		Vector:    analytics.BuildVector(features, len(listing.Tracks)),
		Total:     len(listing.Tracks),
	}, nil
}

// PlaylistComparison is the full output of matching two playlists.
type PlaylistComparison struct {
	analytics.Comparison
	Explanations []string
	TracksA      int
	TracksB      int
}

// ComparePlaylists fetches both playlists, builds their feature vectors,
// and scores them against each other.
func (e *SyncEngine) ComparePlaylists(ctx context.Context, cred *services.Credential, playlistA, playlistB string, progress chan<- ProgressUpdate) (*PlaylistComparison, error) {
	e.sendProgress(progress, fetchListingUpdate("playlist tracks"))
	tracksA, err := e.gateway.PlaylistTracks(ctx, cred, playlistA, 0)
	if err != nil {
		return nil, err
	}
	tracksB, err := e.gateway.PlaylistTracks(ctx, cred, playlistB, 0)
	if err != nil {
		return nil, err
	}

	featuresA, err := e.trackFeatures(ctx, tracksA, progress)
	if err != nil {
		return nil, err
	}
	featuresB, err := e.trackFeatures(ctx, tracksB, progress)
	if err != nil {
		return nil, err
	}

	vecA := analytics.BuildVector(featuresA, len(tracksA))
	vecB := analytics.BuildVector(featuresB, len(tracksB))

	e.sendProgress(progress, classifyUpdate(len(tracksA)+len(tracksB)))
	return &PlaylistComparison{
		Comparison:   analytics.Compare(tracksA, tracksB, vecA, vecB),
		Explanations: analytics.ExplainComparison(vecA, vecB),
		TracksA:      len(tracksA),
		TracksB:      len(tracksB),
	}, nil
}

// MonthlySummary rolls the stored listening history into per-month hours.
func (e *SyncEngine) MonthlySummary(ctx context.Context, ownerID string, loc *time.Location) (analytics.MonthlySummary, error) {
	events, err := e.store.RecentEntries(ctx, ownerID, historySampleSize)
	if err != nil {
		return analytics.MonthlySummary{}, err
	}
	return analytics.MonthlyListening(events, loc), nil
}

// JourneyReport groups the owner's tracks by how they move across the
// top-track horizons.
type JourneyReport struct {
	Items  []analytics.JourneyItem
	Groups map[analytics.Badge][]analytics.JourneyItem
}

// TrackJourneys reads all three top-track horizons through the cache and
// classifies each track's presence pattern.
func (e *SyncEngine) TrackJourneys(ctx context.Context, cred *services.Credential, ownerID string, limit int, force bool) (*JourneyReport, error) {
	byHorizon := make(map[analytics.Horizon][]models.Track)
	for _, horizon := range analytics.Horizons() {
		listing, err := e.TopTracks(ctx, cred, ownerID, string(horizon), limit, force)
		if err != nil {
			return nil, err
		}
		byHorizon[horizon] = listing.Tracks
	}

	items := analytics.CombineJourneys(byHorizon)
	return &JourneyReport{
		Items:  items,
		Groups: analytics.GroupByBadge(items, journeyBadgeCap),
	}, nil
}

// Personality derives the owner's listening persona from medium-term top
// tracks and the local-hour play histogram.
func (e *SyncEngine) Personality(ctx context.Context, cred *services.Credential, ownerID string, limit int, loc *time.Location, force bool, progress chan<- ProgressUpdate) (*analytics.Persona, error) {
	e.sendProgress(progress, fetchListingUpdate("top tracks"))
	listing, err := e.TopTracks(ctx, cred, ownerID, string(analytics.HorizonMedium), limit, force)
	if err != nil {
		return nil, err
	}

	features, err := e.trackFeatures(ctx, listing.Tracks, progress)
	if err != nil {
		return nil, err
	}

	hours, err := e.store.HourHistogram(ctx, ownerID, historySampleSize, loc)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, classifyUpdate(len(listing.Tracks)))
	persona := analytics.BuildPersona(features, hours)
	return &persona, nil
}

// GenreBreakdown charts genre counts over the owner's top artists.
func (e *SyncEngine) GenreBreakdown(ctx context.Context, cred *services.Credential, ownerID, timeRange string, limit, slots int, force bool) ([]analytics.GenreSlice, error) {
	listing, err := e.TopArtists(ctx, cred, ownerID, timeRange, limit, force)
	if err != nil {
		return nil, err
	}
	return analytics.GenreChart(listing.Artists, slots), nil
}

// EnergyCurve maps a playlist onto the 0..100 energy scale in order.
func (e *SyncEngine) EnergyCurve(ctx context.Context, cred *services.Credential, playlistID string, progress chan<- ProgressUpdate) ([]analytics.EnergyPoint, error) {
	e.sendProgress(progress, fetchListingUpdate("playlist tracks"))
	tracks, err := e.gateway.PlaylistTracks(ctx, cred, playlistID, 0)
	if err != nil {
		return nil, err
	}

	features, err := e.trackFeatures(ctx, tracks, progress)
	if err != nil {
		return nil, err
	}
	return analytics.EnergyProfile(tracks, features), nil
}

// ListeningClock summarizes when the owner listens: the full hour
// histogram plus its busiest hours.
func (e *SyncEngine) ListeningClock(ctx context.Context, ownerID string, loc *time.Location) ([24]int, []analytics.HourCount, error) {
	hours, err := e.store.HourHistogram(ctx, ownerID, historySampleSize, loc)
	if err != nil {
		return hours, nil, err
	}
	return hours, analytics.TopHours(hours, 3), nil
}

// trackFeatures fetches audio features for a track list, tolerating an
// absent feature source by returning no rows.
func (e *SyncEngine) trackFeatures(ctx context.Context, tracks []models.Track, progress chan<- ProgressUpdate) ([]models.AudioFeatures, error) {
	if e.features == nil || len(tracks) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}

	e.sendProgress(progress, fetchFeaturesUpdate(len(ids)))
	return e.features.AudioFeatures(ctx, ids)
}
