// package tasks orchestrates the sync and analytics operations behind the
// CLI commands.
//
// The core type is SyncEngine, which fronts the remote gateway with the
// batch cache: every listing read goes cache-first and falls through to
// the network only when the freshest batch is missing or stale. Long
// operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/desertthunder/soundscope/internal/services"
	"github.com/desertthunder/soundscope/internal/shared"
	"github.com/desertthunder/soundscope/internal/store"
)

// Gateway is the slice of the Spotify client the engine depends on.
// Declared here so tests can substitute a fake without a network.
type Gateway interface {
	TopArtists(ctx context.Context, cred *services.Credential, limit int, timeRange string) ([]models.Artist, error)
	TopTracks(ctx context.Context, cred *services.Credential, limit int, timeRange string) ([]models.Track, error)
	NewReleases(ctx context.Context, cred *services.Credential, limit int) ([]models.Release, error)
	FollowedArtists(ctx context.Context, cred *services.Credential, limit int) ([]models.Artist, error)
	SearchTracks(ctx context.Context, cred *services.Credential, query string, limit int) ([]models.Track, error)
	PlaylistTracks(ctx context.Context, cred *services.Credential, playlistID string, limit int) ([]models.Track, error)
	RecentlyPlayedPage(ctx context.Context, cred *services.Credential, pageSize int, before time.Time) (*services.RecentlyPlayedPage, error)
}

// FeatureSource fetches audio features by Spotify track id.
type FeatureSource interface {
	AudioFeatures(ctx context.Context, trackIDs []string) ([]models.AudioFeatures, error)
}

// SyncEngine coordinates the gateway, the feature source, and the local
// store behind every user-facing operation.
type SyncEngine struct {
	gateway  Gateway
	features FeatureSource
	store    *store.Store
	cache    shared.CacheConfig
	logger   *log.Logger
	now      func() time.Time
}

// NewSyncEngine creates an engine over the given collaborators.
func NewSyncEngine(gateway Gateway, features FeatureSource, st *store.Store, cache shared.CacheConfig, logger *log.Logger) *SyncEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SyncEngine{
		gateway:  gateway,
		features: features,
		store:    st,
		cache:    cache,
		logger:   shared.WithLogger(logger, "component", "engine"),
		now:      time.Now,
	}
}

// Listing carries a cache-aware result: the rows plus where they came from.
type Listing struct {
	BatchID   string
	FetchedAt time.Time
	FromCache bool
}

// ArtistListing is a cached or freshly-fetched artist collection.
type ArtistListing struct {
	Listing
	Artists []models.Artist
}

// TrackListing is a cached or freshly-fetched track collection.
type TrackListing struct {
	Listing
	Tracks []models.Track
}

// ReleaseListing is a cached or freshly-fetched album release collection.
type ReleaseListing struct {
	Listing
	Releases []models.Release
}

// freshRows returns the freshest batch's rows when one exists within its
// domain TTL. The boolean reports a usable cache hit; a missing batch is
// not an error.
func (e *SyncEngine) freshRows(ctx context.Context, key store.BatchKey) ([]store.Row, *store.Batch, bool, error) {
	batch, err := e.store.FreshestBatch(ctx, key)
	if errors.Is(err, shared.ErrBatchNotFound) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}
	if !batch.FreshAt(e.now(), e.cache.TTL(key.Domain)) {
		return nil, batch, false, nil
	}

	rows, err := e.store.BatchRows(ctx, batch.ID)
	if err != nil {
		return nil, nil, false, err
	}
	return rows, batch, true, nil
}

// clip bounds a listing to the requested limit. Misses fetch and store a
// full provider page, so both cache paths slice on the way out.
func clip[T any](items []T, limit int) []T {
	if limit > 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}

// TopArtists reads the owner's top artists for a time range through the
// cache. force skips the freshness check and always refetches.
func (e *SyncEngine) TopArtists(ctx context.Context, cred *services.Credential, ownerID, timeRange string, limit int, force bool) (*ArtistListing, error) {
	key := store.BatchKey{OwnerID: ownerID, Domain: store.DomainTopArtists, RangeKey: timeRange, Limit: limit}

	if !force {
		rows, batch, hit, err := e.freshRows(ctx, key)
		if err != nil {
			return nil, err
		}
		if hit {
			listing := &ArtistListing{Listing: Listing{BatchID: batch.ID, FetchedAt: batch.FetchedAt, FromCache: true}}
			for _, r := range clip(rows, limit) {
				listing.Artists = append(listing.Artists, r.Artist())
			}
			return listing, nil
		}
	}

	artists, err := e.gateway.TopArtists(ctx, cred, services.MaxPageSize, timeRange)
	if err != nil {
		return nil, err
	}

	rows := make([]store.Row, len(artists))
	for i, a := range artists {
		rows[i] = store.RowFromArtist(a)
	}
	batch, err := e.store.InsertBatch(ctx, key, e.now(), rows)
	if err != nil {
		return nil, err
	}

	return &ArtistListing{
		Listing: Listing{BatchID: batch.ID, FetchedAt: batch.FetchedAt},
		Artists: clip(rankArtists(artists), limit),
	}, nil
}

// TopTracks reads the owner's top tracks for a time range through the cache.
func (e *SyncEngine) TopTracks(ctx context.Context, cred *services.Credential, ownerID, timeRange string, limit int, force bool) (*TrackListing, error) {
	key := store.BatchKey{OwnerID: ownerID, Domain: store.DomainTopTracks, RangeKey: timeRange, Limit: limit}

	if !force {
		rows, batch, hit, err := e.freshRows(ctx, key)
		if err != nil {
			return nil, err
		}
		if hit {
			listing := &TrackListing{Listing: Listing{BatchID: batch.ID, FetchedAt: batch.FetchedAt, FromCache: true}}
			for _, r := range clip(rows, limit) {
				listing.Tracks = append(listing.Tracks, r.Track())
			}
			return listing, nil
		}
	}

	tracks, err := e.gateway.TopTracks(ctx, cred, services.MaxPageSize, timeRange)
	if err != nil {
		return nil, err
	}

	rows := make([]store.Row, len(tracks))
	for i, t := range tracks {
		rows[i] = store.RowFromTrack(t)
	}
	batch, err := e.store.InsertBatch(ctx, key, e.now(), rows)
	if err != nil {
		return nil, err
	}

	return &TrackListing{
		Listing: Listing{BatchID: batch.ID, FetchedAt: batch.FetchedAt},
		Tracks:  clip(rankTracks(tracks), limit),
	}, nil
}

// NewReleases reads the latest album releases through the cache. Releases
// are global rather than personalized, so the range key is fixed.
func (e *SyncEngine) NewReleases(ctx context.Context, cred *services.Credential, ownerID string, limit int, force bool) (*ReleaseListing, error) {
	key := store.BatchKey{OwnerID: ownerID, Domain: store.DomainNewReleases, RangeKey: "latest", Limit: limit}

	if !force {
		rows, batch, hit, err := e.freshRows(ctx, key)
		if err != nil {
			return nil, err
		}
		if hit {
			listing := &ReleaseListing{Listing: Listing{BatchID: batch.ID, FetchedAt: batch.FetchedAt, FromCache: true}}
			for _, r := range clip(rows, limit) {
				listing.Releases = append(listing.Releases, r.Release())
			}
			return listing, nil
		}
	}

	releases, err := e.gateway.NewReleases(ctx, cred, services.MaxPageSize)
	if err != nil {
		return nil, err
	}

	rows := make([]store.Row, len(releases))
	for i, r := range releases {
		rows[i] = store.RowFromRelease(r)
	}
	batch, err := e.store.InsertBatch(ctx, key, e.now(), rows)
	if err != nil {
		return nil, err
	}

	listing := &ReleaseListing{Listing: Listing{BatchID: batch.ID, FetchedAt: batch.FetchedAt}}
	for i, r := range clip(releases, limit) {
		r.Rank = i + 1
		listing.Releases = append(listing.Releases, r)
	}
	return listing, nil
}

// FollowedArtists reads the owner's followed artists through the cache.
func (e *SyncEngine) FollowedArtists(ctx context.Context, cred *services.Credential, ownerID string, limit int, force bool) (*ArtistListing, error) {
	key := store.BatchKey{OwnerID: ownerID, Domain: store.DomainFollowedArtists, RangeKey: "all", Limit: limit}

	if !force {
		rows, batch, hit, err := e.freshRows(ctx, key)
		if err != nil {
			return nil, err
		}
		if hit {
			listing := &ArtistListing{Listing: Listing{BatchID: batch.ID, FetchedAt: batch.FetchedAt, FromCache: true}}
			for _, r := range clip(rows, limit) {
				listing.Artists = append(listing.Artists, r.Artist())
			}
			return listing, nil
		}
	}

	artists, err := e.gateway.FollowedArtists(ctx, cred, services.MaxPageSize)
	if err != nil {
		return nil, err
	}

	rows := make([]store.Row, len(artists))
	for i, a := range artists {
		rows[i] = store.RowFromArtist(a)
	}
	batch, err := e.store.InsertBatch(ctx, key, e.now(), rows)
	if err != nil {
		return nil, err
	}

	return &ArtistListing{
		Listing: Listing{BatchID: batch.ID, FetchedAt: batch.FetchedAt},
		Artists: clip(rankArtists(artists), limit),
	}, nil
}

// SearchTracks runs a track search through the cache, keyed on the
// normalized query so trivially different spellings share a batch.
func (e *SyncEngine) SearchTracks(ctx context.Context, cred *services.Credential, ownerID, query string, limit int, force bool) (*TrackListing, error) {
	rangeKey := normalizeQuery(query)
	key := store.BatchKey{OwnerID: ownerID, Domain: store.DomainSearches, RangeKey: rangeKey, Limit: limit}

	if !force {
		rows, batch, hit, err := e.freshRows(ctx, key)
		if err != nil {
			return nil, err
		}
		if hit {
			listing := &TrackListing{Listing: Listing{BatchID: batch.ID, FetchedAt: batch.FetchedAt, FromCache: true}}
			for _, r := range clip(rows, limit) {
				listing.Tracks = append(listing.Tracks, r.Track())
			}
			return listing, nil
		}
	}

	tracks, err := e.gateway.SearchTracks(ctx, cred, query, services.MaxPageSize)
	if err != nil {
		return nil, err
	}

	rows := make([]store.Row, len(tracks))
	for i, t := range tracks {
		rows[i] = store.RowFromTrack(t)
	}
	batch, err := e.store.InsertBatch(ctx, key, e.now(), rows)
	if err != nil {
		return nil, err
	}

	return &TrackListing{
		Listing: Listing{BatchID: batch.ID, FetchedAt: batch.FetchedAt},
		Tracks:  clip(rankTracks(tracks), limit),
	}, nil
}

// RefreshOwner drops every cached batch for an owner so the next read of
// each listing goes back to the network.
func (e *SyncEngine) RefreshOwner(ctx context.Context, ownerID string) error {
	return e.store.PurgeOwner(ctx, ownerID)
}

// normalizeQuery collapses a search query to its cache key form.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func rankTracks(tracks []models.Track) []models.Track {
	for i := range tracks {
		tracks[i].Rank = i + 1
	}
	return tracks
}

func rankArtists(artists []models.Artist) []models.Artist {
	for i := range artists {
		artists[i].Rank = i + 1
	}
	return artists
}
