// package store persists the batch cache and the play-event history on
// SQLite.
//
// Batches are immutable versions: a refresh inserts a new batch and leaves
// older ones for audit. Correctness under concurrent writers comes from the
// schema's uniqueness constraints, not application locks.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/desertthunder/soundscope/internal/shared"
)

// Cache domains. Each domain carries its own TTL in configuration.
const (
	DomainTopArtists      = "top-artists"
	DomainTopTracks       = "top-tracks"
	DomainNewReleases     = "new-releases"
	DomainFollowedArtists = "followed-artists"
	DomainSearches        = "searches"
)

// Store wraps the SQLite handle for cache and history tables.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// New creates a Store on an open database.
func New(db *sql.DB, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{db: db, logger: shared.WithLogger(logger, "component", "store")}
}

// BatchKey identifies a cache lineage: all versions of one cached listing.
type BatchKey struct {
	OwnerID  string
	Domain   string
	RangeKey string
	Limit    int
}

// Batch is one immutable cache version.
type Batch struct {
	ID        string
	Key       BatchKey
	FetchedAt time.Time
}

// FreshAt reports whether the batch is still within its freshness window.
func (b *Batch) FreshAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(b.FetchedAt) <= ttl
}

// Row is a domain-agnostic cached result with 1-based position. Only the
// fields relevant to the batch's domain are populated.
type Row struct {
	Position    int
	ItemID      string
	Name        string
	Artists     string
	AlbumName   string
	ImageURL    string
	Genres      []string
	Popularity  int
	PreviewURL  string
	SpotifyURL  string
	DurationMS  int
	ReleaseDate string
	TotalTracks int
}

// FreshestBatch returns the newest batch version for a key, or
// [shared.ErrBatchNotFound] when the key has never been cached.
func (s *Store) FreshestBatch(ctx context.Context, key BatchKey) (*Batch, error) {
	query := `
		SELECT id, fetched_at FROM cache_batches
		WHERE owner_id = ? AND domain = ? AND range_key = ? AND item_limit = ?
		ORDER BY fetched_at DESC LIMIT 1
	`

	batch := &Batch{Key: key}
	err := s.db.QueryRowContext(ctx, query, key.OwnerID, key.Domain, key.RangeKey, key.Limit).
		Scan(&batch.ID, &batch.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query batch: %w", err)
	}

	return batch, nil
}

// BatchRows returns a batch's results ordered by position.
func (s *Store) BatchRows(ctx context.Context, batchID string) ([]Row, error) {
	query := `
		SELECT position, item_id, name, COALESCE(artists, ''), COALESCE(album_name, ''),
		       COALESCE(image_url, ''), COALESCE(genres, ''), COALESCE(popularity, 0),
		       COALESCE(preview_url, ''), COALESCE(spotify_url, ''), COALESCE(duration_ms, 0),
		       COALESCE(release_date, ''), COALESCE(total_tracks, 0)
		FROM cache_results WHERE batch_id = ? ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch rows: %w", err)
	}
	defer rows.Close()

	var results []Row
	for rows.Next() {
		var r Row
		var genres string
		if err := rows.Scan(&r.Position, &r.ItemID, &r.Name, &r.Artists, &r.AlbumName,
			&r.ImageURL, &genres, &r.Popularity, &r.PreviewURL, &r.SpotifyURL,
			&r.DurationMS, &r.ReleaseDate, &r.TotalTracks); err != nil {
			return nil, fmt.Errorf("failed to scan batch row: %w", err)
		}
		r.Genres = decodeGenres(genres)
		results = append(results, r)
	}

	return results, rows.Err()
}

// InsertBatch writes a brand-new batch version with its ordered results in
// one transaction. Positions are assigned 1..n from slice order.
func (s *Store) InsertBatch(ctx context.Context, key BatchKey, fetchedAt time.Time, results []Row) (*Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	batch := &Batch{ID: shared.GenerateID(), Key: key, FetchedAt: fetchedAt}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cache_batches (id, owner_id, domain, range_key, item_limit, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		batch.ID, key.OwnerID, key.Domain, key.RangeKey, key.Limit, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cache_results
			(batch_id, position, item_id, name, artists, album_name, image_url, genres,
			 popularity, preview_url, spotify_url, duration_ms, release_date, total_tracks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		if _, err := stmt.ExecContext(ctx, batch.ID, i+1, r.ItemID, r.Name, r.Artists,
			r.AlbumName, r.ImageURL, encodeGenres(r.Genres), r.Popularity, r.PreviewURL,
			r.SpotifyURL, r.DurationMS, r.ReleaseDate, r.TotalTracks); err != nil {
			return nil, fmt.Errorf("failed to insert result %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}

	s.logger.Debug("cached batch", "domain", key.Domain, "range", key.RangeKey, "results", len(results))
	return batch, nil
}

// PurgeOwner deletes every cached batch for an owner. Used by the explicit
// "refresh my data" path; history rows are never purged.
func (s *Store) PurgeOwner(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache_batches WHERE owner_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

func encodeGenres(genres []string) string {
	if len(genres) == 0 {
		return ""
	}
	data, err := json.Marshal(genres)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	var genres []string
	if err := json.Unmarshal([]byte(raw), &genres); err != nil {
		return nil
	}
	return genres
}

// Row conversions to and from the normalized model types.

func RowFromTrack(t models.Track) Row {
	return Row{
		ItemID:     t.ID,
		Name:       t.Name,
		Artists:    t.Artists,
		AlbumName:  t.AlbumName,
		ImageURL:   t.AlbumImageURL,
		Popularity: t.Popularity,
		PreviewURL: t.PreviewURL,
		SpotifyURL: t.SpotifyURL,
		DurationMS: t.DurationMS,
	}
}

func (r Row) Track() models.Track {
	return models.Track{
		ID:            r.ItemID,
		Name:          r.Name,
		Rank:          r.Position,
		Artists:       r.Artists,
		AlbumName:     r.AlbumName,
		AlbumImageURL: r.ImageURL,
		Popularity:    r.Popularity,
		PreviewURL:    r.PreviewURL,
		SpotifyURL:    r.SpotifyURL,
		DurationMS:    r.DurationMS,
	}
}

func RowFromArtist(a models.Artist) Row {
	return Row{
		ItemID:     a.ID,
		Name:       a.Name,
		ImageURL:   a.ImageURL,
		Genres:     a.Genres,
		Popularity: a.Popularity,
		SpotifyURL: a.SpotifyURL,
	}
}

func (r Row) Artist() models.Artist {
	return models.Artist{
		ID:         r.ItemID,
		Name:       r.Name,
		Rank:       r.Position,
		ImageURL:   r.ImageURL,
		Genres:     r.Genres,
		Popularity: r.Popularity,
		SpotifyURL: r.SpotifyURL,
	}
}

func RowFromRelease(rel models.Release) Row {
	return Row{
		ItemID:      rel.ID,
		Name:        rel.Name,
		Artists:     rel.Artists,
		ImageURL:    rel.ImageURL,
		TotalTracks: rel.TotalTracks,
		ReleaseDate: rel.ReleaseDate,
		SpotifyURL:  rel.SpotifyURL,
	}
}

func (r Row) Release() models.Release {
	return models.Release{
		ID:          r.ItemID,
		Name:        r.Name,
		Rank:        r.Position,
		Artists:     r.Artists,
		ImageURL:    r.ImageURL,
		TotalTracks: r.TotalTracks,
		ReleaseDate: r.ReleaseDate,
		SpotifyURL:  r.SpotifyURL,
	}
}
