package store

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/soundscope/internal/models"
)

// IngestPlays upserts play events by their (owner, track, played-at)
// identity. Re-ingesting an event is a no-op: the conflict clause drops the
// duplicate without touching the canonical row. Returns the number of rows
// actually inserted.
func (s *Store) IngestPlays(ctx context.Context, events []models.PlayEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO listening_plays
			(owner_id, track_id, track_name, artists, album_name, album_image_url,
			 played_at, duration_ms, preview_url, spotify_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, track_id, played_at) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare play insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range events {
		res, err := stmt.ExecContext(ctx, e.OwnerID, e.TrackID, e.TrackName, e.Artists,
			e.AlbumName, e.AlbumImageURL, e.PlayedAt, e.DurationMS, e.PreviewURL, e.SpotifyURL)
		if err != nil {
			return 0, fmt.Errorf("failed to insert play: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit plays: %w", err)
	}

	s.logger.Debug("ingested plays", "received", len(events), "inserted", inserted)
	return inserted, nil
}

// RecentEntries returns an owner's play events most-recent-first, bounded
// by limit.
func (s *Store) RecentEntries(ctx context.Context, ownerID string, limit int) ([]models.PlayEvent, error) {
	query := `
		SELECT owner_id, track_id, COALESCE(track_name, ''), COALESCE(artists, ''),
		       COALESCE(album_name, ''), COALESCE(album_image_url, ''), played_at,
		       duration_ms, COALESCE(preview_url, ''), COALESCE(spotify_url, '')
		FROM listening_plays
		WHERE owner_id = ?
		ORDER BY played_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var events []models.PlayEvent
	for rows.Next() {
		var e models.PlayEvent
		if err := rows.Scan(&e.OwnerID, &e.TrackID, &e.TrackName, &e.Artists,
			&e.AlbumName, &e.AlbumImageURL, &e.PlayedAt, &e.DurationMS,
			&e.PreviewURL, &e.SpotifyURL); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// OldestPlayedAt returns the timestamp of the owner's oldest stored play,
// or the zero time when the history is empty.
func (s *Store) OldestPlayedAt(ctx context.Context, ownerID string) (time.Time, error) {
	var raw *time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT MIN(played_at) FROM listening_plays WHERE owner_id = ?`, ownerID).Scan(&raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query oldest play: %w", err)
	}
	if raw == nil {
		return time.Time{}, nil
	}
	return *raw, nil
}

// HourHistogram counts an owner's most recent plays per local hour of day.
func (s *Store) HourHistogram(ctx context.Context, ownerID string, limit int, loc *time.Location) ([24]int, error) {
	var counts [24]int
	if loc == nil {
		loc = time.UTC
	}

	events, err := s.RecentEntries(ctx, ownerID, limit)
	if err != nil {
		return counts, err
	}

	for _, e := range events {
		counts[e.PlayedAt.In(loc).Hour()]++
	}

	return counts, nil
}
