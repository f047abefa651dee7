// package models defines the normalized value types shared across the sync
// and analytics layers.
//
// Spotify and ReccoBeats responses are flattened into these shapes at the
// service boundary; nothing downstream branches on provider representation.
package models

import "time"

// Track is a ranked track from a top-tracks, search, or playlist listing.
type Track struct {
	ID            string
	Name          string
	Rank          int    // 1-based position within its listing
	Artists       string // display string, comma separated
	AlbumName     string
	AlbumImageURL string
	Popularity    int
	PreviewURL    string
	SpotifyURL    string
	DurationMS    int
}

// Artist is a ranked artist from a top-artists or followed-artists listing.
type Artist struct {
	ID         string
	Name       string
	Rank       int
	ImageURL   string
	Genres     []string
	Popularity int
	SpotifyURL string
}

// Release is an album from the new-releases feed.
type Release struct {
	ID          string
	Name        string
	Rank        int
	Artists     string
	ImageURL    string
	TotalTracks int
	ReleaseDate string
	SpotifyURL  string
}

// PlayEvent is a single recently-played entry. Identity is
// (owner, track, played-at); everything else is denormalized display data.
type PlayEvent struct {
	OwnerID       string
	TrackID       string
	TrackName     string
	Artists       string
	AlbumName     string
	AlbumImageURL string
	PlayedAt      time.Time
	DurationMS    int
	PreviewURL    string
	SpotifyURL    string
}

// Key returns the identity key used for deduplication and upserts.
func (p PlayEvent) Key() PlayKey {
	return PlayKey{OwnerID: p.OwnerID, TrackID: p.TrackID, PlayedAt: p.PlayedAt.UnixMilli()}
}

// PlayKey is the comparable identity of a PlayEvent.
type PlayKey struct {
	OwnerID  string
	TrackID  string
	PlayedAt int64
}

// AudioFeatures is one enrichment row for a track. Dimensions are pointers
// because the enrichment API may omit any of them; analytics that require a
// complete row check for nil rather than treating absence as zero.
type AudioFeatures struct {
	TrackID          string
	Energy           *float64
	Danceability     *float64
	Valence          *float64
	Acousticness     *float64
	Instrumentalness *float64
	Tempo            *float64
}

// Complete reports whether all five vector dimensions are present.
// Tempo is not part of the feature vector and is allowed to be missing.
func (f AudioFeatures) Complete() bool {
	return f.Energy != nil && f.Danceability != nil && f.Valence != nil &&
		f.Acousticness != nil && f.Instrumentalness != nil
}

// Profile is the authenticated user's Spotify profile.
type Profile struct {
	ID          string
	DisplayName string
	ImageURL    string
	Followers   int
	SpotifyURL  string
	Product     string
}

// Float returns a pointer to v. Convenience for building feature rows.
func Float(v float64) *float64 { return &v }
