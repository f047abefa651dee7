// Spotify Web API client
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/desertthunder/soundscope/internal/shared"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// MaxPageSize is the largest page Spotify serves for list endpoints.
	MaxPageSize = 50

	requestTimeout = 5 * time.Second
)

// SpotifyClient performs bearer-authenticated requests against the Spotify
// Web API and owns the access-token lifecycle for each call. It keeps no
// per-user state: the caller passes its [Credential] into every operation.
type SpotifyClient struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *log.Logger
	now          func() time.Time
}

// NewSpotifyClient creates a client from the configured application
// credentials. Timeouts are small and bounded; there is no retry layer.
func NewSpotifyClient(cfg shared.SpotifyConfig, logger *log.Logger) *SpotifyClient {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SpotifyClient{
		baseURL:      spotifyBaseURL,
		tokenURL:     spotifyTokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: requestTimeout},
		limiter:      rate.NewLimiter(rate.Limit(10), 5),
		logger:       shared.WithLogger(logger, "service", "spotify"),
		now:          time.Now,
	}
}

// Wire types

type apiExternalURLs struct {
	Spotify string `json:"spotify"`
}

type apiImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type apiArtist struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Genres       []string        `json:"genres"`
	Images       []apiImage      `json:"images"`
	Popularity   int             `json:"popularity"`
	ExternalURLs apiExternalURLs `json:"external_urls"`
}

type apiAlbum struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []apiArtist     `json:"artists"`
	Images       []apiImage      `json:"images"`
	ReleaseDate  string          `json:"release_date"`
	TotalTracks  int             `json:"total_tracks"`
	ExternalURLs apiExternalURLs `json:"external_urls"`
}

type apiTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []apiArtist     `json:"artists"`
	Album        apiAlbum        `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Popularity   int             `json:"popularity"`
	PreviewURL   string          `json:"preview_url"`
	ExternalURLs apiExternalURLs `json:"external_urls"`
}

type apiUser struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Images      []apiImage `json:"images"`
	Product     string     `json:"product"`
	Followers   struct {
		Total int `json:"total"`
	} `json:"followers"`
	ExternalURLs apiExternalURLs `json:"external_urls"`
}

type apiPlayItem struct {
	Track    apiTrack `json:"track"`
	PlayedAt string   `json:"played_at"`
}

// RecentlyPlayedPage is one page of the cursor-paginated history feed.
type RecentlyPlayedPage struct {
	Events  []models.PlayEvent
	HasNext bool
}

// Gateway

// do performs one authenticated request and maps every failure to a
// RemoteError. Empty or malformed success bodies leave out untouched, so
// callers see the zero value and treat it as an empty collection.
func (s *SpotifyClient) do(ctx context.Context, method, accessToken, path string, params url.Values, payload, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return remoteTransportError(err)
	}

	endpoint := s.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &RemoteError{Reason: ReasonStatus, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return remoteTransportError(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return remoteTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return remoteTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remote := remoteStatusError(resp.StatusCode, body)
		s.logger.Warn("spotify request failed", "path", path, "status", resp.StatusCode, "reason", remote.Reason)
		return remote
	}

	if out != nil && len(body) > 0 {
		// "no data" and "empty collection" are the same thing to callers
		_ = json.Unmarshal(body, out)
	}

	return nil
}

func (s *SpotifyClient) get(ctx context.Context, accessToken, path string, params url.Values, out any) error {
	return s.do(ctx, http.MethodGet, accessToken, path, params, nil, out)
}

func (s *SpotifyClient) postJSON(ctx context.Context, accessToken, path string, payload, out any) error {
	return s.do(ctx, http.MethodPost, accessToken, path, nil, payload, out)
}

// Endpoints

// Profile retrieves the authenticated user's profile.
func (s *SpotifyClient) Profile(ctx context.Context, cred *Credential) (*models.Profile, error) {
	accessToken, err := s.ensureAccessToken(ctx, cred)
	if err != nil {
		return nil, err
	}

	var user apiUser
	if err := s.get(ctx, accessToken, "/me", nil, &user); err != nil {
		return nil, err
	}

	return &models.Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		ImageURL:    firstImage(user.Images),
		Followers:   user.Followers.Total,
		SpotifyURL:  user.ExternalURLs.Spotify,
		Product:     user.Product,
	}, nil
}

// CurrentUserID returns the Spotify account id of the credential's owner.
func (s *SpotifyClient) CurrentUserID(ctx context.Context, cred *Credential) (string, error) {
	profile, err := s.Profile(ctx, cred)
	if err != nil {
		return "", err
	}
	if profile.ID == "" {
		return "", &RemoteError{Reason: ReasonStatus, Message: "could not determine spotify user id"}
	}
	return profile.ID, nil
}

// TopArtists fetches the user's top artists for a time range, ranked 1..n.
func (s *SpotifyClient) TopArtists(ctx context.Context, cred *Credential, limit int, timeRange string) ([]models.Artist, error) {
	accessToken, err := s.ensureAccessToken(ctx, cred)
	if err != nil {
		return nil, err
	}

	params := url.Values{"limit": {strconv.Itoa(clampLimit(limit))}, "time_range": {timeRange}}

	var response struct {
		Items []apiArtist `json:"items"`
	}
	if err := s.get(ctx, accessToken, "/me/top/artists", params, &response); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(response.Items))
	for i, item := range response.Items {
		artists = append(artists, artistFromAPI(item, i+1))
	}
	return artists, nil
}

// TopTracks fetches the user's top tracks for a time range, ranked 1..n.
func (s *SpotifyClient) TopTracks(ctx context.Context, cred *Credential, limit int, timeRange string) ([]models.Track, error) {
	accessToken, err := s.ensureAccessToken(ctx, cred)
	if err != nil {
		return nil, err
	}

	params := url.Values{"limit": {strconv.Itoa(clampLimit(limit))}, "time_range": {timeRange}}

	var response struct {
		Items []apiTrack `json:"items"`
	}
	if err := s.get(ctx, accessToken, "/me/top/tracks", params, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Items))
	for i, item := range response.Items {
		tracks = append(tracks, trackFromAPI(item, i+1))
	}
	return tracks, nil
}

// NewReleases fetches the newest album releases, ranked 1..n.
func (s *SpotifyClient) NewReleases(ctx context.Context, cred *Credential, limit int) ([]models.Release, error) {
	accessToken, err := s.ensureAccessToken(ctx, cred)
	if err != nil {
		return nil, err
	}

	params := url.Values{"limit": {strconv.Itoa(clampLimit(limit))}}

	var response struct {
		Albums struct {
			Items []apiAlbum `json:"items"`
		} `json:"albums"`
	}
	if err := s.get(ctx, accessToken, "/browse/new-releases", params, &response); err != nil {
		return nil, err
	}

	releases := make([]models.Release, 0, len(response.Albums.Items))
	for i, item := range response.Albums.Items {
		releases = append(releases, models.Release{
			ID:          item.ID,
			Name:        item.Name,
			Rank:        i + 1,
			Artists:     joinArtistNames(item.Artists),
			ImageURL:    firstImage(item.Images),
			TotalTracks: item.TotalTracks,
			ReleaseDate: item.ReleaseDate,
			SpotifyURL:  item.ExternalURLs.Spotify,
		})
	}
	return releases, nil
}

// FollowedArtists fetches the artists the user follows, ranked 1..n.
func (s *SpotifyClient) FollowedArtists(ctx context.Context, cred *Credential, limit int) ([]models.Artist, error) {
	accessToken, err := s.ensureAccessToken(ctx, cred)
	if err != nil {
		return nil, err
	}

	params := url.Values{"type": {"artist"}, "limit": {strconv.Itoa(clampLimit(limit))}}

	var response struct {
		Artists struct {
			Items []apiArtist `json:"items"`
		} `json:"artists"`
	}
	if err := s.get(ctx, accessToken, "/me/following", params, &response); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(response.Artists.Items))
	for i, item := range response.Artists.Items {
		artists = append(artists, artistFromAPI(item, i+1))
	}
	return artists, nil
}

// SearchTracks performs a track search, ranked 1..n.
func (s *SpotifyClient) SearchTracks(ctx context.Context, cred *Credential, query string, limit int) ([]models.Track, error) {
	accessToken, err := s.ensureAccessToken(ctx, cred)
	if err != nil {
		return nil, err
	}

	params := url.Values{"q": {query}, "type": {"track"}, "limit": {strconv.Itoa(clampLimit(limit))}}

	var response struct {
		Tracks struct {
			Items []apiTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := s.get(ctx, accessToken, "/search", params, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks.Items))
	for i, item := range response.Tracks.Items {
		tracks = append(tracks, trackFromAPI(item, i+1))
	}
	return tracks, nil
}

// playlistTrackCap bounds a full-playlist fetch when the caller does not
// name a limit.
const playlistTrackCap = 200

// PlaylistTracks fetches up to limit tracks of a playlist using offset
// pagination, pages of [MaxPageSize]. A non-positive limit fetches the
// whole playlist up to [playlistTrackCap].
func (s *SpotifyClient) PlaylistTracks(ctx context.Context, cred *Credential, playlistID string, limit int) ([]models.Track, error) {
	accessToken, err := s.ensureAccessToken(ctx, cred)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = playlistTrackCap
	}

	var tracks []models.Track
	offset := 0

	for len(tracks) < limit {
		pageSize := MaxPageSize
		if remaining := limit - len(tracks); remaining < pageSize {
			pageSize = remaining
		}

		params := url.Values{
			"limit":  {strconv.Itoa(pageSize)},
			"offset": {strconv.Itoa(offset)},
		}

		var response struct {
			Items []struct {
				Track apiTrack `json:"track"`
			} `json:"items"`
			Next *string `json:"next"`
		}
		if err := s.get(ctx, accessToken, "/playlists/"+playlistID+"/tracks", params, &response); err != nil {
			return nil, err
		}

		for _, item := range response.Items {
			if item.Track.ID == "" {
				continue // local files have no catalog id
			}
			tracks = append(tracks, trackFromAPI(item.Track, len(tracks)+1))
		}

		if response.Next == nil || len(response.Items) < pageSize {
			break
		}
		offset += len(response.Items)
	}

	return tracks, nil
}

// RecentlyPlayedPage fetches one page of the recently-played feed. A zero
// before time omits the cursor and yields the newest page.
func (s *SpotifyClient) RecentlyPlayedPage(ctx context.Context, cred *Credential, pageSize int, before time.Time) (*RecentlyPlayedPage, error) {
	accessToken, err := s.ensureAccessToken(ctx, cred)
	if err != nil {
		return nil, err
	}

	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	params := url.Values{"limit": {strconv.Itoa(pageSize)}}
	if !before.IsZero() {
		params.Set("before", strconv.FormatInt(before.UnixMilli(), 10))
	}

	var response struct {
		Items []apiPlayItem `json:"items"`
		Next  *string       `json:"next"`
	}
	if err := s.get(ctx, accessToken, "/me/player/recently-played", params, &response); err != nil {
		return nil, err
	}

	page := &RecentlyPlayedPage{HasNext: response.Next != nil}
	for _, item := range response.Items {
		playedAt, err := time.Parse(time.RFC3339Nano, item.PlayedAt)
		if err != nil {
			continue
		}
		page.Events = append(page.Events, models.PlayEvent{
			TrackID:       item.Track.ID,
			TrackName:     item.Track.Name,
			Artists:       joinArtistNames(item.Track.Artists),
			AlbumName:     item.Track.Album.Name,
			AlbumImageURL: firstImage(item.Track.Album.Images),
			PlayedAt:      playedAt,
			DurationMS:    item.Track.DurationMS,
			PreviewURL:    item.Track.PreviewURL,
			SpotifyURL:    item.Track.ExternalURLs.Spotify,
		})
	}

	return page, nil
}

// CreatePlaylist creates a playlist in the user's account and returns its id.
func (s *SpotifyClient) CreatePlaylist(ctx context.Context, cred *Credential, userID, name, description string, public bool) (string, error) {
	accessToken, err := s.ensureAccessToken(ctx, cred)
	if err != nil {
		return "", err
	}

	payload := map[string]any{"name": name, "description": description, "public": public}

	var response struct {
		ID string `json:"id"`
	}
	if err := s.postJSON(ctx, accessToken, "/users/"+userID+"/playlists", payload, &response); err != nil {
		return "", err
	}
	if response.ID == "" {
		return "", &RemoteError{Reason: ReasonStatus, Message: "failed to create playlist"}
	}
	return response.ID, nil
}

// AddTracksToPlaylist appends track URIs to an existing playlist.
func (s *SpotifyClient) AddTracksToPlaylist(ctx context.Context, cred *Credential, playlistID string, uris []string) error {
	accessToken, err := s.ensureAccessToken(ctx, cred)
	if err != nil {
		return err
	}

	payload := map[string]any{"uris": uris}
	return s.postJSON(ctx, accessToken, "/playlists/"+playlistID+"/tracks", payload, nil)
}

// Mapping helpers

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func firstImage(images []apiImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

func joinArtistNames(artists []apiArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func artistFromAPI(item apiArtist, rank int) models.Artist {
	genres := item.Genres
	if genres == nil {
		genres = []string{}
	}
	return models.Artist{
		ID:         item.ID,
		Name:       item.Name,
		Rank:       rank,
		ImageURL:   firstImage(item.Images),
		Genres:     genres,
		Popularity: item.Popularity,
		SpotifyURL: item.ExternalURLs.Spotify,
	}
}

func trackFromAPI(item apiTrack, rank int) models.Track {
	return models.Track{
		ID:            item.ID,
		Name:          item.Name,
		Rank:          rank,
		Artists:       joinArtistNames(item.Artists),
		AlbumName:     item.Album.Name,
		AlbumImageURL: firstImage(item.Album.Images),
		Popularity:    item.Popularity,
		PreviewURL:    item.PreviewURL,
		SpotifyURL:    item.ExternalURLs.Spotify,
		DurationMS:    item.DurationMS,
	}
}

// AuthCodeURL builds the user consent URL for the authorization-code flow.
// The handshake itself lives in internal/server; the client only consumes
// the resulting token triple.
func AuthCodeURL(cfg shared.SpotifyConfig, state string, scopes []string) string {
	params := url.Values{
		"client_id":     {cfg.ClientID},
		"response_type": {"code"},
		"redirect_uri":  {cfg.RedirectURI},
		"scope":         {strings.Join(scopes, " ")},
		"state":         {state},
	}
	return spotifyAuthURL + "?" + params.Encode()
}
