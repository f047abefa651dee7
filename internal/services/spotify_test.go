package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/soundscope/internal/shared"
)

// validCred is far from expiry so no test here touches the token endpoint.
func validCred(c *SpotifyClient) *Credential {
	return &Credential{AccessToken: "test-token", ExpiresAt: c.now().Add(time.Hour)}
}

func TestTopTracks(t *testing.T) {
	ctx := context.Background()

	t.Run("parses and ranks the listing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me/top/tracks" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("unexpected auth header %q", got)
			}
			if got := r.URL.Query().Get("time_range"); got != "short_term" {
				t.Errorf("unexpected time_range %q", got)
			}

			w.Write([]byte(`{"items": [
				{"id": "t1", "name": "Alpha", "duration_ms": 180000,
				 "artists": [{"name": "One"}, {"name": "Two"}],
				 "album": {"name": "LP", "images": [{"url": "http://img/1"}]},
				 "external_urls": {"spotify": "http://open/t1"}},
				{"id": "t2", "name": "Beta", "duration_ms": 200000,
				 "artists": [{"name": "Three"}]}
			]}`))
		}))
		defer server.Close()

		client := newTestClient(t)
		client.baseURL = server.URL

		tracks, err := client.TopTracks(ctx, validCred(client), 20, "short_term")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].Rank != 1 || tracks[1].Rank != 2 {
			t.Errorf("expected ranks 1,2, got %d,%d", tracks[0].Rank, tracks[1].Rank)
		}
		if tracks[0].Artists != "One, Two" {
			t.Errorf("expected joined artist names, got %q", tracks[0].Artists)
		}
		if tracks[0].AlbumImageURL != "http://img/1" {
			t.Errorf("expected first album image, got %q", tracks[0].AlbumImageURL)
		}
	})

	t.Run("empty body reads as an empty collection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestClient(t)
		client.baseURL = server.URL

		tracks, err := client.TopTracks(ctx, validCred(client), 20, "short_term")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected no tracks, got %d", len(tracks))
		}
	})
}

func TestGatewayErrorMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("structured error message is surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"status": 429, "message": "API rate limit exceeded"}}`))
		}))
		defer server.Close()

		client := newTestClient(t)
		client.baseURL = server.URL

		_, err := client.TopTracks(ctx, validCred(client), 20, "short_term")
		if !errors.Is(err, shared.ErrRemote) {
			t.Fatalf("expected ErrRemote, got %v", err)
		}

		var remote *RemoteError
		if !errors.As(err, &remote) {
			t.Fatalf("expected a RemoteError, got %T", err)
		}
		if remote.Status != http.StatusTooManyRequests || remote.Message != "API rate limit exceeded" {
			t.Errorf("unexpected remote error %+v", remote)
		}
		if remote.Reason != ReasonStatus {
			t.Errorf("expected status reason, got %s", remote.Reason)
		}
	})

	t.Run("insufficient scope gets its own error kind", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": {"status": 403, "message": "Insufficient client scope"}}`))
		}))
		defer server.Close()

		client := newTestClient(t)
		client.baseURL = server.URL

		_, err := client.TopTracks(ctx, validCred(client), 20, "short_term")
		if !errors.Is(err, shared.ErrInsufficientScope) {
			t.Fatalf("expected ErrInsufficientScope, got %v", err)
		}
		if !errors.Is(err, shared.ErrRemote) {
			t.Error("scope errors should still match the remote kind")
		}

		var remote *RemoteError
		if errors.As(err, &remote) && remote.Reason != ReasonInsufficientScope {
			t.Errorf("expected insufficient_scope reason, got %s", remote.Reason)
		}
	})

	t.Run("malformed error body falls back to the status phrase", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		client := newTestClient(t)
		client.baseURL = server.URL

		_, err := client.TopTracks(ctx, validCred(client), 20, "short_term")

		var remote *RemoteError
		if !errors.As(err, &remote) {
			t.Fatalf("expected a RemoteError, got %v", err)
		}
		if remote.Message != http.StatusText(http.StatusBadGateway) {
			t.Errorf("expected status phrase, got %q", remote.Message)
		}
	})

	t.Run("transport failures map to the network reason", func(t *testing.T) {
		client := newTestClient(t)
		client.baseURL = "http://127.0.0.1:0" // unroutable

		_, err := client.TopTracks(ctx, validCred(client), 20, "short_term")
		if !errors.Is(err, shared.ErrRemote) {
			t.Fatalf("expected ErrRemote, got %v", err)
		}

		var remote *RemoteError
		if errors.As(err, &remote) && remote.Reason != ReasonNetwork {
			t.Errorf("expected network reason, got %s", remote.Reason)
		}
	})
}

func TestRecentlyPlayedPage(t *testing.T) {
	ctx := context.Background()

	t.Run("first page omits the cursor", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Has("before") {
				t.Errorf("expected no before param, got %q", r.URL.Query().Get("before"))
			}
			w.Write([]byte(`{"items": [
				{"track": {"id": "t1", "name": "Alpha", "duration_ms": 180000,
				           "artists": [{"name": "One"}], "album": {"name": "LP"}},
				 "played_at": "2025-05-20T21:00:00.000Z"}
			], "next": "https://api.spotify.com/page2"}`))
		}))
		defer server.Close()

		client := newTestClient(t)
		client.baseURL = server.URL

		page, err := client.RecentlyPlayedPage(ctx, validCred(client), 50, time.Time{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !page.HasNext {
			t.Error("expected a next page")
		}
		if len(page.Events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(page.Events))
		}

		event := page.Events[0]
		want := time.Date(2025, time.May, 20, 21, 0, 0, 0, time.UTC)
		if !event.PlayedAt.Equal(want) {
			t.Errorf("expected played_at %v, got %v", want, event.PlayedAt)
		}
		if event.TrackID != "t1" || event.Artists != "One" {
			t.Errorf("unexpected event %+v", event)
		}
	})

	t.Run("cursor rides the before parameter in unix millis", func(t *testing.T) {
		var gotBefore string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBefore = r.URL.Query().Get("before")
			w.Write([]byte(`{"items": []}`))
		}))
		defer server.Close()

		client := newTestClient(t)
		client.baseURL = server.URL

		before := time.Date(2025, time.May, 20, 21, 0, 0, 0, time.UTC)
		page, err := client.RecentlyPlayedPage(ctx, validCred(client), 50, before)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotBefore != "1747774800000" {
			t.Errorf("unexpected before param %q", gotBefore)
		}
		if page.HasNext {
			t.Error("expected no next page")
		}
	})

	t.Run("unparseable timestamps are skipped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items": [
				{"track": {"id": "t1", "name": "Alpha"}, "played_at": "not-a-time"},
				{"track": {"id": "t2", "name": "Beta"}, "played_at": "2025-05-20T21:00:00Z"}
			]}`))
		}))
		defer server.Close()

		client := newTestClient(t)
		client.baseURL = server.URL

		page, err := client.RecentlyPlayedPage(ctx, validCred(client), 50, time.Time{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Events) != 1 || page.Events[0].TrackID != "t2" {
			t.Errorf("expected only the parseable event, got %+v", page.Events)
		}
	})
}

func TestPlaylistTracks(t *testing.T) {
	ctx := context.Background()

	t.Run("skips local files without ids", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items": [
				{"track": {"id": "", "name": "Local File"}},
				{"track": {"id": "t1", "name": "Alpha"}}
			]}`))
		}))
		defer server.Close()

		client := newTestClient(t)
		client.baseURL = server.URL

		tracks, err := client.PlaylistTracks(ctx, validCred(client), "pl", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 1 || tracks[0].ID != "t1" {
			t.Errorf("expected only catalog tracks, got %+v", tracks)
		}
	})
}
