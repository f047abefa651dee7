package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/soundscope/internal/shared"
)

func TestAudioFeatures(t *testing.T) {
	ctx := context.Background()

	t.Run("requests are chunked to the batch ceiling", func(t *testing.T) {
		var batches [][]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ids := strings.Split(r.URL.Query().Get("ids"), ",")
			batches = append(batches, ids)

			var rows []string
			for _, id := range ids {
				rows = append(rows, fmt.Sprintf(
					`{"href": "https://open.spotify.com/track/%s", "energy": 0.5}`, id))
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"content": [%s]}`, strings.Join(rows, ","))
		}))
		defer server.Close()

		client := NewFeaturesClient(server.URL, shared.NewLogger(io.Discard))

		ids := make([]string, 85)
		for i := range ids {
			ids[i] = fmt.Sprintf("track-%02d", i)
		}

		features, err := client.AudioFeatures(ctx, ids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(batches) != 3 {
			t.Fatalf("expected 3 batches, got %d", len(batches))
		}
		if len(batches[0]) != 40 || len(batches[1]) != 40 || len(batches[2]) != 5 {
			t.Errorf("unexpected batch sizes %d/%d/%d", len(batches[0]), len(batches[1]), len(batches[2]))
		}
		if len(features) != 85 {
			t.Errorf("expected 85 feature rows, got %d", len(features))
		}
		if features[0].TrackID != "track-00" {
			t.Errorf("expected spotify id from href, got %q", features[0].TrackID)
		}
	})

	t.Run("rows without a href are dropped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"content": [
				{"href": "", "energy": 0.4},
				{"href": "https://open.spotify.com/track/abc", "energy": 0.6, "valence": 0.2}
			]}`))
		}))
		defer server.Close()

		client := NewFeaturesClient(server.URL, shared.NewLogger(io.Discard))

		features, err := client.AudioFeatures(ctx, []string{"abc", "def"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(features) != 1 {
			t.Fatalf("expected 1 row, got %d", len(features))
		}

		row := features[0]
		if row.TrackID != "abc" {
			t.Errorf("unexpected track id %q", row.TrackID)
		}
		if row.Energy == nil || *row.Energy != 0.6 {
			t.Errorf("unexpected energy %v", row.Energy)
		}
		if row.Danceability != nil {
			t.Errorf("missing dimension should stay nil, got %v", *row.Danceability)
		}
	})

	t.Run("no ids performs no requests", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))
		defer server.Close()

		client := NewFeaturesClient(server.URL, shared.NewLogger(io.Discard))

		features, err := client.AudioFeatures(ctx, nil)
		if err != nil || features != nil {
			t.Errorf("expected empty no-op, got %v / %v", features, err)
		}
		if calls != 0 {
			t.Errorf("expected zero requests, got %d", calls)
		}
	})

	t.Run("provider failures map to the remote kind", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewFeaturesClient(server.URL, shared.NewLogger(io.Discard))

		_, err := client.AudioFeatures(ctx, []string{"abc"})
		if !errors.Is(err, shared.ErrRemote) {
			t.Errorf("expected ErrRemote, got %v", err)
		}
	})
}

func TestSpotifyIDFromHref(t *testing.T) {
	cases := []struct {
		href string
		want string
	}{
		{"https://open.spotify.com/track/abc123", "abc123"},
		{"https://open.spotify.com/track/abc123/", "abc123"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := spotifyIDFromHref(tc.href); got != tc.want {
			t.Errorf("href %q: expected %q, got %q", tc.href, tc.want, got)
		}
	}
}
