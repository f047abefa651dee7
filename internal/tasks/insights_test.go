package tasks

import (
	"context"
	"testing"

	"github.com/desertthunder/soundscope/internal/analytics"
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/desertthunder/soundscope/internal/services"
)

func completeRow(trackID string, v float64) models.AudioFeatures {
	return models.AudioFeatures{
		TrackID:          trackID,
		Energy:           models.Float(v),
		Danceability:     models.Float(v),
		Valence:          models.Float(v),
		Acousticness:     models.Float(v),
		Instrumentalness: models.Float(v),
	}
}

func TestMoodClusters(t *testing.T) {
	gw := &fakeGateway{tracks: map[string][]models.Track{
		"short_term": {
			{ID: "hype", Name: "Banger"},
			{ID: "sad", Name: "Weeper"},
			{ID: "silent", Name: "No Features"},
		},
	}}
	engine, _ := newTestEngine(t, gw)
	engine.features = &fakeFeatures{rows: []models.AudioFeatures{
		completeRow("hype", 0.9),
		completeRow("sad", 0.2),
	}}

	report, err := engine.MoodClusters(context.Background(), &services.Credential{AccessToken: "tok"},
		"me", "short_term", 20, false, nil)
	if err != nil {
		t.Fatalf("mood clusters failed: %v", err)
	}

	t.Run("buckets tracks by their features", func(t *testing.T) {
		if len(report.Clusters[analytics.MoodHype]) != 1 {
			t.Errorf("expected 1 hype track, got %d", len(report.Clusters[analytics.MoodHype]))
		}
		if len(report.Clusters[analytics.MoodSad]) != 1 {
			t.Errorf("expected 1 sad track, got %d", len(report.Clusters[analytics.MoodSad]))
		}
	})

	t.Run("vector counts only complete rows", func(t *testing.T) {
		if report.Vector.ValidCount != 2 || report.Vector.TotalTracks != 3 {
			t.Errorf("unexpected vector %+v", report.Vector)
		}
	})
}

func TestMoodClustersProgress(t *testing.T) {
	gw := &fakeGateway{tracks: map[string][]models.Track{
		"short_term": {{ID: "hype", Name: "Banger"}},
	}}
	engine, _ := newTestEngine(t, gw)
	engine.features = &fakeFeatures{rows: []models.AudioFeatures{completeRow("hype", 0.9)}}

	progress := make(chan ProgressUpdate, 8)
	_, err := engine.MoodClusters(context.Background(), &services.Credential{AccessToken: "tok"},
		"me", "short_term", 20, false, progress)
	if err != nil {
		t.Fatalf("mood clusters failed: %v", err)
	}
	close(progress)

	seen := make(map[Phase]bool)
	for update := range progress {
		seen[update.Phase] = true
	}

	for _, phase := range []Phase{FetchListing, FetchFeatures, Classify} {
		if !seen[phase] {
			t.Errorf("expected a %s update", phase)
		}
	}
}

func TestComparePlaylists(t *testing.T) {
	gw := &fakeGateway{tracks: map[string][]models.Track{
		"pl-a": {{ID: "1"}, {ID: "2"}, {ID: "3"}},
		"pl-b": {{ID: "2"}, {ID: "3"}, {ID: "4"}},
	}}
	engine, _ := newTestEngine(t, gw)

	cmp, err := engine.ComparePlaylists(context.Background(), &services.Credential{AccessToken: "tok"},
		"pl-a", "pl-b", nil)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	if cmp.OverlapCount != 2 || cmp.OverlapPct != 66.7 {
		t.Errorf("unexpected overlap %d / %v", cmp.OverlapCount, cmp.OverlapPct)
	}
	if cmp.Compatibility != nil {
		t.Errorf("expected nil compatibility without features, got %d", *cmp.Compatibility)
	}
}

func TestTrackJourneys(t *testing.T) {
	gw := &fakeGateway{tracks: map[string][]models.Track{
		"short_term":  {{ID: "a", Name: "Anthem"}, {ID: "b", Name: "Ballad"}},
		"medium_term": {{ID: "a", Name: "Anthem"}},
		"long_term":   {{ID: "a", Name: "Anthem"}, {ID: "c", Name: "Cut"}},
	}}
	engine, _ := newTestEngine(t, gw)

	report, err := engine.TrackJourneys(context.Background(), &services.Credential{AccessToken: "tok"}, "me", 20, false)
	if err != nil {
		t.Fatalf("journeys failed: %v", err)
	}

	t.Run("fetches all three horizons", func(t *testing.T) {
		if gw.topTrackCalls != 3 {
			t.Errorf("expected 3 gateway calls, got %d", gw.topTrackCalls)
		}
	})

	t.Run("groups tracks by badge", func(t *testing.T) {
		if len(report.Groups[analytics.BadgeEvergreen]) != 1 {
			t.Errorf("expected an evergreen track, got %+v", report.Groups)
		}
		if len(report.Groups[analytics.BadgeNewObsession]) != 1 {
			t.Errorf("expected a new obsession, got %+v", report.Groups)
		}
		if len(report.Groups[analytics.BadgeFadingOut]) != 1 {
			t.Errorf("expected a fading track, got %+v", report.Groups)
		}
	})

	t.Run("horizon reads hit the cache on repeat", func(t *testing.T) {
		if _, err := engine.TrackJourneys(context.Background(), &services.Credential{AccessToken: "tok"}, "me", 20, false); err != nil {
			t.Fatalf("second journeys failed: %v", err)
		}
		if gw.topTrackCalls != 3 {
			t.Errorf("expected cached horizons, got %d calls", gw.topTrackCalls)
		}
	})
}

func TestGenreBreakdown(t *testing.T) {
	gw := &fakeGateway{artists: []models.Artist{
		{ID: "1", Name: "A", Genres: []string{"indie rock"}},
		{ID: "2", Name: "B", Genres: []string{"indie rock", "dream pop"}},
	}}
	engine, _ := newTestEngine(t, gw)

	chart, err := engine.GenreBreakdown(context.Background(), &services.Credential{AccessToken: "tok"},
		"me", "medium_term", 20, 8, false)
	if err != nil {
		t.Fatalf("genre breakdown failed: %v", err)
	}

	if len(chart) != 2 || chart[0].Genre != "indie rock" || chart[0].Count != 2 {
		t.Errorf("unexpected chart %+v", chart)
	}
}

func TestPersonality(t *testing.T) {
	gw := &fakeGateway{tracks: map[string][]models.Track{
		"medium_term": {{ID: "a", Name: "Anthem"}},
	}}
	engine, _ := newTestEngine(t, gw)
	engine.features = &fakeFeatures{rows: []models.AudioFeatures{completeRow("a", 0.8)}}

	persona, err := engine.Personality(context.Background(), &services.Credential{AccessToken: "tok"},
		"me", 50, nil, false, nil)
	if err != nil {
		t.Fatalf("personality failed: %v", err)
	}

	if persona.Title == "" || persona.Basis == "" {
		t.Errorf("expected a populated persona, got %+v", persona)
	}
	if persona.Stats.TrackCount != 1 {
		t.Errorf("expected stats over 1 track, got %d", persona.Stats.TrackCount)
	}
}
