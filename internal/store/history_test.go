package store

import (
	"context"
	"testing"
	"time"

	"github.com/desertthunder/soundscope/internal/models"
)

// samplePlays builds three plays for owner "me" at base, -1h, and -2h.
func samplePlays(base time.Time) []models.PlayEvent {
	events := make([]models.PlayEvent, 3)
	for i := range events {
		events[i] = models.PlayEvent{
			OwnerID:    "me",
			TrackID:    "t" + string(rune('1'+i)),
			TrackName:  "Track",
			Artists:    "Artist",
			PlayedAt:   base.Add(-time.Duration(i) * time.Hour),
			DurationMS: 180_000,
		}
	}
	return events
}

func TestIngestPlays(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.May, 20, 21, 0, 0, 0, time.UTC)

	events := samplePlays(base)

	t.Run("inserts unique events", func(t *testing.T) {
		inserted, err := s.IngestPlays(ctx, events)
		if err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
		if inserted != 3 {
			t.Errorf("expected 3 inserted, got %d", inserted)
		}
	})

	t.Run("re-ingesting the same events inserts nothing", func(t *testing.T) {
		inserted, err := s.IngestPlays(ctx, events)
		if err != nil {
			t.Fatalf("re-ingest failed: %v", err)
		}
		if inserted != 0 {
			t.Errorf("expected 0 inserted, got %d", inserted)
		}
	})

	t.Run("recent entries come back most recent first", func(t *testing.T) {
		got, err := s.RecentEntries(ctx, "me", 10)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 events, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].PlayedAt.After(got[i-1].PlayedAt) {
				t.Errorf("events out of order at %d", i)
			}
		}
		if got[0].TrackID != "t1" {
			t.Errorf("expected newest first, got %s", got[0].TrackID)
		}
	})

	t.Run("limit truncates the listing", func(t *testing.T) {
		got, err := s.RecentEntries(ctx, "me", 2)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 events, got %d", len(got))
		}
	})

	t.Run("owners are isolated", func(t *testing.T) {
		got, err := s.RecentEntries(ctx, "someone-else", 10)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no events, got %d", len(got))
		}
	})
}

func TestOldestPlayedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("empty history yields the zero time", func(t *testing.T) {
		oldest, err := s.OldestPlayedAt(ctx, "me")
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if !oldest.IsZero() {
			t.Errorf("expected zero time, got %v", oldest)
		}
	})

	t.Run("returns the minimum timestamp", func(t *testing.T) {
		base := time.Date(2025, time.May, 20, 21, 0, 0, 0, time.UTC)
		if _, err := s.IngestPlays(ctx, samplePlays(base)); err != nil {
			t.Fatalf("ingest failed: %v", err)
		}

		oldest, err := s.OldestPlayedAt(ctx, "me")
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		want := base.Add(-2 * time.Hour)
		if !oldest.Equal(want) {
			t.Errorf("expected %v, got %v", want, oldest)
		}
	})
}

func TestHourHistogram(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.May, 20, 21, 30, 0, 0, time.UTC)

	if _, err := s.IngestPlays(ctx, samplePlays(base)); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	counts, err := s.HourHistogram(ctx, "me", 10, time.UTC)
	if err != nil {
		t.Fatalf("histogram failed: %v", err)
	}

	if counts[21] != 1 || counts[20] != 1 || counts[19] != 1 {
		t.Errorf("unexpected histogram %v", counts)
	}
}
