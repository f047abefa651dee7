package analytics

import (
	"testing"
	"time"

	"github.com/desertthunder/soundscope/internal/models"
)

func play(owner, track string, playedAt time.Time, durationMS int) models.PlayEvent {
	return models.PlayEvent{OwnerID: owner, TrackID: track, PlayedAt: playedAt, DurationMS: durationMS}
}

func TestMonthlyListening(t *testing.T) {
	jan := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2025, time.February, 2, 8, 0, 0, 0, time.UTC)

	t.Run("buckets by calendar month ascending", func(t *testing.T) {
		events := []models.PlayEvent{
			play("me", "b", feb, 3_600_000),
			play("me", "a", jan, 120_000),
			play("me", "a", jan.Add(time.Hour), 180_000),
		}

		summary := MonthlyListening(events, time.UTC)

		if summary.SampleSize != 3 {
			t.Fatalf("expected sample size 3, got %d", summary.SampleSize)
		}
		if summary.TotalDurationMS != 3_900_000 {
			t.Errorf("expected total duration 3900000, got %d", summary.TotalDurationMS)
		}
		if len(summary.Buckets) != 2 {
			t.Fatalf("expected 2 buckets, got %d", len(summary.Buckets))
		}

		first := summary.Buckets[0]
		if first.Label != "Jan 2025" || first.PlayCount != 2 || first.Hours != 0.08 {
			t.Errorf("unexpected january bucket: %+v", first)
		}

		second := summary.Buckets[1]
		if second.Label != "Feb 2025" || second.PlayCount != 1 || second.Hours != 1.0 {
			t.Errorf("unexpected february bucket: %+v", second)
		}
	})

	t.Run("skips events without a timestamp", func(t *testing.T) {
		events := []models.PlayEvent{
			play("me", "a", jan, 60_000),
			play("me", "b", time.Time{}, 60_000),
		}

		summary := MonthlyListening(events, time.UTC)
		if summary.SampleSize != 1 {
			t.Errorf("expected sample size 1, got %d", summary.SampleSize)
		}
	})

	t.Run("buckets follow the configured zone", func(t *testing.T) {
		// 31 Jan 23:30 UTC is already February in Auckland.
		loc, err := time.LoadLocation("Pacific/Auckland")
		if err != nil {
			t.Skip("zone database unavailable")
		}

		boundary := time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC)
		summary := MonthlyListening([]models.PlayEvent{play("me", "a", boundary, 60_000)}, loc)

		if len(summary.Buckets) != 1 || summary.Buckets[0].Label != "Feb 2025" {
			t.Errorf("expected Feb 2025 bucket, got %+v", summary.Buckets)
		}
	})

	t.Run("empty history yields empty summary", func(t *testing.T) {
		summary := MonthlyListening(nil, time.UTC)
		if summary.SampleSize != 0 || len(summary.Buckets) != 0 {
			t.Errorf("expected empty summary, got %+v", summary)
		}
	})
}
