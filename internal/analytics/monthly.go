package analytics

import (
	"sort"
	"time"

	"github.com/desertthunder/soundscope/internal/models"
	"github.com/montanaflynn/stats"
)

// MonthBucket aggregates one calendar month of listening.
type MonthBucket struct {
	Month      time.Time
	Label      string
	PlayCount  int
	DurationMS int64
	Hours      float64
}

// MonthlySummary is the per-month rollup of a play-event sample.
type MonthlySummary struct {
	Buckets         []MonthBucket
	SampleSize      int
	TotalDurationMS int64
	WindowStart     time.Time
	WindowEnd       time.Time
}

// MonthlyListening buckets play events by the calendar month of their
// timestamp in the given zone, summing full track durations. Hours are
// rounded to two decimals and buckets are returned in ascending month
// order. Events without a timestamp are skipped.
func MonthlyListening(events []models.PlayEvent, loc *time.Location) MonthlySummary {
	if loc == nil {
		loc = time.UTC
	}

	byMonth := make(map[time.Time]*MonthBucket)
	summary := MonthlySummary{}

	for _, e := range events {
		if e.PlayedAt.IsZero() {
			continue
		}

		local := e.PlayedAt.In(loc)
		month := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)

		bucket, ok := byMonth[month]
		if !ok {
			bucket = &MonthBucket{Month: month, Label: month.Format("Jan 2006")}
			byMonth[month] = bucket
		}
		bucket.PlayCount++
		bucket.DurationMS += int64(e.DurationMS)

		summary.SampleSize++
		summary.TotalDurationMS += int64(e.DurationMS)
		if summary.WindowStart.IsZero() || local.Before(summary.WindowStart) {
			summary.WindowStart = local
		}
		if local.After(summary.WindowEnd) {
			summary.WindowEnd = local
		}
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	for _, m := range months {
		bucket := byMonth[m]
		bucket.Hours, _ = stats.Round(float64(bucket.DurationMS)/3_600_000, 2)
		summary.Buckets = append(summary.Buckets, *bucket)
	}

	return summary
}
