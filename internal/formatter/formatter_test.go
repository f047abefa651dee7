package formatter

import (
	"strings"
	"testing"

	"github.com/desertthunder/soundscope/internal/analytics"
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/desertthunder/soundscope/internal/tasks"
)

func TestTracksToCSV(t *testing.T) {
	tracks := []models.Track{
		{Rank: 1, ID: "t1", Name: "Alpha", Artists: "One, Two", AlbumName: "LP", DurationMS: 225_000, Popularity: 80},
	}

	data, err := TracksToCSV(tracks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "Rank,ID,Title,Artists,Album,Duration,Popularity" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "3:45") {
		t.Errorf("expected formatted duration in %q", lines[1])
	}
	if !strings.Contains(lines[1], `"One, Two"`) {
		t.Errorf("expected quoted artists in %q", lines[1])
	}
}

func TestArtistsToCSV(t *testing.T) {
	artists := []models.Artist{
		{Rank: 1, ID: "a1", Name: "Slowdive", Genres: []string{"shoegaze", "dream pop"}, Popularity: 70},
	}

	data, err := ArtistsToCSV(artists)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "shoegaze; dream pop") {
		t.Errorf("expected joined genres, got %q", string(data))
	}
}

func TestMoodReportToMarkdown(t *testing.T) {
	report := &tasks.MoodReport{
		TimeRange: "short_term",
		Total:     2,
		Clusters: map[analytics.Mood][]analytics.MoodTrack{
			analytics.MoodHype: {{Track: models.Track{Name: "Banger", Artists: "DJ"}}},
			analytics.MoodSad:  {{Track: models.Track{Name: "Weeper", Artists: "Sadcore"}}},
		},
	}

	out := string(MoodReportToMarkdown(report))

	if !strings.Contains(out, "## Hype (1)") {
		t.Errorf("expected a hype section, got %q", out)
	}
	if !strings.Contains(out, "1. DJ - Banger") {
		t.Errorf("expected the hype track listed, got %q", out)
	}
	if strings.Contains(out, "Party") {
		t.Error("empty buckets should be omitted")
	}
	if strings.Index(out, "## Hype") > strings.Index(out, "## Sad") {
		t.Error("sections should follow presentation order")
	}
}

func TestComparisonToMarkdown(t *testing.T) {
	score := 87
	cmp := &tasks.PlaylistComparison{
		Comparison: analytics.Comparison{
			Compatibility: &score,
			OverlapCount:  2,
			OverlapPct:    66.7,
			CommonTracks:  []models.Track{{Name: "Shared", Artists: "Both"}},
		},
		Explanations: []string{"Both playlists feel aligned on energy and mood."},
		TracksA:      3,
		TracksB:      3,
	}

	out := string(ComparisonToMarkdown(cmp))

	if !strings.Contains(out, "**Overlap**: 2 tracks (66.7%)") {
		t.Errorf("expected the overlap line, got %q", out)
	}
	if !strings.Contains(out, "**Compatibility**: 87/100") {
		t.Errorf("expected the compatibility line, got %q", out)
	}
	if !strings.Contains(out, "aligned on energy") {
		t.Errorf("expected the explanation, got %q", out)
	}

	t.Run("nil compatibility explains itself", func(t *testing.T) {
		cmp.Compatibility = nil
		out := string(ComparisonToMarkdown(cmp))
		if !strings.Contains(out, "not enough audio feature data") {
			t.Errorf("expected the null explanation, got %q", out)
		}
	})
}

func TestMonthlyToCSV(t *testing.T) {
	summary := analytics.MonthlySummary{
		Buckets: []analytics.MonthBucket{
			{Label: "Jan 2025", PlayCount: 2, Hours: 0.08},
			{Label: "Feb 2025", PlayCount: 1, Hours: 1.0},
		},
	}

	data, err := MonthlyToCSV(summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "Jan 2025,2,0.08") {
		t.Errorf("expected the january row, got %q", out)
	}
	if !strings.Contains(out, "Feb 2025,1,1.00") {
		t.Errorf("expected the february row, got %q", out)
	}
}

func TestJourneysToMarkdown(t *testing.T) {
	one := 1
	report := &tasks.JourneyReport{
		Groups: map[analytics.Badge][]analytics.JourneyItem{
			analytics.BadgeEvergreen: {{
				Track: models.Track{Name: "Anthem", Artists: "Band"},
				Ranks: analytics.Ranks{Short: &one, Medium: &one, Long: &one},
			}},
		},
	}

	out := string(JourneysToMarkdown(report))

	if !strings.Contains(out, "## Evergreen") {
		t.Errorf("expected the badge heading, got %q", out)
	}
	if !strings.Contains(out, "4wk #1 6mo #1 all #1") {
		t.Errorf("expected rank annotations, got %q", out)
	}
}

func TestPersonaToText(t *testing.T) {
	persona := &analytics.Persona{
		Title:    "Night Owl Balanced Vibes",
		Subtitle: "mixed-mood listener with a steady groove.",
		Traits:   []string{"Easy mover"},
		Basis:    "Based on audio features from 10 tracks and recent listening hours.",
	}

	out := string(PersonaToText(persona))

	if !strings.HasPrefix(out, "Night Owl Balanced Vibes\n") {
		t.Errorf("expected the title first, got %q", out)
	}
	if !strings.Contains(out, "- Easy mover") {
		t.Errorf("expected the trait bullet, got %q", out)
	}
}
