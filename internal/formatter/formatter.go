// package formatter exports listings and analytics reports to CSV,
// Markdown, and plain text for the CLI's output flags.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/soundscope/internal/analytics"
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/desertthunder/soundscope/internal/tasks"
)

// TracksToCSV converts a track listing to CSV with columns:
// Rank, ID, Title, Artists, Album, Duration, Popularity
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "ID", "Title", "Artists", "Album", "Duration", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			strconv.Itoa(track.Rank),
			track.ID,
			track.Name,
			track.Artists,
			track.AlbumName,
			formatDuration(track.DurationMS),
			strconv.Itoa(track.Popularity),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ArtistsToCSV converts an artist listing to CSV with columns:
// Rank, ID, Name, Genres, Popularity
func ArtistsToCSV(artists []models.Artist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "ID", "Name", "Genres", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, artist := range artists {
		record := []string{
			strconv.Itoa(artist.Rank),
			artist.ID,
			artist.Name,
			joinGenres(artist.Genres),
			strconv.Itoa(artist.Popularity),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// MoodReportToMarkdown renders mood clusters as a Markdown document, one
// section per non-empty bucket in presentation order.
func MoodReportToMarkdown(report *tasks.MoodReport) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Mood Clusters\n\n")
	buf.WriteString(fmt.Sprintf("**Time range**: %s\n", report.TimeRange))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", report.Total))

	for _, mood := range analytics.Moods() {
		cluster := report.Clusters[mood]
		if len(cluster) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("## %s (%d)\n\n", moodHeading(mood), len(cluster)))
		for i, item := range cluster {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, item.Track.Artists, item.Track.Name))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// ComparisonToMarkdown renders a playlist comparison with its overlap,
// compatibility, and explanation lines.
func ComparisonToMarkdown(cmp *tasks.PlaylistComparison) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Playlist Comparison\n\n")
	buf.WriteString(fmt.Sprintf("**Tracks**: %d vs %d\n", cmp.TracksA, cmp.TracksB))
	buf.WriteString(fmt.Sprintf("**Overlap**: %d tracks (%.1f%%)\n", cmp.OverlapCount, cmp.OverlapPct))

	if cmp.Compatibility != nil {
		buf.WriteString(fmt.Sprintf("**Compatibility**: %d/100\n", *cmp.Compatibility))
	} else {
		buf.WriteString("**Compatibility**: not enough audio feature data\n")
	}
	buf.WriteString("\n")

	if len(cmp.Explanations) > 0 {
		for _, line := range cmp.Explanations {
			buf.WriteString(fmt.Sprintf("- %s\n", line))
		}
		buf.WriteString("\n")
	}

	if len(cmp.CommonTracks) > 0 {
		buf.WriteString("## In Both\n\n")
		for i, track := range cmp.CommonTracks {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artists, track.Name))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// MonthlyToCSV converts a monthly summary to CSV with columns:
// Month, Plays, Hours
func MonthlyToCSV(summary analytics.MonthlySummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Month", "Plays", "Hours"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, bucket := range summary.Buckets {
		record := []string{
			bucket.Label,
			strconv.Itoa(bucket.PlayCount),
			strconv.FormatFloat(bucket.Hours, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// JourneysToMarkdown renders the badge groups, one section per badge with
// its one-line description.
func JourneysToMarkdown(report *tasks.JourneyReport) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Track Journeys\n\n")

	labels := make([]string, 0, 3)
	for _, h := range analytics.Horizons() {
		labels = append(labels, analytics.HorizonLabel(h))
	}
	buf.WriteString("Ranks cover " + strings.Join(labels, ", ") + ".\n\n")

	for _, badge := range analytics.Badges() {
		group := report.Groups[badge]
		if len(group) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("## %s\n\n", analytics.BadgeLabel(badge)))
		buf.WriteString(analytics.BadgeSummary(badge) + "\n\n")
		for i, item := range group {
			buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1,
				item.Track.Artists, item.Track.Name, journeyRanks(item.Ranks)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// PersonaToText renders the personality card as plain text.
func PersonaToText(persona *analytics.Persona) []byte {
	var buf bytes.Buffer

	buf.WriteString(persona.Title + "\n")
	buf.WriteString(persona.Subtitle + "\n\n")
	for _, trait := range persona.Traits {
		buf.WriteString(fmt.Sprintf("- %s\n", trait))
	}
	buf.WriteString("\n" + persona.Basis + "\n")

	return buf.Bytes()
}

func journeyRanks(r analytics.Ranks) string {
	part := func(label string, rank *int) string {
		if rank == nil {
			return ""
		}
		return fmt.Sprintf(" %s #%d", label, *rank)
	}
	return part("4wk", r.Short) + part("6mo", r.Medium) + part("all", r.Long)
}

func moodHeading(mood analytics.Mood) string {
	switch mood {
	case analytics.MoodHype:
		return "Hype"
	case analytics.MoodParty:
		return "Party"
	case analytics.MoodChill:
		return "Chill"
	case analytics.MoodSad:
		return "Sad"
	case analytics.MoodAggressive:
		return "Aggressive"
	case analytics.MoodMisc:
		return "Everything Else"
	}
	return string(mood)
}

func joinGenres(genres []string) string {
	out := ""
	for i, g := range genres {
		if i > 0 {
			out += "; "
		}
		out += g
	}
	return out
}

// formatDuration renders milliseconds as m:ss.
func formatDuration(ms int) string {
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
