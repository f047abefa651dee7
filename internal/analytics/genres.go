package analytics

import (
	"sort"

	"github.com/desertthunder/soundscope/internal/models"
)

// defaultGenreSlots caps how many genres get their own chart slot before
// the remainder collapses into "Other".
const defaultGenreSlots = 8

// GenreSlice is one wedge of the genre chart.
type GenreSlice struct {
	Genre string
	Count int
}

// GenreChart counts genre occurrences across an artist listing and keeps
// the top slots, folding the rest into an "Other" wedge. Slots with equal
// counts order alphabetically so the chart is stable between runs.
func GenreChart(artists []models.Artist, slots int) []GenreSlice {
	if slots <= 0 {
		slots = defaultGenreSlots
	}

	counts := make(map[string]int)
	for _, a := range artists {
		for _, g := range a.Genres {
			counts[g]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	slices := make([]GenreSlice, 0, len(counts))
	for genre, count := range counts {
		slices = append(slices, GenreSlice{Genre: genre, Count: count})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Count != slices[j].Count {
			return slices[i].Count > slices[j].Count
		}
		return slices[i].Genre < slices[j].Genre
	})

	if len(slices) <= slots {
		return slices
	}

	other := GenreSlice{Genre: "Other"}
	for _, s := range slices[slots:] {
		other.Count += s.Count
	}
	return append(slices[:slots], other)
}
