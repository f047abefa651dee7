package analytics

import (
	"fmt"
	"math"
	"sort"
)

// Human-readable names for the vector dimensions, keyed by their index in
// [FeatureDimensions].
var dimensionNames = map[string]string{
	"energy":           "energy",
	"danceability":     "danceability",
	"valence":          "mood",
	"acousticness":     "acoustic feel",
	"instrumentalness": "instrumental feel",
}

const (
	explainSimilarCutoff = 0.25
	explainCloseCutoff   = 0.1
)

// ExplainComparison turns a pair of playlist vectors into short prose
// lines about where they agree and where they split. Returns nil when
// either vector is missing.
func ExplainComparison(vecA, vecB VectorResult) []string {
	if vecA.Vector == nil || vecB.Vector == nil || len(vecA.Vector) != len(vecB.Vector) {
		return nil
	}

	type dimDiff struct {
		name string
		diff float64
	}

	diffs := make([]dimDiff, 0, len(FeatureDimensions))
	for i, dim := range FeatureDimensions {
		diffs = append(diffs, dimDiff{
			name: dimensionNames[dim],
			diff: math.Abs(vecA.Vector[i] - vecB.Vector[i]),
		})
	}
	sort.SliceStable(diffs, func(i, j int) bool { return diffs[i].diff < diffs[j].diff })

	var similar, different []dimDiff
	for _, d := range diffs {
		if d.diff <= explainSimilarCutoff {
			similar = append(similar, d)
		} else {
			different = append(different, d)
		}
	}

	var lines []string
	switch len(similar) {
	case 0:
	case 1:
		lines = append(lines, fmt.Sprintf("Both playlists feel aligned on %s.", similar[0].name))
	default:
		lines = append(lines, fmt.Sprintf("Both playlists feel aligned on %s and %s.", similar[0].name, similar[1].name))
	}
	if len(different) > 0 {
		lines = append(lines, fmt.Sprintf("One playlist leans more on %s than the other.", different[0].name))
	}
	if len(lines) == 0 {
		lines = append(lines, "These playlists occupy very different sonic worlds.")
	}

	return lines
}

// DistanceBucket grades a single dimension gap for display.
func DistanceBucket(diff float64) string {
	switch {
	case diff <= explainCloseCutoff:
		return "nearly identical"
	case diff <= explainSimilarCutoff:
		return "similar"
	default:
		return "different"
	}
}
