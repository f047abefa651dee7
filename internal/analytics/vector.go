package analytics

import (
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/montanaflynn/stats"
)

// FeatureDimensions is the canonical order of the playlist vector.
var FeatureDimensions = []string{"energy", "danceability", "valence", "acousticness", "instrumentalness"}

// VectorResult is the mean feature vector of a track collection. Vector is
// nil when no track qualified; ValidCount and TotalTracks let callers
// report how much signal the vector rests on.
type VectorResult struct {
	Vector      []float64
	ValidCount  int
	TotalTracks int
}

// BuildVector computes the per-dimension mean over feature rows that have
// all five dimensions present. Rows missing any dimension are excluded
// entirely; there is no partial averaging. Each mean is rounded to four
// decimals.
func BuildVector(features []models.AudioFeatures, totalTracks int) VectorResult {
	values := make([][]float64, len(FeatureDimensions))
	count := 0

	for _, f := range features {
		if !f.Complete() {
			continue
		}
		for i, v := range []float64{*f.Energy, *f.Danceability, *f.Valence, *f.Acousticness, *f.Instrumentalness} {
			values[i] = append(values[i], v)
		}
		count++
	}

	if count == 0 {
		return VectorResult{TotalTracks: totalTracks}
	}

	vector := make([]float64, len(FeatureDimensions))
	for i, dim := range values {
		mean, err := stats.Mean(dim)
		if err != nil {
			return VectorResult{TotalTracks: totalTracks}
		}
		vector[i], _ = stats.Round(mean, 4)
	}

	return VectorResult{Vector: vector, ValidCount: count, TotalTracks: totalTracks}
}
