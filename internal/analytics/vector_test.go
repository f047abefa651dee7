package analytics

import (
	"testing"

	"github.com/desertthunder/soundscope/internal/models"
)

func fullFeatures(id string, v float64) models.AudioFeatures {
	return models.AudioFeatures{
		TrackID:          id,
		Energy:           models.Float(v),
		Danceability:     models.Float(v),
		Valence:          models.Float(v),
		Acousticness:     models.Float(v),
		Instrumentalness: models.Float(v),
	}
}

func TestBuildVector(t *testing.T) {
	t.Run("averages only complete rows", func(t *testing.T) {
		features := []models.AudioFeatures{
			fullFeatures("a", 0.2),
			fullFeatures("b", 0.4),
			{TrackID: "c", Energy: models.Float(0.9)},
		}

		result := BuildVector(features, 3)

		if result.ValidCount != 2 {
			t.Errorf("expected valid_count 2, got %d", result.ValidCount)
		}
		if result.TotalTracks != 3 {
			t.Errorf("expected total 3, got %d", result.TotalTracks)
		}
		for i, got := range result.Vector {
			if got != 0.3 {
				t.Errorf("dimension %d: expected 0.3, got %v", i, got)
			}
		}
	})

	t.Run("rounds means to four decimals", func(t *testing.T) {
		features := []models.AudioFeatures{
			fullFeatures("a", 0.1),
			fullFeatures("b", 0.2),
			fullFeatures("c", 0.2),
		}

		result := BuildVector(features, 3)
		if result.Vector[0] != 0.1667 {
			t.Errorf("expected 0.1667, got %v", result.Vector[0])
		}
	})

	t.Run("no complete rows yields nil vector", func(t *testing.T) {
		features := []models.AudioFeatures{{TrackID: "a", Energy: models.Float(0.5)}}

		result := BuildVector(features, 1)
		if result.Vector != nil {
			t.Errorf("expected nil vector, got %v", result.Vector)
		}
		if result.ValidCount != 0 {
			t.Errorf("expected valid_count 0, got %d", result.ValidCount)
		}
	})
}
