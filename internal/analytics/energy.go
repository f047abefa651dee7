package analytics

import (
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/montanaflynn/stats"
)

// EnergyPoint is one track's position on the energy curve. Energy is nil
// when the track has no feature row or the row lacks the dimension.
type EnergyPoint struct {
	Position int
	Track    models.Track
	Energy   *float64
}

// EnergyProfile maps tracks onto a 0..100 energy scale in list order.
// Raw values at or below 1 are treated as the provider's 0..1 scale and
// multiplied up; everything is clamped to the band and rounded to one
// decimal.
func EnergyProfile(tracks []models.Track, features []models.AudioFeatures) []EnergyPoint {
	byTrack := make(map[string]models.AudioFeatures, len(features))
	for _, f := range features {
		byTrack[f.TrackID] = f
	}

	points := make([]EnergyPoint, 0, len(tracks))
	for i, track := range tracks {
		point := EnergyPoint{Position: i + 1, Track: track}
		if f, ok := byTrack[track.ID]; ok && f.Energy != nil {
			scaled := scaleEnergy(*f.Energy)
			point.Energy = &scaled
		}
		points = append(points, point)
	}
	return points
}

func scaleEnergy(raw float64) float64 {
	v := raw
	if v <= 1 {
		v *= 100
	}
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	rounded, _ := stats.Round(v, 1)
	return rounded
}
