package analytics

import (
	"fmt"

	"github.com/desertthunder/soundscope/internal/models"
	"github.com/montanaflynn/stats"
)

// PersonaStats holds the mean of each feature dimension across whatever
// rows carried it. Dimensions with no data at all read as zero.
type PersonaStats struct {
	Energy           float64
	Danceability     float64
	Valence          float64
	Tempo            float64
	Acousticness     float64
	Instrumentalness float64
	TrackCount       int
}

// PersonaStatsFrom averages each dimension independently over the rows
// that have it, so a row missing tempo still contributes its energy.
func PersonaStatsFrom(features []models.AudioFeatures) PersonaStats {
	var energy, dance, valence, tempo, acoustic, instrumental []float64
	for _, f := range features {
		collect(&energy, f.Energy)
		collect(&dance, f.Danceability)
		collect(&valence, f.Valence)
		collect(&tempo, f.Tempo)
		collect(&acoustic, f.Acousticness)
		collect(&instrumental, f.Instrumentalness)
	}

	return PersonaStats{
		Energy:           meanOrZero(energy),
		Danceability:     meanOrZero(dance),
		Valence:          meanOrZero(valence),
		Tempo:            meanOrZero(tempo),
		Acousticness:     meanOrZero(acoustic),
		Instrumentalness: meanOrZero(instrumental),
		TrackCount:       len(features),
	}
}

func collect(dst *[]float64, v *float64) {
	if v != nil {
		*dst = append(*dst, *v)
	}
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return mean
}

// Daypart is the quarter of the day a listener favors.
type Daypart string

const (
	DaypartNight   Daypart = "night"
	DaypartEarly   Daypart = "early"
	DaypartDay     Daypart = "day"
	DaypartEvening Daypart = "evening"
)

// DaypartFrom finds the busiest six-hour block of an hour histogram.
// Blocks are night 0-5, early 6-11, day 12-17, evening 18-23; ties break
// toward the earlier block in that order.
func DaypartFrom(hourCounts [24]int) Daypart {
	parts := []Daypart{DaypartNight, DaypartEarly, DaypartDay, DaypartEvening}

	best, bestCount := parts[0], -1
	for i, part := range parts {
		count := 0
		for h := i * 6; h < (i+1)*6; h++ {
			count += hourCounts[h]
		}
		if count > bestCount {
			best, bestCount = part, count
		}
	}
	return best
}

func daypartTitle(d Daypart) string {
	switch d {
	case DaypartNight:
		return "Night Owl"
	case DaypartEarly:
		return "Early Bird"
	case DaypartDay:
		return "Daytime Drifter"
	case DaypartEvening:
		return "Evening Groover"
	}
	return ""
}

// Persona is the rendered listening personality.
type Persona struct {
	Title    string
	Subtitle string
	Traits   []string
	Daypart  Daypart
	Stats    PersonaStats
	Basis    string
}

// BuildPersona derives a personality card from feature rows and the play
// hour histogram. Threshold bands are fixed; values between the high and
// low cutoffs fall into the neutral phrasing.
func BuildPersona(features []models.AudioFeatures, hourCounts [24]int) Persona {
	st := PersonaStatsFrom(features)
	daypart := DaypartFrom(hourCounts)

	var energyTitle string
	switch {
	case st.Energy >= 0.7:
		energyTitle = "High-Energy Listener"
	case st.Energy <= 0.4:
		energyTitle = "Chill Explorer"
	default:
		energyTitle = "Balanced Vibes"
	}

	var moodPhrase string
	switch {
	case st.Valence >= 0.65:
		moodPhrase = "sunny optimist"
	case st.Valence <= 0.35:
		moodPhrase = "moody daydreamer"
	default:
		moodPhrase = "mixed-mood listener"
	}

	var tempoPhrase string
	switch {
	case st.Tempo >= 130:
		tempoPhrase = "fast-paced"
	case st.Tempo <= 90:
		tempoPhrase = "laid-back"
	default:
		tempoPhrase = "steady"
	}

	var traits []string
	switch {
	case st.Danceability >= 0.7:
		traits = append(traits, "Dancefloor-ready")
	case st.Danceability <= 0.4:
		traits = append(traits, "Introspective grooves")
	default:
		traits = append(traits, "Easy mover")
	}
	switch {
	case st.Acousticness >= 0.6:
		traits = append(traits, "Organic/acoustic lean")
	case st.Acousticness <= 0.2:
		traits = append(traits, "Electronic edge")
	}
	if st.Instrumentalness >= 0.5 {
		traits = append(traits, "Instrumental-friendly")
	}

	return Persona{
		Title:    daypartTitle(daypart) + " " + energyTitle,
		Subtitle: fmt.Sprintf("%s with a %s groove.", moodPhrase, tempoPhrase),
		Traits:   traits,
		Daypart:  daypart,
		Stats:    st,
		Basis:    fmt.Sprintf("Based on audio features from %d tracks and recent listening hours.", st.TrackCount),
	}
}
