// package analytics derives listening insights from cached Spotify data
// and ReccoBeats feature rows.
//
// Every function here is pure: inputs are normalized model values already
// fetched by the sync layer, outputs are plain result structs. Nothing in
// this package talks to the network or the database.
package analytics

import "github.com/desertthunder/soundscope/internal/models"

// Mood is one of the mutually exclusive feeling buckets.
type Mood string

const (
	MoodHype       Mood = "hype"
	MoodParty      Mood = "party"
	MoodChill      Mood = "chill"
	MoodSad        Mood = "sad"
	MoodAggressive Mood = "aggressive"
	MoodMisc       Mood = "misc"
)

// moodRule pairs a predicate over (energy, danceability, valence) with its
// label. Rules are evaluated top to bottom and the first match wins. The
// regions overlap, so the order is part of the contract: a track with
// energy 0.8, danceability 0.8, and valence 0.65 is hype, never party.
type moodRule struct {
	mood    Mood
	matches func(energy, dance, valence float64) bool
}

var moodRules = []moodRule{
	{MoodHype, func(e, _, v float64) bool { return e > 0.7 && v > 0.6 }},
	{MoodParty, func(e, d, v float64) bool { return d > 0.7 && e > 0.6 && v > 0.5 }},
	{MoodChill, func(e, _, v float64) bool { return e < 0.5 && v >= 0.5 }},
	{MoodSad, func(e, _, v float64) bool { return e < 0.6 && v < 0.4 }},
	{MoodAggressive, func(e, _, v float64) bool { return e > 0.7 && v < 0.4 }},
}

// Moods lists the buckets in presentation order.
func Moods() []Mood {
	return []Mood{MoodHype, MoodParty, MoodChill, MoodSad, MoodAggressive, MoodMisc}
}

// ClassifyMood assigns a feature row to its bucket. Missing dimensions are
// read as zero, matching how partially-populated rows have always been
// bucketed; rows with no feature data at all never reach this function.
func ClassifyMood(f models.AudioFeatures) Mood {
	e := deref(f.Energy)
	d := deref(f.Danceability)
	v := deref(f.Valence)

	for _, rule := range moodRules {
		if rule.matches(e, d, v) {
			return rule.mood
		}
	}
	return MoodMisc
}

// MoodTrack couples a clustered track with the feature row that placed it.
type MoodTrack struct {
	Track    models.Track
	Features models.AudioFeatures
}

// ClusterByMood partitions tracks into mood buckets. Tracks without a
// feature row are excluded from clustering entirely rather than dumped
// into misc.
func ClusterByMood(tracks []models.Track, features []models.AudioFeatures) map[Mood][]MoodTrack {
	byTrack := make(map[string]models.AudioFeatures, len(features))
	for _, f := range features {
		byTrack[f.TrackID] = f
	}

	clusters := make(map[Mood][]MoodTrack)
	for _, track := range tracks {
		feat, ok := byTrack[track.ID]
		if !ok {
			continue
		}

		mood := ClassifyMood(feat)
		clusters[mood] = append(clusters[mood], MoodTrack{Track: track, Features: feat})
	}

	return clusters
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
