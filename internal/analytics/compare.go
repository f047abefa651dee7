package analytics

import (
	"math"

	"github.com/desertthunder/soundscope/internal/models"
	"github.com/montanaflynn/stats"
)

// compatibilityMinTracks is the floor of complete feature rows each side
// needs before a compatibility score is meaningful.
const compatibilityMinTracks = 5

// Comparison is the result of matching two track collections against each
// other. Compatibility is nil when either side lacks enough feature signal.
type Comparison struct {
	Compatibility *int
	OverlapCount  int
	OverlapPct    float64
	CommonTracks  []models.Track
	OnlyInA       []models.Track
	OnlyInB       []models.Track
	VectorA       VectorResult
	VectorB       VectorResult
}

// Compare intersects two collections by track id and scores their feature
// vectors. Both sides are treated as id sets: a track appearing twice in a
// playlist counts once, and the overlap percentage is taken against the
// smaller distinct-id set, rounded to one decimal. Comparing anything
// against an empty collection yields zero overlap. Track lists keep the
// first occurrence of each id.
func Compare(tracksA, tracksB []models.Track, vecA, vecB VectorResult) Comparison {
	idsB := make(map[string]bool, len(tracksB))
	for _, t := range tracksB {
		idsB[t.ID] = true
	}

	seenA := make(map[string]bool, len(tracksA))
	inCommon := make(map[string]bool)
	cmp := Comparison{VectorA: vecA, VectorB: vecB}
	for _, t := range tracksA {
		if seenA[t.ID] {
			continue
		}
		seenA[t.ID] = true
		if idsB[t.ID] {
			inCommon[t.ID] = true
			cmp.CommonTracks = append(cmp.CommonTracks, t)
		} else {
			cmp.OnlyInA = append(cmp.OnlyInA, t)
		}
	}

	seenB := make(map[string]bool, len(tracksB))
	for _, t := range tracksB {
		if seenB[t.ID] {
			continue
		}
		seenB[t.ID] = true
		if !inCommon[t.ID] {
			cmp.OnlyInB = append(cmp.OnlyInB, t)
		}
	}

	cmp.OverlapCount = len(cmp.CommonTracks)
	if smaller := min(len(seenA), len(seenB)); smaller > 0 {
		pct := float64(cmp.OverlapCount) / float64(smaller) * 100
		cmp.OverlapPct, _ = stats.Round(pct, 1)
	}

	cmp.Compatibility = compatibilityScore(vecA, vecB)
	return cmp
}

// compatibilityScore is the cosine similarity of the two vectors scaled to
// 0..100, or nil when either vector rests on fewer than
// [compatibilityMinTracks] complete rows or has zero magnitude.
func compatibilityScore(a, b VectorResult) *int {
	if a.ValidCount < compatibilityMinTracks || b.ValidCount < compatibilityMinTracks {
		return nil
	}
	if a.Vector == nil || b.Vector == nil || len(a.Vector) != len(b.Vector) {
		return nil
	}

	var dot, magA, magB float64
	for i := range a.Vector {
		dot += a.Vector[i] * b.Vector[i]
		magA += a.Vector[i] * a.Vector[i]
		magB += b.Vector[i] * b.Vector[i]
	}
	if magA == 0 || magB == 0 {
		return nil
	}

	score := int(math.Round(dot / (math.Sqrt(magA) * math.Sqrt(magB)) * 100))
	return &score
}
