package analytics

import "github.com/desertthunder/soundscope/internal/models"

// Horizon is one of the three top-track time ranges.
type Horizon string

const (
	HorizonShort  Horizon = "short_term"
	HorizonMedium Horizon = "medium_term"
	HorizonLong   Horizon = "long_term"
)

// Horizons lists the ranges shortest-first.
func Horizons() []Horizon {
	return []Horizon{HorizonShort, HorizonMedium, HorizonLong}
}

// HorizonLabel is the user-facing name of a range.
func HorizonLabel(h Horizon) string {
	switch h {
	case HorizonShort:
		return "Last 4 weeks"
	case HorizonMedium:
		return "Last 6 months"
	case HorizonLong:
		return "All time"
	}
	return string(h)
}

// Badge describes how a track moves across the three horizons.
type Badge string

const (
	BadgeEvergreen      Badge = "evergreen"
	BadgeNewObsession   Badge = "new_obsession"
	BadgeShortTermRiser Badge = "short_term_riser"
	BadgeFadingOut      Badge = "fading_out"
)

// Badges lists the journey badges in presentation order.
func Badges() []Badge {
	return []Badge{BadgeEvergreen, BadgeNewObsession, BadgeShortTermRiser, BadgeFadingOut}
}

// BadgeLabel is the user-facing name of a badge.
func BadgeLabel(b Badge) string {
	switch b {
	case BadgeEvergreen:
		return "Evergreen"
	case BadgeNewObsession:
		return "New Obsession"
	case BadgeShortTermRiser:
		return "On the Rise"
	case BadgeFadingOut:
		return "Fading Out"
	}
	return string(b)
}

// BadgeSummary is the one-line description shown under a badge heading.
func BadgeSummary(b Badge) string {
	switch b {
	case BadgeEvergreen:
		return "A fixture across every horizon of your listening."
	case BadgeNewObsession:
		return "Burst into rotation in the last few weeks."
	case BadgeShortTermRiser:
		return "Climbing from recent discovery toward a staple."
	case BadgeFadingOut:
		return "Once a staple, now slipping out of rotation."
	}
	return ""
}

// Ranks records where a track placed in each horizon's top list. A nil
// rank means the track was absent from that horizon.
type Ranks struct {
	Short  *int
	Medium *int
	Long   *int
}

// ClassifyJourney maps a presence pattern to its badge:
//
//	short + medium + long  -> evergreen
//	short only             -> new_obsession
//	short + medium         -> short_term_riser
//	long without short     -> fading_out
//
// The remaining three patterns stay unclassified and are dropped from the
// badge grouping, ok is false for those.
func ClassifyJourney(r Ranks) (Badge, bool) {
	s, m, l := r.Short != nil, r.Medium != nil, r.Long != nil
	switch {
	case s && m && l:
		return BadgeEvergreen, true
	case s && !m && !l:
		return BadgeNewObsession, true
	case s && m && !l:
		return BadgeShortTermRiser, true
	case !s && l:
		return BadgeFadingOut, true
	}
	return "", false
}

// JourneyItem is one track's movement across the horizons.
type JourneyItem struct {
	Track    models.Track
	Ranks    Ranks
	Badge    Badge
	HasBadge bool
}

// CombineJourneys merges the three top-track horizons by track id and
// classifies each track's presence pattern. Display data comes from the
// first horizon the track appears in, shortest-first; item order is
// first-seen order across horizons.
func CombineJourneys(byHorizon map[Horizon][]models.Track) []JourneyItem {
	index := make(map[string]int)
	var items []JourneyItem

	for _, horizon := range Horizons() {
		for _, track := range byHorizon[horizon] {
			i, seen := index[track.ID]
			if !seen {
				i = len(items)
				index[track.ID] = i
				items = append(items, JourneyItem{Track: track})
			}

			rank := track.Rank
			switch horizon {
			case HorizonShort:
				items[i].Ranks.Short = &rank
			case HorizonMedium:
				items[i].Ranks.Medium = &rank
			case HorizonLong:
				items[i].Ranks.Long = &rank
			}
		}
	}

	for i := range items {
		items[i].Badge, items[i].HasBadge = ClassifyJourney(items[i].Ranks)
	}
	return items
}

// GroupByBadge buckets classified items by badge, keeping at most
// maxPerBadge tracks per bucket in their combined order. Unclassified
// items are dropped.
func GroupByBadge(items []JourneyItem, maxPerBadge int) map[Badge][]JourneyItem {
	groups := make(map[Badge][]JourneyItem)
	for _, item := range items {
		if !item.HasBadge {
			continue
		}
		if maxPerBadge > 0 && len(groups[item.Badge]) >= maxPerBadge {
			continue
		}
		groups[item.Badge] = append(groups[item.Badge], item)
	}
	return groups
}
