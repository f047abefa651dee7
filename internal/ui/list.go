package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/soundscope/internal/analytics"
)

var (
	_ list.Item = menuItem{}
	_ list.Item = moodTrackItem{}
	_ list.Item = journeyItem{}
)

// menuItem is one entry of the insight picker.
type menuItem struct {
	title string
	desc  string
	view  ViewState
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

// moodTrackItem wraps a clustered track to implement [list.Item].
type moodTrackItem struct {
	mood  analytics.Mood
	entry analytics.MoodTrack
}

func (i moodTrackItem) FilterValue() string { return i.entry.Track.Name }
func (i moodTrackItem) Title() string       { return i.entry.Track.Name }
func (i moodTrackItem) Description() string {
	return fmt.Sprintf("%s • %s", i.entry.Track.Artists, i.mood)
}

// journeyItem wraps a classified track to implement [list.Item].
type journeyItem struct {
	item analytics.JourneyItem
}

func (i journeyItem) FilterValue() string { return i.item.Track.Name }
func (i journeyItem) Title() string       { return i.item.Track.Name }
func (i journeyItem) Description() string {
	return fmt.Sprintf("%s • %s", i.item.Track.Artists, analytics.BadgeLabel(i.item.Badge))
}
