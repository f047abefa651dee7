// Package ui implements the interactive insights browser using
// bubbletea's Elm architecture.
//
// The TUI is a three-view workflow:
//  1. [MenuView] : pick an insight (mood clusters or track journeys)
//  2. [MoodView] : browse top tracks bucketed by mood
//  3. [JourneyView] : browse tracks by their movement across horizons
//
// The [Model] implements the standard Init/Update/View pattern. Insight
// data is fetched through the SyncEngine inside tea.Cmd closures so the
// interface never blocks on the network; cached batches make repeat
// visits instant.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q)
// with contextual help via charmbracelet/bubbles/help.
package ui
