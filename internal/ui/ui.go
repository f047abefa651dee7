package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/soundscope/internal/analytics"
	"github.com/desertthunder/soundscope/internal/services"
	"github.com/desertthunder/soundscope/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	MoodView
	JourneyView
)

// Model represents the insights browser state.
type Model struct {
	ctx       context.Context
	view      ViewState
	engine    *tasks.SyncEngine
	cred      *services.Credential
	ownerID   string
	timeRange string
	limit     int

	width  int
	height int

	menu        list.Model
	moodList    list.Model
	journeyList list.Model

	moods    *tasks.MoodReport
	journeys *tasks.JourneyReport
	err      error

	help help.Model
	keys keyMap
}

type moodsFetchedMsg struct {
	report *tasks.MoodReport
	err    error
}

type journeysFetchedMsg struct {
	report *tasks.JourneyReport
	err    error
}

// NewModel creates the browser over an engine and the caller's credential.
func NewModel(ctx context.Context, engine *tasks.SyncEngine, cred *services.Credential, ownerID, timeRange string, limit int) *Model {
	m := &Model{
		ctx:       ctx,
		view:      MenuView,
		engine:    engine,
		cred:      cred,
		ownerID:   ownerID,
		timeRange: timeRange,
		limit:     limit,
		help:      help.New(),
		keys:      newKeyMap(),
	}

	items := []list.Item{
		menuItem{title: "Mood Clusters", desc: "Top tracks bucketed by feel", view: MoodView},
		menuItem{title: "Track Journeys", desc: "How tracks move across your listening horizons", view: JourneyView},
	}
	m.menu = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.menu.Title = "Listening Insights"
	m.menu.Styles.Title = styles.title
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		m.moodList.SetSize(msg.Width-4, msg.Height-8)
		m.journeyList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case moodsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = MenuView
			return m, nil
		}
		m.moods = msg.report
		m.moodList = list.New(moodItems(msg.report), list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.moodList.Title = fmt.Sprintf("Mood Clusters (%s)", msg.report.TimeRange)
		m.moodList.Styles.Title = styles.title
		m.view = MoodView
		return m, nil

	case journeysFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = MenuView
			return m, nil
		}
		m.journeys = msg.report
		m.journeyList = list.New(journeyItems(msg.report), list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.journeyList.Title = "Track Journeys"
		m.journeyList.Styles.Title = styles.title
		m.view = JourneyView
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		if m.view != MenuView {
			m.view = MenuView
			m.err = nil
		}
		return m, nil

	case key.Matches(msg, m.keys.refresh):
		switch m.view {
		case MoodView:
			return m, m.fetchMoods(true)
		case JourneyView:
			return m, m.fetchJourneys(true)
		}
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if m.view == MenuView {
			if item, ok := m.menu.SelectedItem().(menuItem); ok {
				switch item.view {
				case MoodView:
					return m, m.fetchMoods(false)
				case JourneyView:
					return m, m.fetchJourneys(false)
				}
			}
		}
	}

	return m.updateLists(msg)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MenuView:
		m.menu, cmd = m.menu.Update(msg)
	case MoodView:
		m.moodList, cmd = m.moodList.Update(msg)
	case JourneyView:
		m.journeyList, cmd = m.journeyList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchMoods(force bool) tea.Cmd {
	return func() tea.Msg {
		report, err := m.engine.MoodClusters(m.ctx, m.cred, m.ownerID, m.timeRange, m.limit, force, nil)
		return moodsFetchedMsg{report: report, err: err}
	}
}

func (m *Model) fetchJourneys(force bool) tea.Cmd {
	return func() tea.Msg {
		report, err := m.engine.TrackJourneys(m.ctx, m.cred, m.ownerID, m.limit, force)
		return journeysFetchedMsg{report: report, err: err}
	}
}

// moodItems flattens the clusters in presentation order.
func moodItems(report *tasks.MoodReport) []list.Item {
	var items []list.Item
	for _, mood := range analytics.Moods() {
		for _, entry := range report.Clusters[mood] {
			items = append(items, moodTrackItem{mood: mood, entry: entry})
		}
	}
	return items
}

// journeyItems lists badge groups in presentation order.
func journeyItems(report *tasks.JourneyReport) []list.Item {
	var items []list.Item
	for _, badge := range analytics.Badges() {
		for _, item := range report.Groups[badge] {
			items = append(items, journeyItem{item: item})
		}
	}
	return items
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		body := styles.err.Render(fmt.Sprintf("Error: %v", m.err))
		hint := styles.help.Render("press esc to go back, q to quit")
		return fmt.Sprintf("%s\n\n%s", body, hint)
	}

	var body string
	switch m.view {
	case MenuView:
		body = m.menu.View()
	case MoodView:
		body = m.moodList.View()
		if m.moods != nil {
			tag := styles.ok.Render("fresh fetch")
			if m.moods.FromCache {
				tag = styles.warn.Render("cached")
			}
			body = fmt.Sprintf("%s\n%s", body, tag)
		}
	case JourneyView:
		body = m.journeyList.View()
	}

	return fmt.Sprintf("%s\n%s", body, m.help.View(m.keys))
}
