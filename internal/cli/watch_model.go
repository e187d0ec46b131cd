package cli

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nbelyaev/linewatch/internal/cli/formatter"
	"github.com/nbelyaev/linewatch/internal/domain"
	"github.com/nbelyaev/linewatch/internal/registry"
	"github.com/nbelyaev/linewatch/internal/stream"
)

const eventFeedSize = 8

// watchModel is the bubbletea model for the live dashboard: the current
// conflict table on top, the rolling event feed below.
type watchModel struct {
	app     *App
	events  <-chan domain.NotificationEvent
	spinner spinner.Model

	conflicts []domain.Conflict
	feed      []domain.NotificationEvent
	width     int
	quitting  bool
}

type eventMsg domain.NotificationEvent

type refreshTickMsg time.Time

func newWatchModel(app *App, events <-chan domain.NotificationEvent) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	return watchModel{
		app:     app,
		events:  events,
		spinner: sp,
	}
}

func (m watchModel) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvents(), refreshTick())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case eventMsg:
		m.feed = append(m.feed, domain.NotificationEvent(msg))
		if len(m.feed) > eventFeedSize {
			m.feed = m.feed[len(m.feed)-eventFeedSize:]
		}
		return m, m.listenForEvents()

	case refreshTickMsg:
		// The monitor refreshes in the background; the tick only
		// re-reads the registry.
		m.conflicts = m.app.Monitor.Conflicts(registry.FilterOptions{})
		return m, refreshTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	header := m.spinner.View() + " linewatch"
	switch m.app.Stream.State() {
	case stream.StateOpen:
		header += formatter.StyleGreen.Render("  ● live")
	case stream.StateBackoff, stream.StateConnecting:
		header += formatter.StyleYellow.Render("  ● reconnecting")
	default:
		header += formatter.StyleDim.Render("  ● offline")
	}

	out := header + "\n\n"
	out += formatter.FormatConflictList(m.conflicts)
	out += "\n" + formatter.Header("Events") + "\n"
	if len(m.feed) == 0 {
		out += formatter.StyleDim.Render("waiting for events...") + "\n"
	}
	for i := len(m.feed) - 1; i >= 0; i-- {
		out += formatter.FormatEvent(m.feed[i]) + "\n"
	}
	out += "\n" + formatter.StyleDim.Render("q to quit")
	return out
}
