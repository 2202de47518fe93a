// Package tui is the terminal dashboard: today's apps, hourly and
// daily charts, and pomodoro control against a running daemon.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krisk248/flowmode/internal/client"
	"github.com/krisk248/flowmode/internal/config"
	"github.com/krisk248/flowmode/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	width  int
	height int

	activeView viewState
	showHelp   bool

	today    todayModel
	hourly   hourlyModel
	history  historyModel
	pomodoro pomodoroModel

	help   help.Model
	status string
}

// NewApp wires the dashboard over the store and the daemon API.
func NewApp(s *store.Store, cfg *config.Config, api *client.Client) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		activeView: viewToday,
		today:      newTodayModel(s, api),
		hourly:     newHourlyModel(s),
		history:    newHistoryModel(s, cfg),
		pomodoro:   newPomodoroModel(api),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.today.loadData(),
		a.pomodoro.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.hourly.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Refresh):
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, a.today.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHourly
			return a, a.hourly.loadData()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewHistory
			return a, a.history.loadData()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewPomodoro
			return a, a.pomodoro.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		// The pomodoro countdown repolls the daemon once a second.
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewHourly:
		a.hourly, cmd = a.hourly.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	}
	return a, cmd
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.loadData()
	case viewHourly:
		return a.hourly.loadData()
	case viewHistory:
		return a.history.loadData()
	case viewPomodoro:
		return a.pomodoro.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewHourly:
		content = a.hourly.view()
	case viewHistory:
		content = a.history.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("flowmode")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, " ", title, spacer, tabRow)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)
	if a.status == "" {
		return helpView
	}
	status := mutedStyle.Render(a.status)
	return lipgloss.JoinVertical(lipgloss.Left, status, helpView)
}

// Run starts the dashboard in the alternate screen.
func Run(s *store.Store, cfg *config.Config, api *client.Client) error {
	p := tea.NewProgram(NewApp(s, cfg, api), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
