package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krisk248/flowmode/internal/client"
	"github.com/krisk248/flowmode/internal/pomodoro"
)

type pomodoroModel struct {
	api    *client.Client
	width  int
	height int

	status  *client.Pomodoro
	offline bool
}

func newPomodoroModel(api *client.Client) pomodoroModel {
	return pomodoroModel{api: api}
}

func (m *pomodoroModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m pomodoroModel) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		st, err := m.api.PomodoroStatus(ctx)
		return pomodoroDataMsg{status: st, err: err}
	}
}

func (m pomodoroModel) op(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		st, err := m.api.PomodoroOp(ctx, name)
		return pomodoroDataMsg{status: st, err: err}
	}
}

func (m pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pomodoroDataMsg:
		if msg.err != nil {
			m.offline = true
			return m, func() tea.Msg {
				return statusMsg{text: msg.err.Error(), isError: true}
			}
		}
		m.offline = false
		m.status = msg.status
		return m, nil

	case tickMsg:
		return m, m.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			return m, m.op("start")
		case key.Matches(msg, keys.Pause):
			return m, m.togglePause()
		case key.Matches(msg, keys.Reset):
			return m, m.op("reset")
		case key.Matches(msg, keys.Skip):
			return m, m.op("skip")
		}
	}
	return m, nil
}

func (m pomodoroModel) togglePause() tea.Cmd {
	if m.status != nil && m.status.State == string(pomodoro.StatePaused) {
		return m.op("resume")
	}
	return m.op("pause")
}

func (m pomodoroModel) view() string {
	if m.offline || m.status == nil {
		return panelStyle.Render(errorStyle.Render("Daemon offline.") + "\n" +
			mutedStyle.Render("Start it with: flowmode start"))
	}

	st := m.status
	countdown := m.countdownStyleFor(st.State).Render(bigClock(st.Remaining))

	phase := strings.ReplaceAll(st.State, "_", " ")
	cycle := fmt.Sprintf("cycle %d/%d · %d completed today",
		st.CyclePosition+1, pomodoro.PomodorosPerCycle, st.Completed)
	if st.State == string(pomodoro.StateIdle) {
		cycle = fmt.Sprintf("%d completed today", st.Completed)
	}

	controls := mutedStyle.Render("s start · space pause/resume · k skip · x reset")

	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Pomodoro"),
		"",
		countdown,
		accentStyle.Render(phase),
		mutedStyle.Render(cycle),
		"",
		controls,
	)
	return panelStyle.Width(m.width - 4).Render(body)
}

func (m pomodoroModel) countdownStyleFor(state string) lipgloss.Style {
	switch state {
	case string(pomodoro.StateWorking):
		return countdownRunningStyle
	case string(pomodoro.StatePaused):
		return countdownPausedStyle
	default:
		return countdownStyle
	}
}

// bigClock renders MM:SS a few lines tall so the countdown is readable
// from across the room.
func bigClock(clock string) string {
	rows := []strings.Builder{{}, {}, {}}
	for _, r := range clock {
		glyph, ok := clockGlyphs[r]
		if !ok {
			continue
		}
		for i := 0; i < 3; i++ {
			rows[i].WriteString(glyph[i])
			rows[i].WriteString(" ")
		}
	}
	return rows[0].String() + "\n" + rows[1].String() + "\n" + rows[2].String()
}

var clockGlyphs = map[rune][3]string{
	'0': {"█▀█", "█ █", "▀▀▀"},
	'1': {" █ ", " █ ", " ▀ "},
	'2': {"▀▀█", "█▀▀", "▀▀▀"},
	'3': {"▀▀█", " ▀█", "▀▀▀"},
	'4': {"█ █", "▀▀█", "  ▀"},
	'5': {"█▀▀", "▀▀█", "▀▀▀"},
	'6': {"█▀▀", "█▀█", "▀▀▀"},
	'7': {"▀▀█", "  █", "  ▀"},
	'8': {"█▀█", "█▀█", "▀▀▀"},
	'9': {"█▀█", "▀▀█", "▀▀▀"},
	':': {" ▪ ", " ▪ ", "   "},
}
