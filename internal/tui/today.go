package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krisk248/flowmode/internal/analytics"
	"github.com/krisk248/flowmode/internal/client"
	"github.com/krisk248/flowmode/internal/store"
	"github.com/krisk248/flowmode/internal/titles"
)

type todayModel struct {
	store  *store.Store
	api    *client.Client
	width  int
	height int

	apps     []analytics.AppSummary
	detailed []detailedRow
	split    analytics.Split
	total    int64
	daemon   *client.Status
}

func newTodayModel(s *store.Store, api *client.Client) todayModel {
	return todayModel{store: s, api: api}
}

func (m *todayModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m todayModel) loadData() tea.Cmd {
	return func() tea.Msg {
		segments, _ := m.store.QueryDay(store.DayKey(time.Now()))

		apps := analytics.Summarize(segments)
		var total int64
		for _, a := range apps {
			total += a.TotalSecs
		}

		var detailed []detailedRow
		for i, d := range analytics.Detailed(segments) {
			if i >= 8 {
				break
			}
			parsed := titles.Parse(d.AppName, d.Category, d.WindowTitle)
			detailed = append(detailed, detailedRow{
				app:     d.AppName,
				context: parsed.Display,
				secs:    d.TotalSecs,
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		daemon, _ := m.api.Status(ctx) // nil when the daemon is down

		return todayDataMsg{
			apps:     apps,
			detailed: detailed,
			split:    analytics.ActivePassive(segments),
			total:    total,
			daemon:   daemon,
		}
	}
}

func (m todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todayDataMsg:
		m.apps = msg.apps
		m.detailed = msg.detailed
		m.split = msg.split
		m.total = msg.total
		m.daemon = msg.daemon
		return m, nil
	}
	return m, nil
}

func (m todayModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Today"))
	b.WriteString("  ")
	b.WriteString(highlightStyle.Render(analytics.FormatDuration(m.total)))
	if m.total > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  (%d%% active)", m.split.ActivePercent)))
	}
	b.WriteString("\n")
	b.WriteString(m.renderDaemonLine())
	b.WriteString("\n\n")

	if len(m.apps) == 0 {
		b.WriteString(mutedStyle.Render("Nothing tracked yet today."))
		return panelStyle.Render(b.String())
	}

	barWidth := m.width - 50
	if barWidth < 10 {
		barWidth = 10
	}
	for _, app := range m.apps {
		filled := app.Percent * barWidth / 100
		bar := secondaryStyle.Render(strings.Repeat("█", filled)) +
			mutedStyle.Render(strings.Repeat("░", barWidth-filled))
		b.WriteString(fmt.Sprintf("%-14s %s %4d%%  %s\n",
			truncateTo(app.AppName, 14), bar, app.Percent,
			analytics.FormatDuration(app.TotalSecs)))
	}

	if len(m.detailed) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Details"))
		b.WriteString("\n")
		for _, row := range m.detailed {
			b.WriteString(fmt.Sprintf("  %-14s %-40s %s\n",
				truncateTo(row.app, 14),
				truncateTo(row.context, 40),
				mutedStyle.Render(analytics.FormatDuration(row.secs))))
		}
	}

	return panelStyle.Render(b.String())
}

func (m todayModel) renderDaemonLine() string {
	if m.daemon == nil {
		return errorStyle.Render("daemon offline")
	}
	line := successStyle.Render("daemon: " + m.daemon.Status)
	if cur := m.daemon.Current; cur != nil {
		line += mutedStyle.Render(fmt.Sprintf("  %s · %s", cur.AppName,
			analytics.FormatDuration(cur.ElapsedSecs)))
	}
	return line
}

func truncateTo(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
