package tui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krisk248/flowmode/internal/analytics"
	"github.com/krisk248/flowmode/internal/config"
	"github.com/krisk248/flowmode/internal/store"
)

const historyDays = 14

type historyModel struct {
	store  *store.Store
	cfg    *config.Config
	width  int
	height int

	entries []analytics.HistoryEntry
	burnout analytics.BurnoutReport
	chart   barchart.Model
}

func newHistoryModel(s *store.Store, cfg *config.Config) historyModel {
	return historyModel{
		store: s,
		cfg:   cfg,
		chart: barchart.New(60, 12),
	}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

func (m historyModel) loadData() tea.Cmd {
	return func() tea.Msg {
		now := time.Now()
		from := store.DayKey(now.AddDate(0, 0, -(historyDays - 1)))
		totals, _ := m.store.DailyTotals(from, store.DayKey(now))
		return historyDataMsg{
			entries: analytics.History(totals, now, historyDays),
			burnout: analytics.Burnout(totals, now),
		}
	}
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		m.entries = msg.entries
		m.burnout = msg.burnout
		m.buildChart()
		return m, nil
	}
	return m, nil
}

func (m *historyModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	longStyle := lipgloss.NewStyle().Foreground(colorWarning)

	var bars []barchart.BarData
	for _, e := range m.entries {
		day, err := time.ParseInLocation(store.DayFormat, e.Day, time.Local)
		if err != nil {
			continue
		}
		style := barStyle
		if e.TotalSecs > analytics.LongDaySecs {
			style = longStyle
		}
		bars = append(bars, barchart.BarData{
			Label: day.Format("02"),
			Values: []barchart.BarValue{
				{Name: e.Day, Value: float64(e.TotalSecs) / 3600, Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m historyModel) view() string {
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		mutedStyle.Render(fmt.Sprintf("hours per day, last %d days", historyDays)),
	)

	burnout := m.renderBurnout()
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.chart.View(), "", burnout))
}

func (m historyModel) renderBurnout() string {
	level := m.burnout.Level
	var levelStyle lipgloss.Style
	switch level {
	case analytics.BurnoutHigh, analytics.BurnoutCritical:
		levelStyle = errorStyle
	case analytics.BurnoutMedium:
		levelStyle = lipgloss.NewStyle().Foreground(colorWarning)
	default:
		levelStyle = successStyle
	}

	line := fmt.Sprintf("burnout: %s · %.1fh this week · trend %s",
		level, m.burnout.WeeklyHours, m.burnout.TrendDirection)
	return lipgloss.JoinVertical(lipgloss.Left,
		levelStyle.Render(line),
		mutedStyle.Render(m.burnout.Recommendation),
	)
}
