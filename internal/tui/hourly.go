package tui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krisk248/flowmode/internal/analytics"
	"github.com/krisk248/flowmode/internal/store"
)

type hourlyModel struct {
	store  *store.Store
	width  int
	height int

	buckets []analytics.HourlyBucket
	chart   barchart.Model
}

func newHourlyModel(s *store.Store) hourlyModel {
	return hourlyModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (m *hourlyModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

func (m hourlyModel) loadData() tea.Cmd {
	return func() tea.Msg {
		segments, _ := m.store.QueryDay(store.DayKey(time.Now()))
		return hourlyDataMsg{buckets: analytics.Hourly(segments)}
	}
}

func (m hourlyModel) update(msg tea.Msg) (hourlyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case hourlyDataMsg:
		m.buckets = msg.buckets
		m.buildChart()
		return m, nil
	}
	return m, nil
}

func (m *hourlyModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	activeStyle := lipgloss.NewStyle().Foreground(colorSecondary)
	passiveStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	var bars []barchart.BarData
	for _, b := range m.buckets {
		values := []barchart.BarValue{
			{Name: "active", Value: float64(b.ActiveSecs) / 60, Style: activeStyle},
			{Name: "passive", Value: float64(b.PassiveSecs) / 60, Style: passiveStyle},
		}
		bars = append(bars, barchart.BarData{
			Label:  fmt.Sprintf("%02d", b.Hour),
			Values: values,
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m hourlyModel) view() string {
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Hourly"), "  ",
		mutedStyle.Render("minutes per hour, "+time.Now().Format("Jan 02")), "  ",
		secondaryStyle.Render("■ active "), mutedStyle.Render("■ passive"),
	)
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.chart.View()))
}
