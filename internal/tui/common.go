package tui

import (
	"time"

	"github.com/krisk248/flowmode/internal/analytics"
	"github.com/krisk248/flowmode/internal/client"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewHourly
	viewHistory
	viewPomodoro
)

var viewNames = []string{"Today", "Hourly", "History", "Pomodoro"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type todayDataMsg struct {
	apps     []analytics.AppSummary
	detailed []detailedRow
	split    analytics.Split
	total    int64
	daemon   *client.Status
}

type hourlyDataMsg struct {
	buckets []analytics.HourlyBucket
}

type historyDataMsg struct {
	entries []analytics.HistoryEntry
	burnout analytics.BurnoutReport
}

type pomodoroDataMsg struct {
	status *client.Pomodoro
	err    error
}

type detailedRow struct {
	app     string
	context string
	secs    int64
}
