package analytics

import (
	"time"

	"github.com/krisk248/flowmode/internal/store"
)

// Burnout thresholds. A "long day" is more than eight tracked hours;
// levels escalate on weekly volume or on runs of consecutive long days
// ending today.
const (
	LongDaySecs = 8 * 3600

	CriticalWeeklyHours = 60.0
	CriticalLongDayRun  = 6

	HighWeeklyHours = 50.0
	HighLongDayRun  = 4

	MediumWeeklyHours = 45.0

	// Week-over-week averages within ±10% count as stable.
	trendUpFactor   = 1.1
	trendDownFactor = 0.9
)

// Burnout levels, ordered.
const (
	BurnoutLow      = "low"
	BurnoutMedium   = "medium"
	BurnoutHigh     = "high"
	BurnoutCritical = "critical"
)

// Trend directions.
const (
	TrendIncreasing = "increasing"
	TrendStable     = "stable"
	TrendDecreasing = "decreasing"
)

// BurnoutReport is the derived overwork assessment.
type BurnoutReport struct {
	Level               string
	WeeklyHours         float64
	ConsecutiveLongDays int
	TrendDirection      string
	Recommendation      string
}

var recommendations = map[string]string{
	BurnoutLow:      "Good balance. Keep maintaining healthy work hours.",
	BurnoutMedium:   "Approaching limits. Try to wrap up earlier today.",
	BurnoutHigh:     "Working too many hours. Plan shorter days this week.",
	BurnoutCritical: "Take a break. Consider taking time off to recover.",
}

// Burnout scores the trailing two weeks of day totals. today anchors the
// window so the function is testable without wall-clock access.
func Burnout(totals []store.DayTotal, today time.Time) BurnoutReport {
	byDay := make(map[string]int64, len(totals))
	for _, t := range totals {
		byDay[t.Day] = t.TotalSecs
	}

	daySecs := func(offset int) int64 {
		return byDay[store.DayKey(today.AddDate(0, 0, -offset))]
	}

	var thisWeek, prevWeek int64
	for i := 0; i < 7; i++ {
		thisWeek += daySecs(i)
		prevWeek += daySecs(i + 7)
	}
	weeklyHours := float64(thisWeek) / 3600

	consecutive := 0
	for i := 0; i < 7; i++ {
		if daySecs(i) > LongDaySecs {
			consecutive++
		} else {
			break
		}
	}

	trend := TrendStable
	recentAvg := float64(thisWeek) / 7
	olderAvg := float64(prevWeek) / 7
	switch {
	case olderAvg == 0 && recentAvg > 0:
		trend = TrendIncreasing
	case recentAvg > olderAvg*trendUpFactor:
		trend = TrendIncreasing
	case recentAvg < olderAvg*trendDownFactor:
		trend = TrendDecreasing
	}

	level := BurnoutLow
	switch {
	case weeklyHours > CriticalWeeklyHours || consecutive >= CriticalLongDayRun:
		level = BurnoutCritical
	case weeklyHours > HighWeeklyHours || consecutive >= HighLongDayRun:
		level = BurnoutHigh
	case weeklyHours > MediumWeeklyHours:
		level = BurnoutMedium
	}

	return BurnoutReport{
		Level:               level,
		WeeklyHours:         weeklyHours,
		ConsecutiveLongDays: consecutive,
		TrendDirection:      trend,
		Recommendation:      recommendations[level],
	}
}
