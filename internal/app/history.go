package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/krisk248/flowmode/internal/analytics"
	"github.com/krisk248/flowmode/internal/store"
)

var (
	historyNumDays int

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Day-by-day totals with a burnout check",
		Long: `Show tracked time per day for the trailing window, oldest first
with days off shown as zero, plus the overwork assessment derived from
the last two weeks.`,
		Example: `  flowmode history
  flowmode history --days 14`,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVar(&historyNumDays, "days", 7, "number of days to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyNumDays < 1 || historyNumDays > 365 {
		return fmt.Errorf("--days must be between 1 and 365")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	now := time.Now()
	// Burnout always needs the full two weeks regardless of the window.
	fetchDays := historyNumDays
	if fetchDays < 14 {
		fetchDays = 14
	}
	from := store.DayKey(now.AddDate(0, 0, -(fetchDays - 1)))
	totals, err := st.DailyTotals(from, store.DayKey(now))
	if err != nil {
		return err
	}

	entries := analytics.History(totals, now, historyNumDays)

	var max int64
	for _, e := range entries {
		if e.TotalSecs > max {
			max = e.TotalSecs
		}
	}

	const barWidth = 40
	for _, e := range entries {
		filled := 0
		if max > 0 {
			filled = int(e.TotalSecs * barWidth / max)
		}
		marker := " "
		if e.TotalSecs > analytics.LongDaySecs {
			marker = "!"
		}
		fmt.Printf("  %s %s %s %-8s %s\n", e.Day, marker,
			strings.Repeat("█", filled)+strings.Repeat("░", barWidth-filled),
			e.Formatted, weekdayOf(e.Day))
	}

	rep := analytics.Burnout(totals, now)
	fmt.Printf("\nBurnout: %s (%.1fh this week, trend %s)\n",
		rep.Level, rep.WeeklyHours, rep.TrendDirection)
	fmt.Println(rep.Recommendation)
	return nil
}

func weekdayOf(day string) string {
	t, err := time.ParseInLocation(store.DayFormat, day, time.Local)
	if err != nil {
		return ""
	}
	return t.Format("Mon")
}
