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
	statsDay string

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Per-app breakdown for a day",
		Long: `Show how tracked time was split across applications, with the
active/passive ratio. Defaults to today.`,
		Example: `  flowmode stats
  flowmode stats --day 2026-08-12`,
		RunE: runStats,
	}
)

func init() {
	statsCmd.Flags().StringVar(&statsDay, "day", "", "day to report (YYYY-MM-DD, default today)")
}

func runStats(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(statsDay)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	segments, err := st.QueryDay(day)
	if err != nil {
		return err
	}

	apps := analytics.Summarize(segments)
	if len(apps) == 0 {
		fmt.Printf("Nothing tracked on %s.\n", day)
		return nil
	}

	var total int64
	for _, a := range apps {
		total += a.TotalSecs
	}
	split := analytics.ActivePassive(segments)

	fmt.Printf("%s — %s tracked (%d%% active)\n\n", day,
		analytics.FormatDuration(total), split.ActivePercent)

	const barWidth = 30
	for _, a := range apps {
		filled := a.Percent * barWidth / 100
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Printf("  %-16s %s %4d%%  %s\n",
			a.AppName, bar, a.Percent, analytics.FormatDuration(a.TotalSecs))
	}
	return nil
}

// resolveDay validates a --day flag, defaulting to today.
func resolveDay(flag string) (string, error) {
	if flag == "" {
		return store.DayKey(time.Now()), nil
	}
	if _, err := time.ParseInLocation(store.DayFormat, flag, time.Local); err != nil {
		return "", fmt.Errorf("invalid day %q (want YYYY-MM-DD)", flag)
	}
	return flag, nil
}
