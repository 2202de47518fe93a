package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/krisk248/flowmode/internal/analytics"
	"github.com/krisk248/flowmode/internal/titles"
)

var (
	detailedDay string

	detailedCmd = &cobra.Command{
		Use:   "detailed",
		Short: "Per-window-title breakdown for a day",
		Long: `Break a day down by window title, with context extracted from the
titles: who you chatted with in Teams, which folders the terminal was
in, which sites the browser visited.`,
		Example: `  flowmode detailed
  flowmode detailed --day 2026-08-12`,
		RunE: runDetailed,
	}
)

func init() {
	detailedCmd.Flags().StringVar(&detailedDay, "day", "", "day to report (YYYY-MM-DD, default today)")
}

func runDetailed(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(detailedDay)
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

	entries := analytics.Detailed(segments)
	if len(entries) == 0 {
		fmt.Printf("Nothing tracked on %s.\n", day)
		return nil
	}

	fmt.Printf("%s — by window\n\n", day)
	lastApp := ""
	for _, e := range entries {
		if e.AppName != lastApp {
			fmt.Printf("%s\n", e.AppName)
			lastApp = e.AppName
		}
		parsed := titles.Parse(e.AppName, e.Category, e.WindowTitle)
		fmt.Printf("  %-50s %s\n", parsed.Display, analytics.FormatDuration(e.TotalSecs))
	}
	return nil
}
