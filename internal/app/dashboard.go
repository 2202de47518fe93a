package app

import (
	"github.com/spf13/cobra"

	"github.com/krisk248/flowmode/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Full-screen terminal dashboard",
	Long: `Open the interactive dashboard: today's apps, hourly and daily
charts, and pomodoro control. Analytics read the database directly;
the pomodoro view talks to the running daemon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		return tui.Run(st, cfg, apiClient(cfg))
	},
}
