package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/krisk248/flowmode/internal/client"
)

var (
	statusPause  bool
	statusResume bool

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the daemon's live state",
		Long: `Query the running daemon: tracking state, the window being
recorded right now, today's total, and the pomodoro timer.

Can also pause and resume tracking without stopping the daemon.`,
		Example: `  flowmode status
  flowmode status --pause
  flowmode status --resume`,
		RunE: runStatus,
	}
)

func init() {
	statusCmd.Flags().BoolVar(&statusPause, "pause", false, "pause tracking")
	statusCmd.Flags().BoolVar(&statusResume, "resume", false, "resume tracking")
	statusCmd.MarkFlagsMutuallyExclusive("pause", "resume")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	api := apiClient(cfg)
	ctx := cmd.Context()

	if statusPause {
		if err := api.PauseTracking(ctx); err != nil {
			return daemonErr(err)
		}
		fmt.Println("✓ Tracking paused")
		return nil
	}
	if statusResume {
		if err := api.ResumeTracking(ctx); err != nil {
			return daemonErr(err)
		}
		fmt.Println("✓ Tracking resumed")
		return nil
	}

	st, err := api.Status(ctx)
	if err != nil {
		return daemonErr(err)
	}

	fmt.Printf("Tracking:  %s\n", st.Status)
	fmt.Printf("Today:     %s\n", st.TodayDisplay)
	if cur := st.Current; cur != nil {
		mode := "passive"
		if cur.IsActive {
			mode = "active"
		}
		fmt.Printf("Current:   %s (%s, %s)\n", cur.AppName, cur.Category, mode)
		if cur.WindowTitle != "" {
			fmt.Printf("Window:    %s\n", cur.WindowTitle)
		}
	}
	fmt.Printf("Pomodoro:  %s", st.Pomodoro.State)
	if st.Pomodoro.State != "idle" {
		fmt.Printf(" (%s remaining)", st.Pomodoro.Remaining)
	}
	fmt.Printf(", %d completed today\n", st.Pomodoro.Completed)
	return nil
}

func daemonErr(err error) error {
	if errors.Is(err, client.ErrDaemonUnreachable) {
		return fmt.Errorf("daemon is not running (start it with 'flowmode start')")
	}
	return err
}
