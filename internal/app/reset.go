package app

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	resetDay string
	resetYes bool

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Delete one day's tracked data",
		Long: `Delete all segments and the pomodoro counter for a single day.
Other days are untouched. Defaults to today and asks for confirmation.`,
		Example: `  flowmode reset
  flowmode reset --day 2026-08-12 --yes`,
		RunE: runReset,
	}
)

func init() {
	resetCmd.Flags().StringVar(&resetDay, "day", "", "day to reset (YYYY-MM-DD, default today)")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(resetDay)
	if err != nil {
		return err
	}

	if !resetYes {
		confirmed := false
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Delete all tracked data for %s?", day)).
			Description("Segments and the pomodoro counter for that day are removed permanently.").
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.ResetDay(day); err != nil {
		return err
	}
	fmt.Printf("✓ Data for %s deleted\n", day)
	return nil
}
