package app

import (
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background daemon",
	Long: `Stop a daemon started with 'flowmode start --daemon'. The daemon
flushes and closes its open segment before exiting, so no tracked time
is lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pidFile, err := pidFilePath()
		if err != nil {
			return err
		}
		return stopDaemon(pidFile)
	},
}
