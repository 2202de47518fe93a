// Package app wires the command-line surface: the tracking daemon and
// the query commands that read its database.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/krisk248/flowmode/internal/client"
	"github.com/krisk248/flowmode/internal/config"
	"github.com/krisk248/flowmode/internal/store"
)

var (
	configPath string
	dbPath     string
	verbose    bool

	// RootCmd is the root command for flowmode
	RootCmd = &cobra.Command{
		Use:   "flowmode",
		Short: "Local time tracker for whitelisted applications",
		Long: `flowmode watches your focused window, records time only for
applications you whitelisted, and keeps everything in a local SQLite
database. Nothing ever leaves your machine.

Quick Start:
  1. flowmode init        # create a config with starter rules
  2. flowmode start       # run the tracking daemon
  3. flowmode stats       # see where today went

Examples:
  # Run the daemon in the background
  flowmode start --daemon

  # Today's per-app breakdown
  flowmode stats

  # Per-window-title detail (chat partners, folders, sites)
  flowmode detailed

  # Last two weeks, day by day
  flowmode history --days 14

  # Full-screen dashboard
  flowmode dashboard`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultPath()
			if err == nil {
				if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
					fmt.Println("flowmode: local whitelist-based time tracking")
					fmt.Println()
					fmt.Println("Run 'flowmode init' to get started.")
					fmt.Println("Run 'flowmode --help' for the full reference.")
					return nil
				}
			}
			fmt.Println("flowmode: local whitelist-based time tracking")
			fmt.Println()
			fmt.Println("Tip: Run 'flowmode status' to check the daemon.")
			fmt.Println("     Run 'flowmode stats' for today's breakdown.")
			fmt.Println("     Run 'flowmode --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ~/.config/flowmode/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.config/flowmode/flowmode.db)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	RootCmd.SuggestionsMinimumDistance = 2
	RootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogging()
	}

	// Register subcommands
	RootCmd.AddCommand(startCmd)
	RootCmd.AddCommand(stopCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(detailedCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(appsCmd)
	RootCmd.AddCommand(dashboardCmd)
	RootCmd.AddCommand(resetCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(exportCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig reads the config file, falling back to defaults when it
// does not exist yet.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// openStore opens the segments database.
func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		var err error
		path, err = config.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.New(path)
}

// apiClient builds a client for the configured daemon address.
func apiClient(cfg *config.Config) *client.Client {
	return client.New(cfg.ListenAddr)
}

// pidFilePath is where the daemon records its PID.
func pidFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "flowmode.pid"), nil
}

// logFilePath is where the background daemon writes its log.
func logFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "flowmode.log"), nil
}
