package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List the whitelist rules",
	Long: `Print the configured whitelist: which windows are tracked, how they
are matched, and which category they land in. Windows matching no rule
are never recorded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if len(cfg.Rules) == 0 {
			fmt.Println("No rules configured. Run 'flowmode init' to create some.")
			return nil
		}

		fmt.Printf("%-16s %-14s %-20s %s\n", "NAME", "MATCH", "PATTERN", "CATEGORY")
		for _, r := range cfg.Rules {
			fmt.Printf("%-16s %-14s %-20s %s\n", r.Name, r.MatchType, r.Pattern, r.Category)
		}
		fmt.Printf("\nFocus categories: %v\n", cfg.FocusCategories)
		return nil
	},
}
