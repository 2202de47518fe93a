package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/krisk248/flowmode/internal/export"
	"github.com/krisk248/flowmode/internal/store"
)

var (
	exportFormat string
	exportOut    string
	exportFrom   string
	exportTo     string

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export segments to CSV or JSON",
		Long: `Write raw segments for a day range to a file. Defaults to the last
seven days as CSV.`,
		Example: `  flowmode export
  flowmode export --format json --out week.json
  flowmode export --from 2026-08-01 --to 2026-08-31 --out august.csv`,
		RunE: runExport,
	}
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default flowmode-export.<format>)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first day (YYYY-MM-DD, default 6 days ago)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last day (YYYY-MM-DD, default today)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
	}

	now := time.Now()
	from := store.DayKey(now.AddDate(0, 0, -6))
	if exportFrom != "" {
		var err error
		if from, err = resolveDay(exportFrom); err != nil {
			return err
		}
	}
	to := store.DayKey(now)
	if exportTo != "" {
		var err error
		if to, err = resolveDay(exportTo); err != nil {
			return err
		}
	}
	if from > to {
		return fmt.Errorf("--from %s is after --to %s", from, to)
	}

	out := exportOut
	if out == "" {
		out = "flowmode-export." + exportFormat
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	segments, err := st.QueryRange(from, to)
	if err != nil {
		return err
	}

	switch exportFormat {
	case "csv":
		err = export.ToCSV(segments, out)
	case "json":
		err = export.ToJSON(segments, out)
	}
	if err != nil {
		return err
	}

	fmt.Printf("✓ Exported %d segments (%s to %s) to %s\n", len(segments), from, to, out)
	return nil
}
