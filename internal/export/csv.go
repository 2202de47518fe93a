// Package export writes tracked segments to CSV or JSON files for use
// outside the tracker.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/krisk248/flowmode/internal/store"
)

func ToCSV(segments []store.Segment, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	header := []string{"ID", "Day", "App", "Category", "Window Title", "Start", "End", "Duration (s)", "Duration", "Active"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, seg := range segments {
		endStr := ""
		if seg.EndedAt != nil {
			endStr = seg.EndedAt.Local().Format(time.RFC3339)
		}
		active := "passive"
		if seg.IsActive {
			active = "active"
		}

		row := []string{
			fmt.Sprintf("%d", seg.ID),
			seg.Day,
			seg.AppName,
			seg.Category,
			seg.WindowTitle,
			seg.StartedAt.Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", seg.DurationSecs),
			formatDuration(seg.DurationSecs),
			active,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
