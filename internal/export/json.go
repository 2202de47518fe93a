package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/krisk248/flowmode/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Segments   []jsonSegment `json:"segments"`
}

type jsonSegment struct {
	ID          int64  `json:"id"`
	Day         string `json:"day"`
	App         string `json:"app"`
	Category    string `json:"category"`
	WindowTitle string `json:"window_title,omitempty"`
	StartedAt   string `json:"started_at"`
	EndedAt     string `json:"ended_at,omitempty"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
	IsActive    bool   `json:"is_active"`
}

func ToJSON(segments []store.Segment, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(segments),
	}

	for _, seg := range segments {
		endStr := ""
		if seg.EndedAt != nil {
			endStr = seg.EndedAt.Local().Format(time.RFC3339)
		}

		export.Segments = append(export.Segments, jsonSegment{
			ID:          seg.ID,
			Day:         seg.Day,
			App:         seg.AppName,
			Category:    seg.Category,
			WindowTitle: seg.WindowTitle,
			StartedAt:   seg.StartedAt.Local().Format(time.RFC3339),
			EndedAt:     endStr,
			DurationSec: seg.DurationSecs,
			Duration:    formatDuration(seg.DurationSecs),
			IsActive:    seg.IsActive,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
