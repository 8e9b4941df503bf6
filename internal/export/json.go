package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomo/internal/pomo"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Summary    jsonSummary   `json:"summary"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSummary struct {
	TotalMinutes     int     `json:"total_minutes"`
	Interruptions    int     `json:"interruptions"`
	AvgInterruptions float64 `json:"avg_interruptions"`
}

type jsonSession struct {
	Timestamp     string `json:"timestamp"`
	TimestampMS   int64  `json:"timestamp_ms"`
	DurationMin   int    `json:"duration_minutes"`
	Duration      string `json:"duration"`
	Interruptions int    `json:"interruptions"`
}

// SessionsToJSON writes the focus session log and its totals to path.
func SessionsToJSON(sessions []pomo.FocusSession, path string) error {
	sum := pomo.Summarize(sessions)
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
		Summary: jsonSummary{
			TotalMinutes:     sum.TotalMinutes,
			Interruptions:    sum.Interruptions,
			AvgInterruptions: sum.AvgInterruptions,
		},
		Sessions: []jsonSession{},
	}

	for _, s := range sessions {
		export.Sessions = append(export.Sessions, jsonSession{
			Timestamp:     s.Timestamp.Local().Format(time.RFC3339),
			TimestampMS:   s.Timestamp.UnixMilli(),
			DurationMin:   s.Duration,
			Duration:      formatMinutes(s.Duration),
			Interruptions: s.Interruptions,
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
