package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomo/internal/pomo"
)

// SessionsToCSV writes the focus session log to path, one row per session.
func SessionsToCSV(sessions []pomo.FocusSession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"#", "Timestamp", "Date", "Duration (min)", "Duration", "Interruptions"}); err != nil {
		return err
	}

	for i, s := range sessions {
		row := []string{
			fmt.Sprintf("%d", i+1),
			s.Timestamp.Local().Format(time.RFC3339),
			s.Timestamp.Local().Format("2006-01-02"),
			fmt.Sprintf("%d", s.Duration),
			formatMinutes(s.Duration),
			fmt.Sprintf("%d", s.Interruptions),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d:00", mins/60, mins%60)
}
