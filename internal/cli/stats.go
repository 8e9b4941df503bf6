package cli

import (
	"fmt"
	"time"

	"github.com/sadopc/pomo/internal/pomo"
	"github.com/spf13/cobra"
)

// now is replaced in tests.
var now = time.Now

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print today's progress, streak and finish estimate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		session := pomo.Open(st, pomo.WithClock(now))
		finish := "-"
		if t, ok := session.FinishEstimate(); ok {
			finish = t.Format("15:04")
		}
		completed, total := session.TaskStats()

		t := session.Now()
		weekStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -6)
		week, err := st.GetSessionStats(weekStart, t.Add(time.Second))
		if err != nil {
			return fmt.Errorf("reading session stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  %-18s %s\n", "Today:", session.DailyProgress())
		fmt.Fprintf(out, "  %-18s %d days\n", "Streak:", session.Streak())
		fmt.Fprintf(out, "  %-18s %s\n", "Finish at:", finish)
		fmt.Fprintf(out, "  %-18s %d / %d\n", "Tasks done:", completed, total)
		fmt.Fprintf(out, "  %-18s %d sessions, %d min, %d interruptions\n",
			"Last 7 days:", week.Count, week.Minutes, week.Interruptions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
