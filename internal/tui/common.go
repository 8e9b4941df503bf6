package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomo/internal/pomo"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewTasks
	viewTemplates
	viewReports
	viewSettings
)

var viewNames = []string{"Timer", "Tasks", "Templates", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// tickMsg is stamped with the engine generation it was scheduled under.
// A tick whose generation no longer matches is dropped.
type tickMsg struct {
	gen uint64
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: describeError(err), isError: true}
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, pomo.ErrLocked):
		return "Strict mode: finish this focus session first"
	case errors.Is(err, pomo.ErrNotAllowed):
		return "Not available right now"
	case errors.Is(err, pomo.ErrNotFound):
		return "Nothing selected"
	}
	return fmt.Sprintf("Error: %v", err)
}

// completionText describes an interval that just ended.
func completionText(c *pomo.Completion) string {
	text := "Break over, back to focus"
	if c.Mode == pomo.ModeFocus {
		text = "Focus complete! Time for a break"
	}
	if c.AutoStarted {
		text += " (" + c.Next.String() + " started)"
	}
	return text
}

// formatMinutes renders a minute count as "1h 05m" or "25m".
func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func formatHours(mins int) string {
	return fmt.Sprintf("%.1fh", float64(mins)/60)
}

func formatClockTime(t time.Time) string {
	return t.Format("15:04")
}
