package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/pomo"
)

var timerModes = []pomo.Mode{pomo.ModeFocus, pomo.ModeShortBreak, pomo.ModeLongBreak}

type timerModel struct {
	session *pomo.Session
	width   int
	height  int
}

func newTimerModel(s *pomo.Session) timerModel {
	return timerModel{session: s}
}

func (m *timerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	eng := m.session.Engine()
	switch {
	case key.Matches(keyMsg, keys.Toggle):
		if err := m.session.Toggle(); err != nil {
			return m, errorCmd(err)
		}
		if eng.Running() {
			return m, statusCmd(eng.Mode().String() + " started")
		}
		return m, statusCmd("Paused")

	case key.Matches(keyMsg, keys.Reset):
		if err := m.session.Reset(); err != nil {
			return m, errorCmd(err)
		}
		return m, statusCmd("Timer reset")

	case key.Matches(keyMsg, keys.Skip):
		c, err := m.session.Skip()
		if err != nil {
			return m, errorCmd(err)
		}
		return m, statusCmd(completionText(c))

	case key.Matches(keyMsg, keys.Interrupt):
		if err := m.session.LogInterruption(); err != nil {
			if errors.Is(err, pomo.ErrNotAllowed) {
				return m, statusCmd("Start the timer to log interruptions")
			}
			return m, errorCmd(err)
		}
		return m, statusCmd(fmt.Sprintf("Interruption logged (%d)", eng.Interruptions()))

	case key.Matches(keyMsg, keys.Extend):
		if err := m.session.ExtendBreak(); err != nil {
			if errors.Is(err, pomo.ErrNotAllowed) {
				return m, statusCmd("Only breaks can be extended")
			}
			return m, errorCmd(err)
		}
		return m, statusCmd("Break extended by 2 minutes")

	case key.Matches(keyMsg, keys.Focus):
		return m.switchMode(pomo.ModeFocus)
	case key.Matches(keyMsg, keys.ShortBreak):
		return m.switchMode(pomo.ModeShortBreak)
	case key.Matches(keyMsg, keys.LongBreak):
		return m.switchMode(pomo.ModeLongBreak)
	}
	return m, nil
}

// switchMode is allowed in strict mode too; only pause, reset and skip are guarded.
func (m timerModel) switchMode(mode pomo.Mode) (timerModel, tea.Cmd) {
	m.session.SetMode(mode)
	return m, nil
}

func (m timerModel) view() string {
	w := m.width - 4
	eng := m.session.Engine()
	mode := eng.Mode()
	color := modeColor(mode)

	clock := timerStyle.Foreground(color).Width(w - 6).Render(eng.Display())
	if !eng.Running() && eng.Remaining() < eng.Total() {
		clock = timerPausedStyle.Width(w - 6).Render(eng.Display())
	}

	state := mutedStyle.Render("Ready")
	switch {
	case eng.Locked():
		state = errorStyle.Render("🔒 Strict focus")
	case eng.Running():
		state = lipgloss.NewStyle().Foreground(color).Bold(true).Render(strings.ToUpper(mode.String()))
	case eng.Remaining() < eng.Total():
		state = warningStyle.Render("Paused")
	}

	rows := []string{
		m.renderModeTabs(),
		"",
		clock,
		state,
		"",
		renderBar(eng.Progress(), min(w-5, 55), color),
		m.renderCycles(),
		"",
		subtitleStyle.Render(m.session.FocusLabel()),
	}
	if mode == pomo.ModeFocus && eng.Interruptions() > 0 {
		rows = append(rows, warningStyle.Render(fmt.Sprintf("⚡ %d interruptions", eng.Interruptions())))
	}

	timer := lipgloss.JoinVertical(lipgloss.Center, rows...)
	controls := mutedStyle.Render(m.controlsHint())

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, timer, "", controls)),
		m.renderStats(w),
	)
}

func (m timerModel) controlsHint() string {
	eng := m.session.Engine()
	switch {
	case eng.Locked():
		return "i: interruption"
	case eng.Mode().IsBreak():
		return "space: start/pause  x: +2 min  s: skip  r: reset  f/b/B: mode"
	default:
		return "space: start/pause  i: interruption  s: skip  r: reset  f/b/B: mode"
	}
}

func (m timerModel) renderModeTabs() string {
	current := m.session.Engine().Mode()
	var tabs []string
	for _, mode := range timerModes {
		if mode == current {
			tabs = append(tabs, activeTabStyle.
				Foreground(modeColor(mode)).
				BorderForeground(modeColor(mode)).
				Render(mode.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(mode.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// renderCycles shows progress toward the next long break.
func (m timerModel) renderCycles() string {
	eng := m.session.Engine()
	interval := m.session.Settings().LongBreakInterval
	if interval <= 0 {
		return ""
	}
	done := eng.Cycles() % interval
	var parts []string
	for i := 0; i < interval; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && eng.Mode() == pomo.ModeFocus && eng.Running():
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", done, interval))
	return strings.Join(parts, " ") + counter
}

func (m timerModel) renderStats(w int) string {
	completed, total := m.session.TaskStats()
	tasks := m.session.Tasks()
	finish := "--"
	if t, ok := m.session.FinishEstimate(); ok {
		finish = formatClockTime(t)
	}

	label := lipgloss.NewStyle().Width(16)
	rows := []string{
		titleStyle.Render("Today"),
		"",
		label.Render("Daily goal") + highlightStyle.Render(m.session.DailyProgress()),
		label.Render("Streak") + highlightStyle.Render(fmt.Sprintf("%d days", m.session.Streak())),
		label.Render("Tasks done") + highlightStyle.Render(fmt.Sprintf("%d / %d", completed, total)),
		label.Render("Pomodoros left") + highlightStyle.Render(fmt.Sprintf("%d of %d planned",
			pomo.RemainingUnits(tasks), pomo.EstimatedUnits(tasks))),
		label.Render("Finish at") + highlightStyle.Render(finish),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderBar draws a static progress bar of the given width, percentage included.
func renderBar(fraction float64, width int, color lipgloss.Color) string {
	if width < 1 {
		return ""
	}
	bar := progress.New(progress.WithSolidFill(string(color)), progress.WithWidth(width))
	bar.EmptyColor = string(colorSubtle)
	return bar.ViewAs(fraction)
}
