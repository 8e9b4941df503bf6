package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/pomo"
)

type reportsModel struct {
	session *pomo.Session
	width   int
	height  int

	mode    pomo.ReportView
	buckets []pomo.DayBucket
	summary pomo.Summary

	chart barchart.Model
}

func newReportsModel(s *pomo.Session) reportsModel {
	return reportsModel{
		session: s,
		chart:   barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

type reportsDataMsg struct {
	mode    pomo.ReportView
	buckets []pomo.DayBucket
	summary pomo.Summary
}

// refresh snapshots the session log here so the command never touches
// session state off the update loop.
func (r reportsModel) refresh() tea.Cmd {
	sessions := r.session.FocusSessions()
	now := r.session.Now()
	mode := r.mode
	return func() tea.Msg {
		buckets := pomo.Report(sessions, mode, now)
		return reportsDataMsg{
			mode:    mode,
			buckets: buckets,
			summary: pomo.Summarize(inWindow(sessions, buckets)),
		}
	}
}

// inWindow keeps the sessions logged on or after the first bucket's day.
func inWindow(sessions []pomo.FocusSession, buckets []pomo.DayBucket) []pomo.FocusSession {
	if len(buckets) == 0 {
		return nil
	}
	y, m, d := buckets[0].Day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, buckets[0].Day.Location())
	var out []pomo.FocusSession
	for _, s := range sessions {
		if !s.Timestamp.Before(from) {
			out = append(out, s)
		}
	}
	return out
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.mode != r.mode {
			return r, nil
		}
		r.buckets = msg.buckets
		r.summary = msg.summary
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if r.mode == pomo.ReportWeekly {
				r.mode = pomo.ReportMonthly
			} else {
				r.mode = pomo.ReportWeekly
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	style := lipgloss.NewStyle().Foreground(colorAccent)
	var bars []barchart.BarData
	for _, b := range r.buckets {
		label := b.Label
		if r.mode == pomo.ReportMonthly {
			label = b.Day.Format("02")
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  "Focus",
				Value: float64(b.Minutes),
				Style: style,
			}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	weeklyTab := inactiveTabStyle.Render("Weekly")
	monthlyTab := inactiveTabStyle.Render("Monthly")
	if r.mode == pomo.ReportWeekly {
		weeklyTab = activeTabStyle.Render("Weekly")
	} else {
		monthlyTab = activeTabStyle.Render("Monthly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, weeklyTab, monthlyTab)

	dateLabel := ""
	if len(r.buckets) > 0 {
		first, last := r.buckets[0].Day, r.buckets[len(r.buckets)-1].Day
		dateLabel = mutedStyle.Render(fmt.Sprintf("%s - %s", first.Format("Jan 02"), last.Format("Jan 02, 2006")))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: weekly/monthly")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummary(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummary(w int) string {
	if r.summary.Sessions == 0 {
		return mutedStyle.Render("  No focus sessions in this period")
	}

	best := r.buckets[0]
	for _, b := range r.buckets {
		if b.Minutes > best.Minutes {
			best = b
		}
	}

	label := lipgloss.NewStyle().Width(22)
	rows := []string{
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 40))),
		"  " + label.Render("Focus time") + highlightStyle.Render(fmt.Sprintf("%s (%s)", formatMinutes(r.summary.TotalMinutes), formatHours(r.summary.TotalMinutes))),
		"  " + label.Render("Sessions") + highlightStyle.Render(fmt.Sprintf("%d", r.summary.Sessions)),
		"  " + label.Render("Interruptions") + highlightStyle.Render(fmt.Sprintf("%d (%.1f per session)", r.summary.Interruptions, r.summary.AvgInterruptions)),
		"  " + label.Render("Best day") + highlightStyle.Render(fmt.Sprintf("%s, %s", best.Day.Format("Mon Jan 02"), formatMinutes(best.Minutes))),
		"  " + label.Render("Current streak") + highlightStyle.Render(fmt.Sprintf("%d days", r.session.Streak())),
	}
	return strings.Join(rows, "\n")
}
