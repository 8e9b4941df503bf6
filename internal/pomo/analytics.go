package pomo

import (
	"fmt"
	"sort"
	"time"
)

// Analytics are pure functions over store snapshots; nothing here is cached.

func dayKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days from a to b in b's location.
func daysBetween(a, b time.Time) int {
	da := dayKey(a.In(b.Location()))
	db := dayKey(b)
	return int(db.Sub(da).Hours() / 24)
}

// DailyCount is the number of sessions logged on now's calendar day.
func DailyCount(sessions []FocusSession, now time.Time) int {
	n := 0
	for _, s := range sessions {
		if daysBetween(s.Timestamp, now) == 0 {
			n++
		}
	}
	return n
}

func DailyProgress(sessions []FocusSession, goal int, now time.Time) string {
	return fmt.Sprintf("%d / %d", DailyCount(sessions, now), goal)
}

// Streak counts consecutive calendar days with at least one session, ending
// today or yesterday. A day without a session breaks the run. Sessions
// stamped after today are ignored.
func Streak(sessions []FocusSession, now time.Time) int {
	seen := make(map[int]bool)
	var offsets []int
	for _, s := range sessions {
		off := daysBetween(s.Timestamp, now)
		if off < 0 || seen[off] {
			continue
		}
		seen[off] = true
		offsets = append(offsets, off)
	}
	if len(offsets) == 0 {
		return 0
	}
	sort.Ints(offsets)

	base := offsets[0]
	if base > 1 {
		return 0
	}
	streak := 0
	for i, off := range offsets {
		if off != base+i {
			break
		}
		streak++
	}
	return streak
}

// RemainingUnits sums the focus intervals still planned across open tasks.
func RemainingUnits(tasks []Task) int {
	r := 0
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if left := t.Estimated - t.Done; left > 0 {
			r += left
		}
	}
	return r
}

// EstimatedUnits sums the estimates of open tasks.
func EstimatedUnits(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n += t.Estimated
		}
	}
	return n
}

// RemainingMinutes is the focus time plus the short breaks between the
// remaining intervals.
func RemainingMinutes(tasks []Task, s Settings) int {
	r := RemainingUnits(tasks)
	if r == 0 {
		return 0
	}
	return r*s.FocusMinutes + (r-1)*s.ShortBreakMinutes
}

// FinishEstimate projects when the open tasks will be done. ok is false
// when nothing remains.
func FinishEstimate(tasks []Task, s Settings, now time.Time) (finish time.Time, ok bool) {
	if RemainingUnits(tasks) == 0 {
		return time.Time{}, false
	}
	return now.Add(time.Duration(RemainingMinutes(tasks, s)) * time.Minute), true
}

type ReportView int

const (
	ReportWeekly ReportView = iota
	ReportMonthly
)

func (v ReportView) Days() int {
	if v == ReportMonthly {
		return 30
	}
	return 7
}

func (v ReportView) String() string {
	if v == ReportMonthly {
		return "Monthly"
	}
	return "Weekly"
}

// DayBucket is the focus time logged on one local calendar day.
type DayBucket struct {
	Day     time.Time
	Label   string
	Minutes int
}

// Report buckets session minutes per day for the view's window, oldest first.
func Report(sessions []FocusSession, v ReportView, now time.Time) []DayBucket {
	n := v.Days()
	minutes := make(map[int]int)
	for _, s := range sessions {
		off := daysBetween(s.Timestamp, now)
		if off >= 0 && off < n {
			minutes[off] += s.Duration
		}
	}

	buckets := make([]DayBucket, 0, n)
	for off := n - 1; off >= 0; off-- {
		day := now.AddDate(0, 0, -off)
		label := day.Format("Mon")
		if v == ReportMonthly {
			label = day.Format("Jan 2")
		}
		buckets = append(buckets, DayBucket{Day: day, Label: label, Minutes: minutes[off]})
	}
	return buckets
}

type Summary struct {
	TotalMinutes     int
	Sessions         int
	Interruptions    int
	AvgInterruptions float64
}

func (s Summary) TotalHours() float64 {
	return float64(s.TotalMinutes) / 60
}

func Summarize(sessions []FocusSession) Summary {
	var sum Summary
	for _, s := range sessions {
		sum.TotalMinutes += s.Duration
		sum.Interruptions += s.Interruptions
	}
	sum.Sessions = len(sessions)
	if sum.Sessions > 0 {
		sum.AvgInterruptions = float64(sum.Interruptions) / float64(sum.Sessions)
	}
	return sum
}
