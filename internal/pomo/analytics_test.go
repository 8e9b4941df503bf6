package pomo

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func at(daysAgo, hour int) time.Time {
	y, m, d := fixedNow.Date()
	return time.Date(y, m, d-daysAgo, hour, 0, 0, 0, time.Local)
}

func sessionsOn(days ...int) []FocusSession {
	var out []FocusSession
	for _, d := range days {
		out = append(out, FocusSession{Timestamp: at(d, 9), Duration: 25})
	}
	return out
}

// ============================================================
// Daily progress and streak
// ============================================================

func TestDailyProgress(t *testing.T) {
	sessions := sessionsOn(0, 0, 0, 1)
	if got := DailyProgress(sessions, 8, fixedNow); got != "3 / 8" {
		t.Fatalf("expected 3 / 8, got %s", got)
	}
	if got := DailyProgress(nil, 4, fixedNow); got != "0 / 4" {
		t.Fatalf("expected 0 / 4, got %s", got)
	}
}

func TestDailyCountUsesCalendarDay(t *testing.T) {
	sessions := []FocusSession{
		{Timestamp: at(0, 0)},
		{Timestamp: at(1, 23)},
	}
	if got := DailyCount(sessions, fixedNow); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestStreak(t *testing.T) {
	cases := []struct {
		name string
		days []int
		want int
	}{
		{"empty", nil, 0},
		{"today only", []int{0}, 1},
		{"yesterday only", []int{1}, 1},
		{"two days ago only", []int{2}, 0},
		{"three consecutive", []int{0, 1, 2}, 3},
		{"gap breaks run", []int{0, 1, 3}, 2},
		{"ends yesterday", []int{1, 2, 3}, 3},
		{"duplicates", []int{0, 0, 1, 1}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Streak(sessionsOn(tc.days...), fixedNow); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestStreakIgnoresFutureSessions(t *testing.T) {
	sessions := []FocusSession{{Timestamp: fixedNow.AddDate(0, 0, 2)}}
	sessions = append(sessions, sessionsOn(0)...)
	if got := Streak(sessions, fixedNow); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestPropertyStreakBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		days := rapid.SliceOf(rapid.IntRange(0, 40)).Draw(t, "days")
		sessions := sessionsOn(days...)
		streak := Streak(sessions, fixedNow)

		distinct := make(map[int]bool)
		for _, d := range days {
			distinct[d] = true
		}
		if streak < 0 || streak > len(distinct) {
			t.Fatalf("streak %d out of range for %d distinct days", streak, len(distinct))
		}
		if streak > 0 && !distinct[0] && !distinct[1] {
			t.Fatal("a streak must touch today or yesterday")
		}
	})
}

// ============================================================
// Finish estimate
// ============================================================

func TestRemainingMinutes(t *testing.T) {
	tasks := []Task{
		{Estimated: 3, Done: 1},
		{Estimated: 2, Done: 5},
		{Estimated: 4, Completed: true},
		{Estimated: 1},
	}
	if got := RemainingUnits(tasks); got != 3 {
		t.Fatalf("expected 3 units, got %d", got)
	}
	s := DefaultSettings()
	if got := RemainingMinutes(tasks, s); got != 3*25+2*5 {
		t.Fatalf("expected 85 minutes, got %d", got)
	}
	finish, ok := FinishEstimate(tasks, s, fixedNow)
	if !ok || !finish.Equal(fixedNow.Add(85*time.Minute)) {
		t.Fatalf("unexpected finish %v %v", finish, ok)
	}
}

func TestFinishEstimateTwoTasks(t *testing.T) {
	tasks := []Task{{Estimated: 4, Done: 1}, {Estimated: 2}}
	finish, ok := FinishEstimate(tasks, DefaultSettings(), fixedNow)
	if !ok {
		t.Fatal("expected an estimate")
	}
	if got := finish.Sub(fixedNow); got != 145*time.Minute {
		t.Fatalf("expected 145m, got %v", got)
	}
}

func TestFinishEstimateNothingLeft(t *testing.T) {
	tasks := []Task{{Estimated: 1, Done: 1, Completed: true}}
	if _, ok := FinishEstimate(tasks, DefaultSettings(), fixedNow); ok {
		t.Fatal("no remaining work should report no estimate")
	}
	if RemainingMinutes(nil, DefaultSettings()) != 0 {
		t.Fatal("empty list should need no time")
	}
}

func TestEstimatedUnits(t *testing.T) {
	tasks := []Task{{Estimated: 3}, {Estimated: 2, Completed: true}, {Estimated: 1}}
	if got := EstimatedUnits(tasks); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}

// ============================================================
// Reports
// ============================================================

func TestWeeklyReport(t *testing.T) {
	sessions := []FocusSession{
		{Timestamp: at(0, 9), Duration: 25},
		{Timestamp: at(0, 11), Duration: 50},
		{Timestamp: at(6, 9), Duration: 25},
		{Timestamp: at(7, 9), Duration: 25},
	}
	buckets := Report(sessions, ReportWeekly, fixedNow)
	if len(buckets) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(buckets))
	}
	if buckets[6].Minutes != 75 {
		t.Fatalf("today should hold 75 minutes, got %d", buckets[6].Minutes)
	}
	if buckets[0].Minutes != 25 {
		t.Fatalf("oldest bucket should hold 25 minutes, got %d", buckets[0].Minutes)
	}
	if buckets[6].Label != fixedNow.Format("Mon") {
		t.Fatalf("unexpected label %s", buckets[6].Label)
	}
	total := 0
	for _, b := range buckets {
		total += b.Minutes
	}
	if total != 100 {
		t.Fatal("sessions outside the window must be excluded")
	}
}

func TestMonthlyReportLabels(t *testing.T) {
	buckets := Report(nil, ReportMonthly, fixedNow)
	if len(buckets) != 30 {
		t.Fatalf("expected 30 buckets, got %d", len(buckets))
	}
	if buckets[29].Label != "Mar 12" {
		t.Fatalf("expected Mar 12, got %s", buckets[29].Label)
	}
	if buckets[0].Label != "Feb 11" {
		t.Fatalf("expected Feb 11, got %s", buckets[0].Label)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]FocusSession{
		{Duration: 25, Interruptions: 1},
		{Duration: 50, Interruptions: 2},
	})
	if sum.Sessions != 2 || sum.TotalMinutes != 75 || sum.Interruptions != 3 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.AvgInterruptions != 1.5 || sum.TotalHours() != 1.25 {
		t.Fatalf("unexpected averages %+v", sum)
	}
	if Summarize(nil).AvgInterruptions != 0 {
		t.Fatal("empty summary should not divide by zero")
	}
}
