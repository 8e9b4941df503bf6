package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sadopc/pomo/internal/pomo"
	"pgregory.net/rapid"
)

var _ pomo.Store = (*Store)(nil)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ms(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}

func sampleTasks() []pomo.Task {
	created := ms(time.Date(2025, 3, 12, 9, 15, 30, 123e6, time.Local))
	return []pomo.Task{
		{
			ID: "t1", Title: "Write report", Project: "Work", Notes: "draft",
			Estimated: 3, Done: 4, Completed: true, CreatedAt: created,
			SubTasks: []pomo.SubTask{
				{ID: "s1", Title: "outline", Completed: true},
				{ID: "s2", Title: "polish"},
			},
		},
		{ID: "t2", Title: "Read", Estimated: 1, CreatedAt: created, SubTasks: []pomo.SubTask{}},
	}
}

func assertTasksEqual(t *testing.T, want, got []pomo.Task) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.ID != g.ID || w.Title != g.Title || w.Project != g.Project || w.Notes != g.Notes ||
			w.Estimated != g.Estimated || w.Done != g.Done || w.Completed != g.Completed {
			t.Fatalf("task %d: expected %+v, got %+v", i, w, g)
		}
		if !w.CreatedAt.Equal(g.CreatedAt) {
			t.Fatalf("task %d: CreatedAt %v != %v", i, w.CreatedAt, g.CreatedAt)
		}
		if len(w.SubTasks) != len(g.SubTasks) {
			t.Fatalf("task %d: expected %d subtasks, got %d", i, len(w.SubTasks), len(g.SubTasks))
		}
		for j := range w.SubTasks {
			if w.SubTasks[j] != g.SubTasks[j] {
				t.Fatalf("task %d subtask %d: expected %+v, got %+v", i, j, w.SubTasks[j], g.SubTasks[j])
			}
		}
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/pomo.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTasks(sampleTasks()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migrations do not run twice.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	tasks, err := s2.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	assertTasksEqual(t, sampleTasks(), tasks)
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)
	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestLoadTasksEmpty(t *testing.T) {
	s := newTestStore(t)
	tasks, err := s.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if tasks != nil {
		t.Fatalf("expected nil slice, got %d items", len(tasks))
	}
}

func TestTasksRoundTrip(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveTasks(sampleTasks()); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	assertTasksEqual(t, sampleTasks(), got)
}

func TestSaveTasksReplacesList(t *testing.T) {
	s := newTestStore(t)
	s.SaveTasks(sampleTasks())
	only := sampleTasks()[1:]
	if err := s.SaveTasks(only); err != nil {
		t.Fatal(err)
	}
	got, _ := s.LoadTasks()
	assertTasksEqual(t, only, got)

	var subs int
	s.db.QueryRow(`SELECT COUNT(*) FROM subtasks`).Scan(&subs)
	if subs != 0 {
		t.Fatalf("subtasks of removed tasks should cascade, found %d", subs)
	}
}

func TestSaveTasksRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	s.SaveTasks(sampleTasks())
	dup := []pomo.Task{{ID: "x", Title: "a", Estimated: 1}, {ID: "x", Title: "b", Estimated: 1}}
	if err := s.SaveTasks(dup); err == nil {
		t.Fatal("duplicate ids should fail")
	}
	got, _ := s.LoadTasks()
	assertTasksEqual(t, sampleTasks(), got)
}

func TestPropertyTasksRoundTrip(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(rt, "n")
		tasks := make([]pomo.Task, n)
		for i := range tasks {
			subs := rapid.IntRange(0, 3).Draw(rt, "subs")
			tasks[i] = pomo.Task{
				ID:        fmt.Sprintf("task-%d", i),
				Title:     rapid.StringN(1, 20, -1).Draw(rt, "title"),
				Project:   rapid.String().Draw(rt, "project"),
				Estimated: rapid.IntRange(1, 10).Draw(rt, "est"),
				Done:      rapid.IntRange(0, 12).Draw(rt, "done"),
				Completed: rapid.Bool().Draw(rt, "completed"),
				CreatedAt: base.Add(time.Duration(rapid.Int64Range(0, 1e12).Draw(rt, "ms")) * time.Millisecond),
				SubTasks:  []pomo.SubTask{},
			}
			for j := 0; j < subs; j++ {
				tasks[i].SubTasks = append(tasks[i].SubTasks, pomo.SubTask{
					ID:        fmt.Sprintf("sub-%d", j),
					Title:     rapid.StringN(1, 10, -1).Draw(rt, "sub"),
					Completed: rapid.Bool().Draw(rt, "subdone"),
				})
			}
		}
		if err := s.SaveTasks(tasks); err != nil {
			rt.Fatal(err)
		}
		got, err := s.LoadTasks()
		if err != nil {
			rt.Fatal(err)
		}
		if len(got) != len(tasks) {
			rt.Fatalf("expected %d tasks, got %d", len(tasks), len(got))
		}
		for i := range tasks {
			if got[i].ID != tasks[i].ID || got[i].Title != tasks[i].Title || got[i].Done != tasks[i].Done ||
				!got[i].CreatedAt.Equal(tasks[i].CreatedAt) || len(got[i].SubTasks) != len(tasks[i].SubTasks) {
				rt.Fatalf("task %d mismatch: %+v vs %+v", i, tasks[i], got[i])
			}
		}
	})
}

// ============================================================
// Sessions
// ============================================================

func TestSessionsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	now := ms(time.Now())
	sessions := []pomo.FocusSession{
		{Timestamp: now.Add(-time.Hour), Duration: 25, Interruptions: 2},
		{Timestamp: now, Duration: 50},
		{Timestamp: now.Add(-48 * time.Hour), Duration: 25, Interruptions: 1},
	}
	if err := s.SaveSessions(sessions); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(got))
	}
	for i := range sessions {
		if !got[i].Timestamp.Equal(sessions[i].Timestamp) || got[i].Duration != sessions[i].Duration ||
			got[i].Interruptions != sessions[i].Interruptions {
			t.Fatalf("session %d: expected %+v, got %+v", i, sessions[i], got[i])
		}
	}

	if err := s.SaveSessions(sessions[:1]); err != nil {
		t.Fatal(err)
	}
	got, _ = s.LoadSessions()
	if len(got) != 1 {
		t.Fatal("save should replace the log")
	}
}

func TestGetSessionStats(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	s.SaveSessions([]pomo.FocusSession{
		{Timestamp: day.Add(9 * time.Hour), Duration: 25, Interruptions: 1},
		{Timestamp: day.Add(10 * time.Hour), Duration: 25, Interruptions: 2},
		{Timestamp: day.Add(-time.Hour), Duration: 25},
	})
	st, err := s.GetSessionStats(day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if st.Count != 2 || st.Minutes != 50 || st.Interruptions != 3 {
		t.Fatalf("unexpected stats %+v", st)
	}

	empty, _ := s.GetSessionStats(day.AddDate(0, 0, 5), day.AddDate(0, 0, 6))
	if empty.Count != 0 || empty.Minutes != 0 {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

// ============================================================
// Templates
// ============================================================

func TestTemplatesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	templates := []pomo.Template{
		{ID: "u1", Name: "Evening", Tasks: []pomo.Blueprint{
			{Title: "Read", Estimated: 1, Project: "Home"},
			{Title: "Plan", Estimated: 2, Notes: "tomorrow"},
		}},
		{ID: "u2", Name: "Sprint", Tasks: []pomo.Blueprint{{Title: "Code", Estimated: 4}}},
		pomo.BuiltInTemplates()[0],
	}
	if err := s.SaveTemplates(templates); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadTemplates()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("built-ins must not be stored, got %d templates", len(got))
	}
	for i := 0; i < 2; i++ {
		if got[i].ID != templates[i].ID || got[i].Name != templates[i].Name {
			t.Fatalf("template %d mismatch: %+v", i, got[i])
		}
		if len(got[i].Tasks) != len(templates[i].Tasks) {
			t.Fatalf("template %d: expected %d blueprints, got %d", i, len(templates[i].Tasks), len(got[i].Tasks))
		}
		for j := range templates[i].Tasks {
			if got[i].Tasks[j] != templates[i].Tasks[j] {
				t.Fatalf("blueprint %d/%d mismatch", i, j)
			}
		}
	}
}

func TestSaveTemplatesDeletesBlueprints(t *testing.T) {
	s := newTestStore(t)
	s.SaveTemplates([]pomo.Template{{ID: "u1", Name: "A", Tasks: []pomo.Blueprint{{Title: "x", Estimated: 1}}}})
	s.SaveTemplates(nil)

	var n int
	s.db.QueryRow(`SELECT COUNT(*) FROM template_tasks`).Scan(&n)
	if n != 0 {
		t.Fatalf("blueprints should cascade, found %d", n)
	}
	got, _ := s.LoadTemplates()
	if got != nil {
		t.Fatal("expected no templates")
	}
}

// ============================================================
// Settings
// ============================================================

func TestLoadSettingsDefaults(t *testing.T) {
	s := newTestStore(t)
	got, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got != pomo.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := pomo.DefaultSettings()
	want.FocusMinutes = 50
	want.AutoStartBreaks = true
	want.AmbientSound = "rain"
	want.Volume = 0.75
	want.StrictMode = true
	if err := s.SaveSettings(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestLoadSettingsMergesPartialRows(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("focus_minutes", "45")
	s.SetSetting("daily_goal", "not-a-number")
	s.SetSetting("volume", "3")
	s.SetSetting("legacy_key", "ignored")

	got, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	want := pomo.DefaultSettings()
	want.FocusMinutes = 45
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestApplySetting(t *testing.T) {
	settings := pomo.DefaultSettings()
	if err := ApplySetting(&settings, "strict_mode", "true"); err != nil {
		t.Fatal(err)
	}
	if !settings.StrictMode {
		t.Fatal("strict_mode should be set")
	}
	if err := ApplySetting(&settings, "focus_minutes", "0"); !errors.Is(err, pomo.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if err := ApplySetting(&settings, "volume", "loud"); !errors.Is(err, pomo.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if err := ApplySetting(&settings, "color", "red"); !errors.Is(err, pomo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if settings.FocusMinutes != 25 {
		t.Fatal("failed apply must not change settings")
	}
}

func TestEncodeSettingsCoversEveryKey(t *testing.T) {
	rows := EncodeSettings(pomo.DefaultSettings())
	keys := SettingKeys()
	if len(rows) != len(keys) {
		t.Fatalf("expected %d rows, got %d", len(keys), len(rows))
	}
	for i, r := range rows {
		if r.Key != keys[i] {
			t.Fatalf("row %d: expected key %s, got %s", i, keys[i], r.Key)
		}
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("alarm_sound", "bell"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSetting("alarm_sound", "bird"); err != nil {
		t.Fatal(err)
	}
	val, err := s.GetSetting("alarm_sound")
	if err != nil {
		t.Fatal(err)
	}
	if val != "bird" {
		t.Fatalf("expected bird, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if !errors.Is(err, pomo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	s.SaveSettings(pomo.DefaultSettings())
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != len(SettingKeys()) {
		t.Fatalf("expected %d settings, got %d", len(SettingKeys()), len(settings))
	}
	for i := 1; i < len(settings); i++ {
		if settings[i].Key < settings[i-1].Key {
			t.Fatal("settings should be sorted by key")
		}
	}
}

// ============================================================
// Session wiring
// ============================================================

func TestSessionPersistsThroughStore(t *testing.T) {
	s := newTestStore(t)
	sess := pomo.Open(s)
	if _, err := sess.AddTask("Write", 1, "", "", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Skip(); err != nil {
		t.Fatal(err)
	}

	reopened := pomo.Open(s)
	tasks := reopened.Tasks()
	if len(tasks) != 1 || tasks[0].Done != 1 || !tasks[0].Completed {
		t.Fatalf("task progress should survive reopen: %+v", tasks)
	}
	if len(reopened.FocusSessions()) != 1 {
		t.Fatal("session log should survive reopen")
	}
}

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadTasks(); err == nil {
		t.Fatal("expected error after close")
	}
}
