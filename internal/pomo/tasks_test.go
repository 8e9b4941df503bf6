package pomo

import (
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func newTestTaskStore() *TaskStore {
	ts := NewTaskStore(nil, clock)
	n := 0
	ts.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return ts
}

func mustAdd(t *testing.T, ts *TaskStore, title string, est int) Task {
	t.Helper()
	task, err := ts.Add(title, est, "", "", nil)
	if err != nil {
		t.Fatalf("add %q: %v", title, err)
	}
	return task
}

// ============================================================
// Add / update
// ============================================================

func TestAddTask(t *testing.T) {
	ts := newTestTaskStore()
	task, err := ts.Add("  Write report ", 3, "Work", "draft first", []SubTask{{Title: "outline"}, {Title: " "}})
	if err != nil {
		t.Fatal(err)
	}
	if task.Title != "Write report" || task.Estimated != 3 || task.Project != "Work" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Done != 0 || task.Completed {
		t.Fatal("new task should have no progress")
	}
	if !task.CreatedAt.Equal(fixedNow) {
		t.Fatal("CreatedAt should come from the clock")
	}
	if len(task.SubTasks) != 1 || task.SubTasks[0].ID == "" {
		t.Fatalf("expected one stamped subtask, got %+v", task.SubTasks)
	}
}

func TestAddTaskValidation(t *testing.T) {
	ts := newTestTaskStore()
	if _, err := ts.Add("", 1, "", "", nil); !errors.Is(err, ErrInvalid) {
		t.Fatal("empty title should be rejected")
	}
	if _, err := ts.Add("x", 0, "", "", nil); !errors.Is(err, ErrInvalid) {
		t.Fatal("zero estimate should be rejected")
	}
	if ts.Len() != 0 {
		t.Fatal("rejected adds must not change the store")
	}
}

func TestUpdateTask(t *testing.T) {
	ts := newTestTaskStore()
	task := mustAdd(t, ts, "A", 1)
	title, est := "B", 4
	if err := ts.Update(task.ID, TaskPatch{Title: &title, Estimated: &est}); err != nil {
		t.Fatal(err)
	}
	got, _ := ts.Get(task.ID)
	if got.Title != "B" || got.Estimated != 4 {
		t.Fatalf("update failed: %+v", got)
	}
	if err := ts.Update("missing", TaskPatch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatal("unknown id should be a lookup miss")
	}
	empty := ""
	if err := ts.Update(task.ID, TaskPatch{Title: &empty}); !errors.Is(err, ErrInvalid) {
		t.Fatal("empty title should be rejected")
	}
}

func TestToggleCompleteIndependentOfEffort(t *testing.T) {
	ts := newTestTaskStore()
	task := mustAdd(t, ts, "A", 3)
	ts.ToggleComplete(task.ID)
	got, _ := ts.Get(task.ID)
	if !got.Completed || got.Done != 0 {
		t.Fatal("toggle should only flip the flag")
	}
	ts.ToggleComplete(task.ID)
	got, _ = ts.Get(task.ID)
	if got.Completed {
		t.Fatal("second toggle should reopen")
	}
}

func TestToggleSubTask(t *testing.T) {
	ts := newTestTaskStore()
	task, _ := ts.Add("A", 1, "", "", []SubTask{{Title: "one"}, {Title: "two"}})
	sub := task.SubTasks[1].ID
	if err := ts.ToggleSubTask(task.ID, sub); err != nil {
		t.Fatal(err)
	}
	got, _ := ts.Get(task.ID)
	if !got.SubTasks[1].Completed || got.SubTasks[0].Completed {
		t.Fatal("only the targeted subtask should flip")
	}
	if got.Completed {
		t.Fatal("subtasks should not cascade to the parent")
	}
	if err := ts.ToggleSubTask(task.ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatal("unknown subtask should be a lookup miss")
	}
}

// ============================================================
// Delete / move / select
// ============================================================

func TestDeleteClearsSelection(t *testing.T) {
	ts := newTestTaskStore()
	a := mustAdd(t, ts, "A", 1)
	b := mustAdd(t, ts, "B", 1)
	ts.Select(b.ID)
	if err := ts.Delete(b.ID); err != nil {
		t.Fatal(err)
	}
	if ts.Selected() != "" {
		t.Fatal("selection should be cleared")
	}
	active, ok := ts.Active()
	if !ok || active.ID != a.ID {
		t.Fatal("active should fall back to the first open task")
	}
	if err := ts.Delete(b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("double delete should be a lookup miss")
	}
}

func TestMove(t *testing.T) {
	ts := newTestTaskStore()
	mustAdd(t, ts, "A", 1)
	mustAdd(t, ts, "B", 1)
	mustAdd(t, ts, "C", 1)

	ts.Move(0, 1)
	ts.Move(2, -1)
	var got string
	for _, task := range ts.All() {
		got += task.Title
	}
	if got != "BCA" {
		t.Fatalf("expected BCA, got %s", got)
	}
	if err := ts.Move(0, -1); !errors.Is(err, ErrNotAllowed) {
		t.Fatal("moving the first task up is a no-op")
	}
	if err := ts.Move(2, 1); !errors.Is(err, ErrNotAllowed) {
		t.Fatal("moving the last task down is a no-op")
	}
}

func TestPropertyMovePreservesTasks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ts := NewTaskStore(nil, clock)
		n := rapid.IntRange(1, 8).Draw(t, "n")
		ids := make(map[string]bool)
		for i := 0; i < n; i++ {
			task, _ := ts.Add(fmt.Sprintf("t%d", i), 1, "", "", nil)
			ids[task.ID] = true
		}
		moves := rapid.SliceOf(rapid.IntRange(0, n-1)).Draw(t, "moves")
		for i, idx := range moves {
			dir := 1
			if i%2 == 0 {
				dir = -1
			}
			ts.Move(idx, dir)
		}
		all := ts.All()
		if len(all) != n {
			t.Fatalf("expected %d tasks, got %d", n, len(all))
		}
		for _, task := range all {
			if !ids[task.ID] {
				t.Fatalf("unexpected task %s", task.ID)
			}
		}
	})
}

func TestActiveTaskPolicy(t *testing.T) {
	ts := newTestTaskStore()
	if _, ok := ts.Active(); ok {
		t.Fatal("empty store has no active task")
	}
	a := mustAdd(t, ts, "A", 1)
	b := mustAdd(t, ts, "B", 1)

	active, _ := ts.Active()
	if active.ID != a.ID {
		t.Fatal("first open task should be active")
	}
	ts.Select(b.ID)
	active, _ = ts.Active()
	if active.ID != b.ID {
		t.Fatal("explicit selection should win")
	}
	ts.ToggleComplete(b.ID)
	active, _ = ts.Active()
	if active.ID != a.ID {
		t.Fatal("completed selection should fall back")
	}
	if err := ts.Select(b.ID); !errors.Is(err, ErrNotAllowed) {
		t.Fatal("completed tasks cannot be selected")
	}
	ts.ToggleComplete(a.ID)
	if _, ok := ts.Active(); ok {
		t.Fatal("no open tasks means no active task")
	}
}

// ============================================================
// Interval completion
// ============================================================

func TestRecordIntervalCompletion(t *testing.T) {
	ts := newTestTaskStore()
	task := mustAdd(t, ts, "A", 2)

	ts.RecordIntervalCompletion(task.ID, false)
	got, _ := ts.Get(task.ID)
	if got.Done != 1 || got.Completed {
		t.Fatalf("after one interval: %+v", got)
	}
	ts.RecordIntervalCompletion(task.ID, false)
	got, _ = ts.Get(task.ID)
	if got.Done != 2 || !got.Completed {
		t.Fatalf("estimate reached should complete: %+v", got)
	}
	ts.RecordIntervalCompletion(task.ID, false)
	got, _ = ts.Get(task.ID)
	if got.Done != 3 || !got.Completed {
		t.Fatalf("overrun should keep counting and stay complete: %+v", got)
	}
}

func TestRecordIntervalCompletionUnknownID(t *testing.T) {
	ts := newTestTaskStore()
	mustAdd(t, ts, "A", 1)
	if ts.RecordIntervalCompletion("missing", false) {
		t.Fatal("unknown id should leave the store unchanged")
	}
}

func TestRecordIntervalCompletionAutoDelete(t *testing.T) {
	ts := newTestTaskStore()
	a := mustAdd(t, ts, "A", 1)
	b := mustAdd(t, ts, "B", 3)
	c := mustAdd(t, ts, "C", 1)
	ts.ToggleComplete(c.ID)

	ts.RecordIntervalCompletion(a.ID, true)
	all := ts.All()
	if len(all) != 1 || all[0].ID != b.ID {
		t.Fatalf("expected only B to remain, got %+v", all)
	}
}
