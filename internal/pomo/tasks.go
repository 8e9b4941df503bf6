package pomo

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStore is the ordered task list with an optional explicit selection.
type TaskStore struct {
	tasks    []Task
	selected string

	now   func() time.Time
	newID func() string
}

func NewTaskStore(tasks []Task, now func() time.Time) *TaskStore {
	if now == nil {
		now = time.Now
	}
	ts := &TaskStore{now: now, newID: uuid.NewString}
	for _, t := range tasks {
		ts.tasks = append(ts.tasks, t.clone())
	}
	return ts
}

// All returns a copy of the tasks in store order.
func (ts *TaskStore) All() []Task {
	out := make([]Task, len(ts.tasks))
	for i, t := range ts.tasks {
		out[i] = t.clone()
	}
	return out
}

func (ts *TaskStore) Len() int { return len(ts.tasks) }

func (ts *TaskStore) Get(id string) (Task, bool) {
	i := ts.index(id)
	if i < 0 {
		return Task{}, false
	}
	return ts.tasks[i].clone(), true
}

func (ts *TaskStore) index(id string) int {
	for i := range ts.tasks {
		if ts.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a new task built from the given fields. Subtasks without an
// ID get a fresh one.
func (ts *TaskStore) Add(title string, estimated int, project, notes string, subtasks []SubTask) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, fmt.Errorf("empty title: %w", ErrInvalid)
	}
	if estimated <= 0 {
		return Task{}, fmt.Errorf("estimate %d: %w", estimated, ErrInvalid)
	}
	t := Task{
		ID:        ts.newID(),
		Title:     title,
		Project:   project,
		Notes:     notes,
		SubTasks:  ts.stampSubTasks(subtasks),
		Estimated: estimated,
		CreatedAt: ts.now(),
	}
	ts.tasks = append(ts.tasks, t)
	return t.clone(), nil
}

func (ts *TaskStore) stampSubTasks(in []SubTask) []SubTask {
	out := make([]SubTask, 0, len(in))
	for _, st := range in {
		if strings.TrimSpace(st.Title) == "" {
			continue
		}
		if st.ID == "" {
			st.ID = ts.newID()
		}
		out = append(out, st)
	}
	return out
}

// AddBlueprints appends one fresh task per blueprint, in order.
func (ts *TaskStore) AddBlueprints(bps []Blueprint) []Task {
	created := make([]Task, 0, len(bps))
	now := ts.now()
	for _, bp := range bps {
		est := bp.Estimated
		if est <= 0 {
			est = 1
		}
		t := Task{
			ID:        ts.newID(),
			Title:     bp.Title,
			Project:   bp.Project,
			Notes:     bp.Notes,
			SubTasks:  []SubTask{},
			Estimated: est,
			CreatedAt: now,
		}
		ts.tasks = append(ts.tasks, t)
		created = append(created, t.clone())
	}
	return created
}

func (ts *TaskStore) Update(id string, p TaskPatch) error {
	i := ts.index(id)
	if i < 0 {
		return ErrNotFound
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("empty title: %w", ErrInvalid)
	}
	if p.Estimated != nil && *p.Estimated <= 0 {
		return fmt.Errorf("estimate %d: %w", *p.Estimated, ErrInvalid)
	}

	t := &ts.tasks[i]
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Project != nil {
		t.Project = *p.Project
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Estimated != nil {
		t.Estimated = *p.Estimated
	}
	if p.SubTasks != nil {
		t.SubTasks = ts.stampSubTasks(p.SubTasks)
	}
	return nil
}

func (ts *TaskStore) ToggleComplete(id string) error {
	i := ts.index(id)
	if i < 0 {
		return ErrNotFound
	}
	ts.tasks[i].Completed = !ts.tasks[i].Completed
	return nil
}

func (ts *TaskStore) ToggleSubTask(taskID, subID string) error {
	i := ts.index(taskID)
	if i < 0 {
		return ErrNotFound
	}
	for j := range ts.tasks[i].SubTasks {
		if ts.tasks[i].SubTasks[j].ID == subID {
			ts.tasks[i].SubTasks[j].Completed = !ts.tasks[i].SubTasks[j].Completed
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the task and its subtasks, clearing the selection if it
// pointed at the task.
func (ts *TaskStore) Delete(id string) error {
	i := ts.index(id)
	if i < 0 {
		return ErrNotFound
	}
	ts.tasks = append(ts.tasks[:i], ts.tasks[i+1:]...)
	if ts.selected == id {
		ts.selected = ""
	}
	return nil
}

// Move swaps the task at index with its neighbour. dir < 0 moves it up.
func (ts *TaskStore) Move(index, dir int) error {
	target := index + 1
	if dir < 0 {
		target = index - 1
	}
	if index < 0 || index >= len(ts.tasks) || target < 0 || target >= len(ts.tasks) {
		return ErrNotAllowed
	}
	ts.tasks[index], ts.tasks[target] = ts.tasks[target], ts.tasks[index]
	return nil
}

// Select marks id as the explicitly chosen task. Completed tasks cannot be
// selected.
func (ts *TaskStore) Select(id string) error {
	i := ts.index(id)
	if i < 0 {
		return ErrNotFound
	}
	if ts.tasks[i].Completed {
		return ErrNotAllowed
	}
	ts.selected = id
	return nil
}

func (ts *TaskStore) Selected() string { return ts.selected }

// Active returns the task credited when a focus interval completes: the
// selection if it still exists and is open, else the first open task.
func (ts *TaskStore) Active() (Task, bool) {
	if i := ts.index(ts.selected); i >= 0 && !ts.tasks[i].Completed {
		return ts.tasks[i].clone(), true
	}
	for _, t := range ts.tasks {
		if !t.Completed {
			return t.clone(), true
		}
	}
	return Task{}, false
}

// RecordIntervalCompletion credits one focus interval to the task with id.
// When autoDelete is set, every completed task is removed afterwards. It
// reports whether the task list changed.
func (ts *TaskStore) RecordIntervalCompletion(id string, autoDelete bool) bool {
	changed := false
	if i := ts.index(id); i >= 0 {
		t := &ts.tasks[i]
		t.Done++
		if t.Done >= t.Estimated {
			t.Completed = true
		}
		changed = true
	}
	if autoDelete {
		kept := ts.tasks[:0]
		for _, t := range ts.tasks {
			if t.Completed {
				changed = true
				if ts.selected == t.ID {
					ts.selected = ""
				}
				continue
			}
			kept = append(kept, t)
		}
		ts.tasks = kept
	}
	return changed
}

// Stats returns the number of completed tasks and the total.
func (ts *TaskStore) Stats() (completed, total int) {
	for _, t := range ts.tasks {
		if t.Completed {
			completed++
		}
	}
	return completed, len(ts.tasks)
}
