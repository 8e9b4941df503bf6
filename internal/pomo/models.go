package pomo

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalid    = errors.New("invalid input")
	ErrLocked     = errors.New("locked by strict mode")
	ErrNotAllowed = errors.New("not allowed in current state")
)

// Mode is the kind of interval the timer is counting down.
type Mode int

const (
	ModeFocus Mode = iota
	ModeShortBreak
	ModeLongBreak
)

var modeNames = map[Mode]string{
	ModeFocus:      "Focus",
	ModeShortBreak: "Short Break",
	ModeLongBreak:  "Long Break",
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "Unknown"
}

func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

type SubTask struct {
	ID        string
	Title     string
	Completed bool
}

type Task struct {
	ID        string
	Title     string
	Project   string
	Notes     string
	SubTasks  []SubTask
	Estimated int // focus intervals
	Done      int // completed focus intervals, may exceed Estimated
	Completed bool
	CreatedAt time.Time
}

// Remaining is the number of focus intervals still planned for t.
func (t Task) Remaining() int {
	if t.Completed || t.Done >= t.Estimated {
		return 0
	}
	return t.Estimated - t.Done
}

func (t Task) clone() Task {
	if t.SubTasks != nil {
		t.SubTasks = append([]SubTask(nil), t.SubTasks...)
	}
	return t
}

// Blueprint describes a task to stamp out from a template.
type Blueprint struct {
	Title     string
	Estimated int
	Project   string
	Notes     string
}

type Template struct {
	ID      string
	Name    string
	Tasks   []Blueprint
	BuiltIn bool
}

// FocusSession is one completed focus interval.
type FocusSession struct {
	Timestamp     time.Time
	Duration      int // minutes
	Interruptions int
}

// TaskPatch holds the fields UpdateTask may change. Nil fields are left alone.
type TaskPatch struct {
	Title     *string
	Project   *string
	Notes     *string
	Estimated *int
	SubTasks  []SubTask
}
