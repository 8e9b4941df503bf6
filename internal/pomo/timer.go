package pomo

import (
	"fmt"
	"time"
)

// ExtendBreakSeconds is added to the remaining time by ExtendBreak.
const ExtendBreakSeconds = 120

// Completion describes an interval that ended, either naturally or by Skip.
type Completion struct {
	Mode        Mode
	Next        Mode
	Session     *FocusSession // set only when Mode is ModeFocus
	AutoStarted bool
}

// Engine is the countdown state machine. It never reads the wall clock
// except to stamp FocusSessions; time advances only through Tick.
type Engine struct {
	settings Settings
	now      func() time.Time

	mode          Mode
	running       bool
	remaining     int // seconds
	interruptions int
	cycles        int // focus intervals completed since start

	gen uint64
}

func NewEngine(s Settings, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	e := &Engine{settings: s, now: now}
	e.SetMode(ModeFocus)
	return e
}

func (e *Engine) Mode() Mode { return e.mode }
func (e *Engine) Running() bool { return e.running }
func (e *Engine) Remaining() int { return e.remaining }
func (e *Engine) Interruptions() int { return e.interruptions }
func (e *Engine) Cycles() int { return e.cycles }
func (e *Engine) Total() int { return e.settings.DurationSeconds(e.mode) }
func (e *Engine) Generation() uint64 { return e.gen }
func (e *Engine) Settings() Settings { return e.settings }

// Locked reports whether strict mode currently blocks pause, reset and skip.
func (e *Engine) Locked() bool {
	return e.strictFocus() && e.running
}

func (e *Engine) strictFocus() bool {
	return e.settings.StrictMode && e.mode == ModeFocus
}

// Progress is the elapsed fraction of the configured interval, clamped to [0,1].
func (e *Engine) Progress() float64 {
	total := e.Total()
	if total <= 0 {
		return 1
	}
	p := float64(total-e.remaining) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Display formats the remaining time as MM:SS.
func (e *Engine) Display() string {
	return FormatClock(e.remaining)
}

func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// SetMode switches to m, stops the countdown and starts a fresh interval.
func (e *Engine) SetMode(m Mode) {
	e.mode = m
	e.running = false
	e.remaining = e.settings.DurationSeconds(m)
	e.interruptions = 0
	e.gen++
}

// SetSettings replaces the settings the engine reads. An idle engine whose
// interval length changed starts over with the new length. A running interval
// keeps its remaining time; if that exceeds the new length, Progress reports 0
// until the countdown drops below it.
func (e *Engine) SetSettings(s Settings) {
	old := e.settings.DurationSeconds(e.mode)
	e.settings = s
	if !e.running && s.DurationSeconds(e.mode) != old {
		e.SetMode(e.mode)
	}
}

func (e *Engine) Toggle() error {
	if e.Locked() {
		return ErrLocked
	}
	e.running = !e.running
	e.gen++
	return nil
}

func (e *Engine) Reset() error {
	if e.strictFocus() {
		return ErrLocked
	}
	e.running = false
	e.remaining = e.Total()
	e.interruptions = 0
	e.gen++
	return nil
}

// Tick advances the countdown by one second. It returns a Completion when
// the remaining time reaches zero.
func (e *Engine) Tick() *Completion {
	if !e.running || e.remaining <= 0 {
		return nil
	}
	e.remaining--
	if e.remaining > 0 {
		return nil
	}
	e.running = false
	return e.complete()
}

// Skip ends the current interval early as if it had run out.
func (e *Engine) Skip() (*Completion, error) {
	if e.strictFocus() {
		return nil, ErrLocked
	}
	e.running = false
	return e.complete(), nil
}

func (e *Engine) LogInterruption() error {
	if !e.running {
		return ErrNotAllowed
	}
	e.interruptions++
	return nil
}

func (e *Engine) ExtendBreak() error {
	if !e.mode.IsBreak() {
		return ErrNotAllowed
	}
	e.remaining += ExtendBreakSeconds
	return nil
}

func (e *Engine) complete() *Completion {
	c := &Completion{Mode: e.mode}
	if e.mode == ModeFocus {
		c.Session = &FocusSession{
			Timestamp:     e.now(),
			Duration:      e.settings.FocusMinutes,
			Interruptions: e.interruptions,
		}
		e.cycles++
	}
	c.Next = nextMode(e.mode)
	e.SetMode(c.Next)

	if (c.Next.IsBreak() && e.settings.AutoStartBreaks) ||
		(c.Next == ModeFocus && e.settings.AutoStartPomodoros) {
		e.running = true
		e.gen++
		c.AutoStarted = true
	}
	return c
}

// nextMode always follows a focus interval with a short break; the long
// break interval setting is not consulted.
func nextMode(m Mode) Mode {
	if m == ModeFocus {
		return ModeShortBreak
	}
	return ModeFocus
}
