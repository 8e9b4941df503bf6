package pomo

import (
	"io"
	"log"
	"math/rand/v2"
	"time"
)

// Persister saves whole records. Each call rewrites one record only.
type Persister interface {
	SaveTasks(tasks []Task) error
	SaveSettings(s Settings) error
	SaveSessions(sessions []FocusSession) error
	SaveTemplates(user []Template) error
}

// Loader reads the four records at startup.
type Loader interface {
	LoadTasks() ([]Task, error)
	LoadSettings() (Settings, error)
	LoadSessions() ([]FocusSession, error)
	LoadTemplates() ([]Template, error)
}

// Store is a Persister that can also load.
type Store interface {
	Loader
	Persister
}

// Notifier plays sounds. Implementations must not block.
type Notifier interface {
	Alarm(soundID string, volume float64)
	Ambience(soundID string, volume float64, playing bool)
}

var quotes = []string{
	"Focus on being productive instead of busy.",
	"The secret of getting ahead is getting started.",
	"Your mind is for having ideas, not holding them.",
	"The only way to do great work is to love what you do.",
	"Don't watch the clock; do what it does. Keep going.",
	"Concentrate all your thoughts upon the work at hand.",
}

// Session owns the application state and persists every change.
type Session struct {
	settings  Settings
	tasks     *TaskStore
	templates *TemplateStore
	log       []FocusSession
	engine    *Engine

	store    Persister
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
	quote    string

	ambient bool
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Open loads every record from st. A record that fails to load is logged
// and replaced by its empty or default value.
func Open(st Store, opts ...Option) *Session {
	s := &Session{
		store:  st,
		logger: log.New(io.Discard, "", 0),
		now:    time.Now,
		quote:  quotes[rand.IntN(len(quotes))],
	}
	for _, o := range opts {
		o(s)
	}

	settings, err := st.LoadSettings()
	if err != nil {
		s.logger.Printf("load settings: %v", err)
		settings = DefaultSettings()
	}
	tasks, err := st.LoadTasks()
	if err != nil {
		s.logger.Printf("load tasks: %v", err)
	}
	sessions, err := st.LoadSessions()
	if err != nil {
		s.logger.Printf("load sessions: %v", err)
	}
	user, err := st.LoadTemplates()
	if err != nil {
		s.logger.Printf("load templates: %v", err)
	}

	s.settings = settings
	s.tasks = NewTaskStore(tasks, s.now)
	s.templates = NewTemplateStore(user)
	s.log = append([]FocusSession(nil), sessions...)
	s.engine = NewEngine(settings, s.now)
	return s
}

func (s *Session) Settings() Settings { return s.settings }
func (s *Session) Tasks() []Task { return s.tasks.All() }
func (s *Session) Templates() []Template { return s.templates.All() }
func (s *Session) FocusSessions() []FocusSession { return append([]FocusSession(nil), s.log...) }
func (s *Session) Engine() *Engine { return s.engine }
func (s *Session) SelectedTask() string { return s.tasks.Selected() }
func (s *Session) Now() time.Time { return s.now() }

func (s *Session) ActiveTask() (Task, bool) { return s.tasks.Active() }

// FocusLabel is the active task title during focus, else a motivational line.
func (s *Session) FocusLabel() string {
	if s.engine.Mode() == ModeFocus {
		if t, ok := s.tasks.Active(); ok {
			return t.Title
		}
	}
	return s.quote
}

func (s *Session) TaskStats() (completed, total int) { return s.tasks.Stats() }

func (s *Session) DailyProgress() string {
	return DailyProgress(s.log, s.settings.DailyGoal, s.now())
}

func (s *Session) Streak() int {
	return Streak(s.log, s.now())
}

func (s *Session) FinishEstimate() (time.Time, bool) {
	return FinishEstimate(s.tasks.All(), s.settings, s.now())
}

// ============================================================
// Tasks
// ============================================================

func (s *Session) AddTask(title string, estimated int, project, notes string, subtasks []SubTask) (Task, error) {
	t, err := s.tasks.Add(title, estimated, project, notes, subtasks)
	if err != nil {
		return t, err
	}
	s.saveTasks()
	return t, nil
}

func (s *Session) UpdateTask(id string, p TaskPatch) error {
	return s.mutateTasks(s.tasks.Update(id, p))
}

func (s *Session) ToggleComplete(id string) error {
	return s.mutateTasks(s.tasks.ToggleComplete(id))
}

func (s *Session) ToggleSubTask(taskID, subID string) error {
	return s.mutateTasks(s.tasks.ToggleSubTask(taskID, subID))
}

func (s *Session) DeleteTask(id string) error {
	return s.mutateTasks(s.tasks.Delete(id))
}

func (s *Session) MoveTask(index, dir int) error {
	return s.mutateTasks(s.tasks.Move(index, dir))
}

// SelectTask changes the explicit selection. Selection is not persisted.
func (s *Session) SelectTask(id string) error {
	return s.tasks.Select(id)
}

func (s *Session) mutateTasks(err error) error {
	if err != nil {
		return err
	}
	s.saveTasks()
	return nil
}

// ============================================================
// Templates
// ============================================================

func (s *Session) ApplyTemplate(id string) ([]Task, error) {
	tpl, ok := s.templates.Find(id)
	if !ok {
		return nil, ErrNotFound
	}
	created := s.tasks.AddBlueprints(tpl.Tasks)
	s.saveTasks()
	return created, nil
}

func (s *Session) SaveTemplate(name string) (Template, error) {
	tpl, err := s.templates.SaveFrom(name, s.tasks.All())
	if err != nil {
		return tpl, err
	}
	s.saveTemplates()
	return tpl, nil
}

func (s *Session) ImportTemplate(name string, bps []Blueprint) (Template, error) {
	tpl, err := s.templates.Import(name, bps)
	if err != nil {
		return tpl, err
	}
	s.saveTemplates()
	return tpl, nil
}

func (s *Session) DeleteTemplate(id string) error {
	if err := s.templates.Delete(id); err != nil {
		return err
	}
	s.saveTemplates()
	return nil
}

// ============================================================
// Settings
// ============================================================

func (s *Session) UpdateSettings(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.settings = next
	s.engine.SetSettings(next)
	s.syncAmbience()
	if err := s.store.SaveSettings(next); err != nil {
		s.logger.Printf("save settings: %v", err)
	}
	return nil
}

// ============================================================
// Timer
// ============================================================

func (s *Session) SetMode(m Mode) {
	s.engine.SetMode(m)
	s.syncAmbience()
}

func (s *Session) Toggle() error {
	if err := s.engine.Toggle(); err != nil {
		return err
	}
	s.syncAmbience()
	return nil
}

func (s *Session) Reset() error {
	if err := s.engine.Reset(); err != nil {
		return err
	}
	s.syncAmbience()
	return nil
}

func (s *Session) Skip() (*Completion, error) {
	c, err := s.engine.Skip()
	if err != nil {
		return nil, err
	}
	s.handleCompletion(c)
	return c, nil
}

// Tick advances the timer by one second.
func (s *Session) Tick() *Completion {
	c := s.engine.Tick()
	if c != nil {
		s.handleCompletion(c)
	}
	return c
}

func (s *Session) LogInterruption() error { return s.engine.LogInterruption() }

func (s *Session) ExtendBreak() error { return s.engine.ExtendBreak() }

func (s *Session) handleCompletion(c *Completion) {
	if s.notifier != nil {
		s.notifier.Alarm(s.settings.AlarmSound, s.settings.Volume)
	}
	if c.Session != nil {
		s.log = append(s.log, *c.Session)
		if err := s.store.SaveSessions(s.log); err != nil {
			s.logger.Printf("save sessions: %v", err)
		}
		if t, ok := s.tasks.Active(); ok {
			if s.tasks.RecordIntervalCompletion(t.ID, s.settings.AutoDeleteDone) {
				s.saveTasks()
			}
		}
	}
	s.syncAmbience()
}

// syncAmbience keeps background sound playing only while a focus interval runs.
func (s *Session) syncAmbience() {
	want := s.engine.Running() && s.engine.Mode() == ModeFocus
	if want == s.ambient && !want {
		return
	}
	s.ambient = want
	if s.notifier != nil {
		s.notifier.Ambience(s.settings.AmbientSound, s.settings.Volume*0.3, want)
	}
}

func (s *Session) saveTasks() {
	if err := s.store.SaveTasks(s.tasks.All()); err != nil {
		s.logger.Printf("save tasks: %v", err)
	}
}

func (s *Session) saveTemplates() {
	if err := s.store.SaveTemplates(s.templates.User()); err != nil {
		s.logger.Printf("save templates: %v", err)
	}
}
