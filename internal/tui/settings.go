package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/pomo"
	"github.com/sadopc/pomo/internal/sound"
)

// settingsForm holds the editable values. Numbers are edited as text and
// parsed on submit.
type settingsForm struct {
	focus, shortBreak, longBreak, interval string
	volume, dailyGoal                      string
	alarm, ambience                        string
	autoBreaks, autoFocus                  bool
	strict, autoDelete                     bool
}

func newSettingsForm(s pomo.Settings) *settingsForm {
	return &settingsForm{
		focus:      strconv.Itoa(s.FocusMinutes),
		shortBreak: strconv.Itoa(s.ShortBreakMinutes),
		longBreak:  strconv.Itoa(s.LongBreakMinutes),
		interval:   strconv.Itoa(s.LongBreakInterval),
		volume:     strconv.Itoa(int(s.Volume*100 + 0.5)),
		dailyGoal:  strconv.Itoa(s.DailyGoal),
		alarm:      s.AlarmSound,
		ambience:   s.AmbientSound,
		autoBreaks: s.AutoStartBreaks,
		autoFocus:  s.AutoStartPomodoros,
		strict:     s.StrictMode,
		autoDelete: s.AutoDeleteDone,
	}
}

// apply parses the form over base. Range checks are left to Validate.
func (f *settingsForm) apply(base pomo.Settings) (pomo.Settings, error) {
	ints := []struct {
		label string
		text  string
		dst   *int
	}{
		{"focus duration", f.focus, &base.FocusMinutes},
		{"short break", f.shortBreak, &base.ShortBreakMinutes},
		{"long break", f.longBreak, &base.LongBreakMinutes},
		{"long break interval", f.interval, &base.LongBreakInterval},
		{"daily goal", f.dailyGoal, &base.DailyGoal},
	}
	for _, field := range ints {
		n, err := strconv.Atoi(strings.TrimSpace(field.text))
		if err != nil {
			return base, fmt.Errorf("%s %q: %w", field.label, field.text, pomo.ErrInvalid)
		}
		*field.dst = n
	}
	vol, err := strconv.Atoi(strings.TrimSpace(f.volume))
	if err != nil {
		return base, fmt.Errorf("volume %q: %w", f.volume, pomo.ErrInvalid)
	}
	base.Volume = float64(vol) / 100
	base.AlarmSound = f.alarm
	base.AmbientSound = f.ambience
	base.AutoStartBreaks = f.autoBreaks
	base.AutoStartPomodoros = f.autoFocus
	base.StrictMode = f.strict
	base.AutoDeleteDone = f.autoDelete
	return base, nil
}

type settingsModel struct {
	session *pomo.Session
	width   int
	height  int

	formActive bool
	form       *huh.Form
	values     *settingsForm
}

func newSettingsModel(s *pomo.Session) settingsModel {
	return settingsModel{session: s}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func soundOptions(list []sound.Sound) []huh.Option[string] {
	opts := make([]huh.Option[string], len(list))
	for i, snd := range list {
		opts[i] = huh.NewOption(snd.Name, snd.ID)
	}
	return opts
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	v := newSettingsForm(s.session.Settings())
	s.values = v

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(&v.focus).Validate(requirePositive),
			huh.NewInput().Title("Short break (min)").Value(&v.shortBreak).Validate(requirePositive),
			huh.NewInput().Title("Long break (min)").Value(&v.longBreak).Validate(requirePositive),
			huh.NewInput().Title("Pomodoros before long break").Value(&v.interval).Validate(requirePositive),
			huh.NewConfirm().Title("Auto-start breaks").Value(&v.autoBreaks),
			huh.NewConfirm().Title("Auto-start pomodoros").Value(&v.autoFocus),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Alarm").Options(soundOptions(sound.Alarms())...).Value(&v.alarm),
			huh.NewSelect[string]().Title("Ambience").Options(soundOptions(sound.Ambience())...).Value(&v.ambience),
			huh.NewInput().Title("Volume (%)").Value(&v.volume).Validate(validatePercent),
		).Title("Sound"),
		huh.NewGroup(
			huh.NewInput().Title("Daily goal (pomodoros)").Value(&v.dailyGoal).Validate(requirePositive),
			huh.NewConfirm().Title("Strict mode").Description("No pausing or skipping a running focus").Value(&v.strict),
			huh.NewConfirm().Title("Remove finished tasks").Value(&v.autoDelete),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validatePercent(text string) error {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 || n > 100 {
		return fmt.Errorf("enter 0 to 100")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save()
	}
	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	next, err := s.values.apply(s.session.Settings())
	if err != nil {
		return errorCmd(err)
	}
	if err := s.session.UpdateSettings(next); err != nil {
		return errorCmd(err)
	}
	return statusCmd("Settings saved")
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	cfg := s.session.Settings()
	rows := []string{titleStyle.Render("Settings"), ""}
	for _, item := range settingRows(cfg) {
		label := lipgloss.NewStyle().Width(28).Render(item[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(item[1])))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRows(s pomo.Settings) [][2]string {
	return [][2]string{
		{"Focus", fmt.Sprintf("%d min", s.FocusMinutes)},
		{"Short break", fmt.Sprintf("%d min", s.ShortBreakMinutes)},
		{"Long break", fmt.Sprintf("%d min", s.LongBreakMinutes)},
		{"Long break every", fmt.Sprintf("%d pomodoros", s.LongBreakInterval)},
		{"Auto-start breaks", onOff(s.AutoStartBreaks)},
		{"Auto-start pomodoros", onOff(s.AutoStartPomodoros)},
		{"Alarm", soundName(sound.Alarms(), s.AlarmSound)},
		{"Ambience", soundName(sound.Ambience(), s.AmbientSound)},
		{"Volume", fmt.Sprintf("%.0f%%", s.Volume*100)},
		{"Daily goal", fmt.Sprintf("%d pomodoros", s.DailyGoal)},
		{"Strict mode", onOff(s.StrictMode)},
		{"Remove finished tasks", onOff(s.AutoDeleteDone)},
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func soundName(list []sound.Sound, id string) string {
	for _, snd := range list {
		if snd.ID == id {
			return snd.Name
		}
	}
	return id
}
