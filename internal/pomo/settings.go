package pomo

import "fmt"

type Settings struct {
	FocusMinutes       int
	ShortBreakMinutes  int
	LongBreakMinutes   int
	LongBreakInterval  int
	AutoStartBreaks    bool
	AutoStartPomodoros bool
	AlarmSound         string
	AmbientSound       string
	Volume             float64
	DailyGoal          int
	StrictMode         bool
	AutoDeleteDone     bool
}

func DefaultSettings() Settings {
	return Settings{
		FocusMinutes:       25,
		ShortBreakMinutes:  5,
		LongBreakMinutes:   15,
		LongBreakInterval:  4,
		AutoStartBreaks:    false,
		AutoStartPomodoros: false,
		AlarmSound:         "digital",
		AmbientSound:       "none",
		Volume:             0.5,
		DailyGoal:          8,
		StrictMode:         false,
		AutoDeleteDone:     false,
	}
}

// Validate reports ErrInvalid for non-positive counts or a volume outside [0,1].
func (s Settings) Validate() error {
	checks := []struct {
		name string
		v    int
	}{
		{"focus duration", s.FocusMinutes},
		{"short break duration", s.ShortBreakMinutes},
		{"long break duration", s.LongBreakMinutes},
		{"long break interval", s.LongBreakInterval},
		{"daily goal", s.DailyGoal},
	}
	for _, c := range checks {
		if c.v <= 0 {
			return fmt.Errorf("%s must be positive: %w", c.name, ErrInvalid)
		}
	}
	if s.Volume < 0 || s.Volume > 1 {
		return fmt.Errorf("volume %.2f out of range: %w", s.Volume, ErrInvalid)
	}
	return nil
}

// DurationSeconds returns the configured length of an interval in mode m.
func (s Settings) DurationSeconds(m Mode) int {
	switch m {
	case ModeShortBreak:
		return s.ShortBreakMinutes * 60
	case ModeLongBreak:
		return s.LongBreakMinutes * 60
	default:
		return s.FocusMinutes * 60
	}
}
