package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sadopc/pomo/internal/pomo"
)

type settingField struct {
	key string
	get func(pomo.Settings) string
	set func(*pomo.Settings, string) error
}

func intField(key string, p func(*pomo.Settings) *int) settingField {
	return settingField{
		key: key,
		get: func(s pomo.Settings) string { return strconv.Itoa(*p(&s)) },
		set: func(s *pomo.Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*p(s) = n
			return nil
		},
	}
}

func boolField(key string, p func(*pomo.Settings) *bool) settingField {
	return settingField{
		key: key,
		get: func(s pomo.Settings) string { return strconv.FormatBool(*p(&s)) },
		set: func(s *pomo.Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			*p(s) = b
			return nil
		},
	}
}

func stringField(key string, p func(*pomo.Settings) *string) settingField {
	return settingField{
		key: key,
		get: func(s pomo.Settings) string { return *p(&s) },
		set: func(s *pomo.Settings, v string) error {
			*p(s) = v
			return nil
		},
	}
}

var settingFields = []settingField{
	intField("focus_minutes", func(s *pomo.Settings) *int { return &s.FocusMinutes }),
	intField("short_break_minutes", func(s *pomo.Settings) *int { return &s.ShortBreakMinutes }),
	intField("long_break_minutes", func(s *pomo.Settings) *int { return &s.LongBreakMinutes }),
	intField("long_break_interval", func(s *pomo.Settings) *int { return &s.LongBreakInterval }),
	boolField("auto_start_breaks", func(s *pomo.Settings) *bool { return &s.AutoStartBreaks }),
	boolField("auto_start_pomodoros", func(s *pomo.Settings) *bool { return &s.AutoStartPomodoros }),
	stringField("alarm_sound", func(s *pomo.Settings) *string { return &s.AlarmSound }),
	stringField("ambient_sound", func(s *pomo.Settings) *string { return &s.AmbientSound }),
	{
		key: "volume",
		get: func(s pomo.Settings) string { return strconv.FormatFloat(s.Volume, 'f', -1, 64) },
		set: func(s *pomo.Settings, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			s.Volume = f
			return nil
		},
	},
	intField("daily_goal", func(s *pomo.Settings) *int { return &s.DailyGoal }),
	boolField("strict_mode", func(s *pomo.Settings) *bool { return &s.StrictMode }),
	boolField("auto_delete_done", func(s *pomo.Settings) *bool { return &s.AutoDeleteDone }),
}

// SettingKeys lists the stored setting keys in display order.
func SettingKeys() []string {
	keys := make([]string, len(settingFields))
	for i, f := range settingFields {
		keys[i] = f.key
	}
	return keys
}

// EncodeSettings flattens s into key/value rows.
func EncodeSettings(s pomo.Settings) []Setting {
	out := make([]Setting, len(settingFields))
	for i, f := range settingFields {
		out[i] = Setting{Key: f.key, Value: f.get(s)}
	}
	return out
}

// ApplySetting parses value into the field named key and validates the result.
// s is left unchanged on error.
func ApplySetting(s *pomo.Settings, key, value string) error {
	for _, f := range settingFields {
		if f.key != key {
			continue
		}
		next := *s
		if err := f.set(&next, value); err != nil {
			return fmt.Errorf("parse %s=%q: %w", key, value, pomo.ErrInvalid)
		}
		if err := next.Validate(); err != nil {
			return err
		}
		*s = next
		return nil
	}
	return fmt.Errorf("unknown setting %q: %w", key, pomo.ErrNotFound)
}

// LoadSettings merges the stored rows over the defaults key by key. A value
// that does not parse keeps the default for that key.
func (s *Store) LoadSettings() (pomo.Settings, error) {
	settings := pomo.DefaultSettings()
	rows, err := s.GetAllSettings()
	if err != nil {
		return settings, err
	}
	stored := make(map[string]string, len(rows))
	for _, r := range rows {
		stored[r.Key] = r.Value
	}
	for _, f := range settingFields {
		v, ok := stored[f.key]
		if !ok {
			continue
		}
		next := settings
		if err := f.set(&next, v); err != nil {
			continue
		}
		if next.Validate() == nil {
			settings = next
		}
	}
	return settings, nil
}

// SaveSettings writes every field of settings.
func (s *Store) SaveSettings(settings pomo.Settings) error {
	return s.withTx(func(tx *sql.Tx) error {
		for _, kv := range EncodeSettings(settings) {
			if err := setSetting(tx, kv.Key, kv.Value); err != nil {
				return fmt.Errorf("save setting %q: %w", kv.Key, err)
			}
		}
		return nil
	})
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get setting %q: %w", key, pomo.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	return setSetting(s.db, key, value)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setSetting(db execer, key, value string) error {
	_, err := db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
