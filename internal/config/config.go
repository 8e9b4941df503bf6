// Package config loads the application configuration for pomo: where the
// database and log file live and how sounds are played. User preferences such
// as durations are not configuration; they are stored in the database.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	DBPath  string `mapstructure:"db_path"`
	LogFile string `mapstructure:"log_file"`
	// Player is the command used to play a sound URL, e.g. "mpv --no-video".
	// Empty means sounds are not played.
	Player string `mapstructure:"player"`
	// Bell rings the terminal bell when the alarm cannot be played.
	Bell bool `mapstructure:"bell"`
}

// Dir returns ~/.config/pomo.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pomo"), nil
}

// Load reads config.yaml from path, or from the default config directory
// when path is empty. A missing file yields the defaults. Values can be
// overridden with POMO_* environment variables.
func Load(path string) (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault("db_path", filepath.Join(dir, "pomo.db"))
	v.SetDefault("log_file", "")
	v.SetDefault("player", "")
	v.SetDefault("bell", true)

	v.SetEnvPrefix("POMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if os.Getenv("POMO_DEBUG") != "" && cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(dir, "debug.log")
	}
	return cfg, nil
}
