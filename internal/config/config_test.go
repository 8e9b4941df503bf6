package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cfg.DBPath) != "pomo.db" {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.Player != "" || !cfg.Bell {
		t.Fatalf("unexpected sound defaults %+v", cfg)
	}
	if cfg.LogFile != "" {
		t.Fatal("logging should be off by default")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "db_path: /tmp/custom.db\nplayer: mpv --no-video\nbell: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/custom.db" || cfg.Player != "mpv --no-video" || cfg.Bell {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.DBPath == "" {
		t.Fatal("expected default db path")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("db_path: [unclosed\n"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("POMO_PLAYER", "afplay")
	t.Setenv("POMO_DEBUG", "1")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Player != "afplay" {
		t.Fatalf("expected env player, got %q", cfg.Player)
	}
	if cfg.LogFile == "" {
		t.Fatal("POMO_DEBUG should enable a log file")
	}
}
