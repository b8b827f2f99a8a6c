package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("parse(embedded) failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded defaults = %+v, expected %+v", cfg, DefaultConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, expected nil", err)
	}
}

func TestLoadCustomPathOverridesPartially(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "timing:\n  enemy_step: 0s\n  player_trap_reveal: 1.5s\nstorage:\n  dsn: postgres://localhost/wappo\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Timing.EnemyStep != 0 {
		t.Errorf("EnemyStep = %v, expected 0", cfg.Timing.EnemyStep)
	}
	if cfg.Timing.PlayerTrapReveal != 1500*time.Millisecond {
		t.Errorf("PlayerTrapReveal = %v, expected 1.5s", cfg.Timing.PlayerTrapReveal)
	}
	// Untouched keys keep their defaults
	if cfg.Timing.EnemyTrapReveal != 100*time.Millisecond {
		t.Errorf("EnemyTrapReveal = %v, expected 100ms", cfg.Timing.EnemyTrapReveal)
	}
	if cfg.Storage.DSN != "postgres://localhost/wappo" {
		t.Errorf("DSN = %q", cfg.Storage.DSN)
	}
	if cfg.Server.SSHAddr != ":23234" {
		t.Errorf("SSHAddr = %q, expected :23234", cfg.Server.SSHAddr)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() should fail on a missing custom file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("timing: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}

	negative := filepath.Join(dir, "negative.yaml")
	if err := os.WriteFile(negative, []byte("timing:\n  enemy_step: -1s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(negative); err == nil || !strings.Contains(err.Error(), "enemy_step") {
		t.Errorf("Load() error = %v, expected a negative enemy_step error", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	// Nothing on disk: embedded defaults
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load() = %+v, expected defaults", cfg)
	}

	// ./configs/wappo.yaml
	local := filepath.Join(work, "configs", fileName)
	writeConfig(t, local, "log:\n  level: debug\n")
	if cfg, _ := Load(""); cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, expected the local file's debug", cfg.Log.Level)
	}

	// ~/.wappo/configs/wappo.yaml wins over the local file
	writeConfig(t, filepath.Join(home, ".wappo", "configs", fileName), "log:\n  level: warn\n")
	if cfg, _ := Load(""); cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, expected the user file's warn", cfg.Log.Level)
	}
}

func writeConfig(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero delays", func(c *Config) { c.Timing = Timing{} }, false},
		{"negative trap reveal", func(c *Config) { c.Timing.EnemyTrapReveal = -time.Second }, true},
		{"negative idle timeout", func(c *Config) { c.Server.IdleTimeout = -time.Minute }, true},
		{"empty dsn", func(c *Config) { c.Storage.DSN = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTimingDurations(t *testing.T) {
	d := DefaultConfig().Timing.Durations()
	if d.EnemyStep != 100*time.Millisecond || d.PlayerTrapReveal != 350*time.Millisecond {
		t.Errorf("Durations() = %+v", d)
	}
}

func TestLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "debug"
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel() = %v, expected debug", cfg.LogLevel())
	}
	cfg.Log.Level = ""
	if cfg.LogLevel() != log.InfoLevel {
		t.Errorf("LogLevel() = %v, expected info", cfg.LogLevel())
	}
}
