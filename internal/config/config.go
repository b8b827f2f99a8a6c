// Package config provides YAML-based configuration loading for wappo:
// animation timing, storage, level directories, servers and logging.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wappo/internal/session"
)

// Config is the full application configuration.
type Config struct {
	Timing  Timing        `yaml:"timing"`
	Storage StorageConfig `yaml:"storage"`
	Levels  LevelsConfig  `yaml:"levels"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// Timing holds the presentation pauses of a session. Zero disables a pause.
type Timing struct {
	EnemyStep        time.Duration `yaml:"enemy_step"`
	EnemyTrapReveal  time.Duration `yaml:"enemy_trap_reveal"`
	PlayerTrapReveal time.Duration `yaml:"player_trap_reveal"`
}

// Durations converts the timing section into controller delays.
func (t Timing) Durations() session.Delays {
	return session.Delays{
		EnemyStep:        t.EnemyStep,
		EnemyTrapReveal:  t.EnemyTrapReveal,
		PlayerTrapReveal: t.PlayerTrapReveal,
	}
}

// StorageConfig selects the database. A postgres:// DSN picks PostgreSQL,
// anything else is a SQLite file path.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// LevelsConfig points at an optional directory of extra YAML levels.
type LevelsConfig struct {
	Dir string `yaml:"dir"`
}

// ServerConfig defines the SSH and WebSocket listeners.
type ServerConfig struct {
	SSHAddr     string        `yaml:"ssh_addr"`
	HostKey     string        `yaml:"host_key"`
	WSAddr      string        `yaml:"ws_addr"` // Empty disables the WebSocket endpoint
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// LogConfig sets the log level name understood by charmbracelet/log.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	var errs []error

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"timing.enemy_step", c.Timing.EnemyStep},
		{"timing.enemy_trap_reveal", c.Timing.EnemyTrapReveal},
		{"timing.player_trap_reveal", c.Timing.PlayerTrapReveal},
		{"server.idle_timeout", c.Server.IdleTimeout},
	}
	for _, d := range durations {
		if d.d < 0 {
			errs = append(errs, fmt.Errorf("config: %s must not be negative, got %s", d.name, d.d))
		}
	}

	if c.Storage.DSN == "" {
		errs = append(errs, errors.New("config: storage.dsn is required"))
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("config: log.level: %w", err))
		}
	}

	return errors.Join(errs...)
}

// LogLevel returns the parsed log level, defaulting to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
