package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/wappo.yaml
var defaultYAML []byte

// DefaultDBPath is where the SQLite database lives unless configured.
const DefaultDBPath = "~/.wappo/wappo.db"

// DefaultConfig returns the hardcoded configuration used when no file,
// not even the embedded one, can be read.
func DefaultConfig() Config {
	return Config{
		Timing: Timing{
			EnemyStep:        100 * time.Millisecond,
			EnemyTrapReveal:  100 * time.Millisecond,
			PlayerTrapReveal: 350 * time.Millisecond,
		},
		Storage: StorageConfig{
			DSN: DefaultDBPath,
		},
		Server: ServerConfig{
			SSHAddr:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
