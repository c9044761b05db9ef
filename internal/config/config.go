// Package config loads the optional user configuration for the hook.
// Config can never block a commit: a missing or malformed file silently
// yields defaults.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the user-tunable knobs, read from
// $XDG_CONFIG_HOME/aiattrib/config.toml (or ~/.config/aiattrib/config.toml).
type Config struct {
	// DisabledAgents lists agent process tokens (e.g. "claude", "amp")
	// that should never be attributed.
	DisabledAgents []string `toml:"disabled_agents"`

	// TimeoutMS overrides the detection deadline in milliseconds.
	// Zero or negative keeps the default.
	TimeoutMS int `toml:"timeout_ms"`

	// Debug enables detection tracing on stderr, same as --debug.
	Debug bool `toml:"debug"`
}

// Load reads the user config, falling back to defaults on any problem.
// The AIATTRIB_DEBUG=1 environment variable forces Debug on.
func Load() Config {
	cfg := LoadFrom(defaultPath())
	if os.Getenv("AIATTRIB_DEBUG") == "1" {
		cfg.Debug = true
	}
	return cfg
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) Config {
	var cfg Config
	if path == "" {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) {
			slog.Debug("ignoring unreadable config", "path", path, "err", err)
		}
		return Config{}
	}
	return cfg
}

// Timeout returns the configured detection deadline.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func defaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "aiattrib", "config.toml")
}
