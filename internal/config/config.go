// Package config provides YAML-based configuration loading for the 2048
// terminal game, its SSH server and its HTTP API.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrInvalidConfig is returned by Validate for out-of-range values.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the complete application configuration.
type Config struct {
	TickRate int           `yaml:"tick_rate"` // Simulation ticks per second
	Keys     KeysConfig    `yaml:"keys"`
	Storage  StorageConfig `yaml:"storage"`
	Server   ServerConfig  `yaml:"server"`
	Log      LogConfig     `yaml:"log"`
}

// KeysConfig maps each action to the key strings that trigger it.
// Key strings use Bubble Tea names ("up", "ctrl+c", "w").
type KeysConfig struct {
	Up         []string `yaml:"up"`
	Down       []string `yaml:"down"`
	Left       []string `yaml:"left"`
	Right      []string `yaml:"right"`
	Pause      []string `yaml:"pause"`
	Restart    []string `yaml:"restart"`
	Quit       []string `yaml:"quit"`
	Screenshot []string `yaml:"screenshot"`
}

// StorageConfig configures the score database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ServerConfig configures the SSH server and the HTTP API.
type ServerConfig struct {
	SSHAddress         string `yaml:"ssh_address"`
	HostKeyPath        string `yaml:"host_key_path"` // Empty means ~/.t2048/host_key
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
	HTTPAddress        string `yaml:"http_address"`
}

// LogConfig configures the server logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Validate checks the configuration for values the program cannot run with.
func (c Config) Validate() error {
	if c.TickRate <= 0 || c.TickRate > 240 {
		return fmt.Errorf("%w: tick_rate %d out of range 1..240", ErrInvalidConfig, c.TickRate)
	}

	bindings := []struct {
		name string
		keys []string
	}{
		{"up", c.Keys.Up},
		{"down", c.Keys.Down},
		{"left", c.Keys.Left},
		{"right", c.Keys.Right},
		{"pause", c.Keys.Pause},
		{"restart", c.Keys.Restart},
		{"quit", c.Keys.Quit},
		{"screenshot", c.Keys.Screenshot},
	}
	seen := make(map[string]string)
	for _, b := range bindings {
		if len(b.keys) == 0 {
			return fmt.Errorf("%w: no keys bound to %s", ErrInvalidConfig, b.name)
		}
		for _, k := range b.keys {
			k = strings.TrimSpace(k)
			if k == "" {
				return fmt.Errorf("%w: empty key bound to %s", ErrInvalidConfig, b.name)
			}
			if other, ok := seen[k]; ok && other != b.name {
				return fmt.Errorf("%w: key %q bound to both %s and %s", ErrInvalidConfig, k, other, b.name)
			}
			seen[k] = b.name
		}
	}

	if c.Server.IdleTimeoutMinutes < 0 {
		return fmt.Errorf("%w: idle_timeout_minutes must not be negative", ErrInvalidConfig)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}

	return nil
}

// LogLevel returns the parsed log level, or info if the value is unknown.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
