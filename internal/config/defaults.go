package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
// It matches defaults/t2048.yaml and is used if that file fails to parse.
func Default() Config {
	return Config{
		TickRate: 30,
		Keys: KeysConfig{
			Up:         []string{"up", "w", "k"},
			Down:       []string{"down", "s", "j"},
			Left:       []string{"left", "a", "h"},
			Right:      []string{"right", "d", "l"},
			Pause:      []string{"p"},
			Restart:    []string{"r"},
			Quit:       []string{"q", "esc", "ctrl+c"},
			Screenshot: []string{"ctrl+s"},
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/scores.db",
		},
		Server: ServerConfig{
			SSHAddress:         ":23234",
			HostKeyPath:        "",
			IdleTimeoutMinutes: 30,
			HTTPAddress:        "localhost:8080",
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
