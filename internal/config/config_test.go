package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded): %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded YAML and Default() differ:\n%+v\nvs\n%+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomPathPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "tick_rate: 60\nkeys:\n  pause: [space]\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TickRate != 60 {
		t.Errorf("TickRate = %d, want 60", cfg.TickRate)
	}
	if !reflect.DeepEqual(cfg.Keys.Pause, []string{"space"}) {
		t.Errorf("Keys.Pause = %v, want [space]", cfg.Keys.Pause)
	}
	if !reflect.DeepEqual(cfg.Keys.Up, Default().Keys.Up) {
		t.Errorf("Keys.Up = %v, want default %v", cfg.Keys.Up, Default().Keys.Up)
	}
	if cfg.Server.SSHAddress != Default().Server.SSHAddress {
		t.Errorf("Server.SSHAddress = %q, want default", cfg.Server.SSHAddress)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of missing file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("tick_rate: [oops"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "cannot parse") {
		t.Errorf("Load of malformed file error = %v, want parse error", err)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("tick_rate: 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load of tick_rate 0 error = %v, want ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }, true},
		{"huge tick rate", func(c *Config) { c.TickRate = 1000 }, true},
		{"no up keys", func(c *Config) { c.Keys.Up = nil }, true},
		{"blank key", func(c *Config) { c.Keys.Quit = []string{" "} }, true},
		{"key bound twice", func(c *Config) { c.Keys.Restart = []string{"w"} }, true},
		{"negative idle timeout", func(c *Config) { c.Server.IdleTimeoutMinutes = -1 }, true},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"warn log level", func(c *Config) { c.Log.Level = "warn" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in, want string
	}{
		{"~/.t2048/scores.db", filepath.Join(home, ".t2048", "scores.db")},
		{"~", home},
		{"/tmp/x.db", "/tmp/x.db"},
		{"relative.db", "relative.db"},
		{"~user/x", "~user/x"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
