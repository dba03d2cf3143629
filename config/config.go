// Package config loads the emulator's on-disk defaults: memory size, log
// level, and a syscall fs_root setting. The CLI uses the first two; no
// other package reads fs_root.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the subset of emulator settings worth persisting across
// runs. CLI flags always take precedence over these values.
type Config struct {
	Execution struct {
		MemorySize     uint   `toml:"memory_size"`
		DefaultLogLevel string `toml:"default_log_level"`
	} `toml:"execution"`

	Syscall struct {
		FSRoot string `toml:"fs_root"`
	} `toml:"syscall"`
}

// DefaultConfig returns a Config with the emulator's built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Execution.MemorySize = 1 << 20
	cfg.Execution.DefaultLogLevel = "info"
	cfg.Syscall.FSRoot = ""
	return cfg
}

// ConfigPath returns the platform-specific config file path, creating its
// parent directory if needed.
func ConfigPath() string {
	var dir string

	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "rv32emu")

	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config", "rv32emu")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(dir, "config.toml")
}

// Load reads the default config file, falling back silently to
// DefaultConfig when it doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path, falling back silently to
// DefaultConfig when it doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return cfg, nil
}
