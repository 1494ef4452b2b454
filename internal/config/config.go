package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Provider selects and configures the remote artist provider.
type Provider struct {
	// Kind is "command" (run a helper executable per call) or "http".
	Kind    string   `toml:"kind"`
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	BaseURL string   `toml:"base_url"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	// RetentionDays prunes rotated log files older than this. 0 keeps them all.
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for par.
//
// User-editable review settings (credential, search depth, timezone) are not
// part of this file; they live in the store and go through the settings
// reconciler.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Provider Provider `toml:"provider"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns ~/.config/par/config.toml expanded.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the config file at path, or the first of the default location
// and ./par.toml that exists when path is empty. A missing file yields
// defaults. It returns the config, the resolved path, and whether the file
// existed.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse %s: %w", resolved, err)
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func locate(path string) (string, bool, error) {
	var candidates []string
	if path != "" {
		candidates = []string{path}
	} else {
		candidates = []string{defaultConfigPath, "par.toml"}
	}

	var first string
	for _, candidate := range candidates {
		expanded, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		if first == "" {
			first = expanded
		}
		info, err := os.Stat(expanded)
		switch {
		case err == nil && !info.IsDir():
			return expanded, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	return first, false, nil
}

// EnsureDirectories creates the data, image, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.ImageDir(), c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite file holding the queue, cached records, and settings.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "par.db")
}

// ImageDir returns the directory holding cached profile and illustration images.
func (c *Config) ImageDir() string {
	return filepath.Join(c.Paths.DataDir, "images")
}

// LogPath returns the log file every command appends to.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "par.log")
}

// LockPath returns the lock file guarding single-process access to the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "par.lock")
}

// ExpandPath resolves a leading ~ to the home directory and returns an
// absolute, cleaned path. An empty value stays empty.
func ExpandPath(value string) (string, error) {
	return expandPath(value)
}

func expandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") || strings.HasPrefix(value, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, value[1:])
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", value, err)
	}
	return abs, nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
