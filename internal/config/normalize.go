package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProvider()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProvider() {
	c.Provider.Kind = strings.ToLower(strings.TrimSpace(c.Provider.Kind))
	if c.Provider.Kind == "" {
		c.Provider.Kind = defaultProviderKind
	}
	if value, ok := os.LookupEnv("PAR_PROVIDER_COMMAND"); ok && strings.TrimSpace(value) != "" {
		c.Provider.Command = value
	}
	c.Provider.Command = strings.TrimSpace(c.Provider.Command)
	if c.Provider.Command == "" {
		c.Provider.Command = defaultProviderBinary
	}
	if value, ok := os.LookupEnv("PAR_PROVIDER_URL"); ok && strings.TrimSpace(value) != "" {
		c.Provider.BaseURL = value
	}
	c.Provider.BaseURL = strings.TrimRight(strings.TrimSpace(c.Provider.BaseURL), "/")
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
