package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateProvider() error {
	switch c.Provider.Kind {
	case ProviderCommand:
		if c.Provider.Command == "" {
			return errors.New("provider.command must be set when provider.kind is \"command\"")
		}
	case ProviderHTTP:
		if c.Provider.BaseURL == "" {
			return errors.New("provider.base_url must be set when provider.kind is \"http\" (or export PAR_PROVIDER_URL)")
		}
		parsed, err := url.Parse(c.Provider.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("provider.base_url %q is not an absolute URL", c.Provider.BaseURL)
		}
	default:
		return fmt.Errorf("provider.kind: unsupported value %q (use %q or %q)", c.Provider.Kind, ProviderCommand, ProviderHTTP)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return fmt.Errorf("logging.retention_days must be zero or positive, got %d", c.Logging.RetentionDays)
	}
	return nil
}
