package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateAudit(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBackend() error {
	base := strings.TrimSpace(c.Backend.BaseURL)
	if base == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/panaudit/config.toml"
		}
		return fmt.Errorf("backend.base_url is required. Edit %s (create with 'panaudit config init')", defaultPath)
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("backend.base_url %q is not an absolute URL", base)
	}
	if c.Backend.RequestTimeout <= 0 {
		return errors.New("backend.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateAudit() error {
	if _, err := time.LoadLocation(c.Audit.Timezone); err != nil {
		return fmt.Errorf("audit.timezone %q is not a valid IANA timezone", c.Audit.Timezone)
	}
	for name, value := range map[string]int{
		"audit.catalog_retry_attempts": c.Audit.CatalogRetryAttempts,
		"audit.catalog_retry_delay":    c.Audit.CatalogRetryDelay,
		"audit.pipeline_poll_interval": c.Audit.PipelinePollInterval,
		"audit.presign_ttl_minutes":    c.Audit.PresignTTLMinutes,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
