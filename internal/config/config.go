package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Backend contains connection settings for the audit backend API.
type Backend struct {
	BaseURL        string `toml:"base_url"`
	APIToken       string `toml:"api_token"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Audit contains audit-session behavior settings.
type Audit struct {
	// Timezone is the business timezone audit dates are stamped in.
	Timezone string `toml:"timezone"`
	// CatalogRetryAttempts bounds the retries while the pan catalog reports
	// building. Past the ceiling the fetch fails terminally.
	CatalogRetryAttempts int `toml:"catalog_retry_attempts"`
	// CatalogRetryDelay is the seconds between catalog retries.
	CatalogRetryDelay int `toml:"catalog_retry_delay"`
	// PipelinePollInterval is the seconds between AI pipeline status polls.
	PipelinePollInterval int `toml:"pipeline_poll_interval"`
	// PresignTTLMinutes is how long resolved image URLs are reused.
	PresignTTLMinutes int `toml:"presign_ttl_minutes"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for panaudit.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Backend Backend `toml:"backend"`
	Audit   Audit   `toml:"audit"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/panaudit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path, the third whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("panaudit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.DataDir, &c.Paths.LogDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	if token := strings.TrimSpace(os.Getenv("PANAUDIT_API_TOKEN")); token != "" {
		c.Backend.APIToken = token
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SessionDBPath returns the location of the local session database.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.Paths.DataDir, "session.db")
}

// PrefsPath returns the location of the client-local preference store.
func (c *Config) PrefsPath() string {
	return filepath.Join(c.Paths.DataDir, "prefs.json")
}

// Location resolves the configured business timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Audit.Timezone)
	if err != nil {
		return nil, fmt.Errorf("resolve timezone %q: %w", c.Audit.Timezone, err)
	}
	return loc, nil
}

// RequestTimeout returns the backend request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.RequestTimeout) * time.Second
}

// CatalogRetryDelay returns the delay between catalog retries as a duration.
func (c *Config) CatalogRetryDelay() time.Duration {
	return time.Duration(c.Audit.CatalogRetryDelay) * time.Second
}

// PipelinePollInterval returns the poll cadence as a duration.
func (c *Config) PipelinePollInterval() time.Duration {
	return time.Duration(c.Audit.PipelinePollInterval) * time.Second
}

// PresignTTL returns how long a resolved image URL may be reused.
func (c *Config) PresignTTL() time.Duration {
	return time.Duration(c.Audit.PresignTTLMinutes) * time.Minute
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the sample config to the given path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath expands a user-supplied path the same way config loading does.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}
