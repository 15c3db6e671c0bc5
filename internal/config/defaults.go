package config

const (
	defaultDataDir              = "~/.local/share/panaudit"
	defaultLogDir               = "~/.local/share/panaudit/logs"
	defaultBackendBaseURL       = "http://127.0.0.1:8000/api"
	defaultRequestTimeout       = 30
	defaultTimezone             = "America/New_York"
	defaultCatalogRetryAttempts = 10
	defaultCatalogRetryDelay    = 3
	defaultPipelinePollInterval = 5
	defaultPresignTTLMinutes    = 25
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Backend: Backend{
			BaseURL:        defaultBackendBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Audit: Audit{
			Timezone:             defaultTimezone,
			CatalogRetryAttempts: defaultCatalogRetryAttempts,
			CatalogRetryDelay:    defaultCatalogRetryDelay,
			PipelinePollInterval: defaultPipelinePollInterval,
			PresignTTLMinutes:    defaultPresignTTLMinutes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
