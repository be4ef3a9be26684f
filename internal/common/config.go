package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Platform    PlatformConfig `toml:"platform"`
	Auth        AuthConfig     `toml:"auth"`
	Browser     BrowserConfig  `toml:"browser"`
	Crawler     CrawlerConfig  `toml:"crawler"`
	Download    DownloadConfig `toml:"download"`
	Logging     LoggingConfig  `toml:"logging"`
}

// PlatformConfig identifies the hosted platform being crawled
type PlatformConfig struct {
	BaseURL   string `toml:"base_url" validate:"required,url"`
	UserAgent string `toml:"user_agent" validate:"required"`
}

// AuthConfig carries the session credentials taken from a logged-in browser
type AuthConfig struct {
	SessionId    string `toml:"session_id"`
	CookieDomain string `toml:"cookie_domain"`
}

// BrowserConfig configures the remote browser session
type BrowserConfig struct {
	DebugEndpoint  string        `toml:"debug_endpoint" validate:"required"` // DevTools websocket endpoint
	ExecutableName string        `toml:"executable_name" validate:"required"`
	ConnectTimeout time.Duration `toml:"connect_timeout"`
}

// CrawlerConfig configures the post enumeration stage
type CrawlerConfig struct {
	RequestDelay   time.Duration `toml:"request_delay"` // Minimum delay between page loads
	PageTimeout    time.Duration `toml:"page_timeout"`  // Per-page navigation timeout
	MaxPages       int           `toml:"max_pages" validate:"gte=0"`
	IncludeAvatars bool          `toml:"include_avatars"` // Also queue campaign avatar/cover images
}

// DownloadConfig configures the asset download stage
type DownloadConfig struct {
	Directory      string        `toml:"directory"` // Empty = derive from campaign name
	OverwriteFiles bool          `toml:"overwrite_files"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	RatePerSecond  float64       `toml:"rate_per_second" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                      // "stdout", "file"
}

// NewDefaultConfig returns the built-in defaults. File, env and CLI values
// layer on top in that order.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Platform: PlatformConfig{
			BaseURL:   "https://www.patreon.com",
			UserAgent: "patrondl/1.0",
		},
		Auth: AuthConfig{
			CookieDomain: ".patreon.com",
		},
		Browser: BrowserConfig{
			DebugEndpoint:  "ws://127.0.0.1:9222/",
			ExecutableName: defaultBrowserExecutable(),
			ConnectTimeout: 30 * time.Second,
		},
		Crawler: CrawlerConfig{
			RequestDelay:   2 * time.Second,
			PageTimeout:    60 * time.Second,
			MaxPages:       0, // 0 = no limit
			IncludeAvatars: true,
		},
		Download: DownloadConfig{
			RequestTimeout: 5 * time.Minute,
			RatePerSecond:  2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFile loads configuration from a TOML file layered over defaults,
// then applies environment overrides and validates the result.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies PATRONDL_* environment variables over the loaded
// configuration. Env vars win over file values, CLI flags win over env.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("PATRONDL_BASE_URL"); v != "" {
		config.Platform.BaseURL = v
	}
	if v := os.Getenv("PATRONDL_SESSION_ID"); v != "" {
		config.Auth.SessionId = v
	}
	if v := os.Getenv("PATRONDL_BROWSER_ENDPOINT"); v != "" {
		config.Browser.DebugEndpoint = v
	}
	if v := os.Getenv("PATRONDL_DOWNLOAD_DIR"); v != "" {
		config.Download.Directory = v
	}
	if v := os.Getenv("PATRONDL_OVERWRITE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Download.OverwriteFiles = b
		}
	}
	if v := os.Getenv("PATRONDL_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(config *Config, downloadDir string, overwrite bool) {
	if downloadDir != "" {
		config.Download.Directory = downloadDir
	}
	if overwrite {
		config.Download.OverwriteFiles = true
	}
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
