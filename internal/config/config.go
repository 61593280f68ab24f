package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIBaseURL is the leaderboard API used when none is configured.
	DefaultAPIBaseURL = "https://api.aurumfx.com/api"

	// DefaultPageSize is the number of traders shown per page.
	DefaultPageSize = 5

	DefaultRequestTimeoutSeconds = 30
	DefaultRequestsPerSecond     = 5
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "json"

	// Session backends.
	SessionBackendKeyring = "keyring"
	SessionBackendFile    = "file"

	appDirName = "lbadmin"
)

// Environment overrides, applied on top of the config file.
const (
	EnvAPIBaseURL     = "LBADMIN_API_BASE_URL"
	EnvPageSize       = "LBADMIN_PAGE_SIZE"
	EnvLogLevel       = "LBADMIN_LOG_LEVEL"
	EnvSessionBackend = "LBADMIN_SESSION_BACKEND"
)

// Config holds the CLI configuration.
type Config struct {
	APIBaseURL            string `yaml:"api_base_url" json:"api_base_url"`
	PageSize              int    `yaml:"page_size" json:"page_size"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" json:"request_timeout_seconds"`
	RequestsPerSecond     int    `yaml:"requests_per_second" json:"requests_per_second"`
	LogLevel              string `yaml:"log_level" json:"log_level"`
	LogFormat             string `yaml:"log_format" json:"log_format"`
	SessionBackend        string `yaml:"session_backend" json:"session_backend"`
}

// DefaultConfig returns a config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:            DefaultAPIBaseURL,
		PageSize:              DefaultPageSize,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
		RequestsPerSecond:     DefaultRequestsPerSecond,
		LogLevel:              DefaultLogLevel,
		LogFormat:             DefaultLogFormat,
		SessionBackend:        SessionBackendKeyring,
	}
}

// ConfigDir returns the configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/lbadmin.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDirName)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment win.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Load reads the config file at path, fills unset fields with defaults and
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.fillDefaults()
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes cfg to path, creating parent directories with 0700.
// The file is written with 0600 permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("api_base_url is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api_base_url must start with http:// or https://, got %q", c.APIBaseURL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %d", c.RequestsPerSecond)
	}
	switch c.SessionBackend {
	case SessionBackendKeyring, SessionBackendFile:
	default:
		return fmt.Errorf("session_backend must be %q or %q, got %q", SessionBackendKeyring, SessionBackendFile, c.SessionBackend)
	}
	return nil
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// fillDefaults restores defaults for fields a partial file left empty.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.APIBaseURL == "" {
		c.APIBaseURL = def.APIBaseURL
	}
	if c.PageSize == 0 {
		c.PageSize = def.PageSize
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
	if c.SessionBackend == "" {
		c.SessionBackend = def.SessionBackend
	}
}

func (c *Config) applyEnv() {
	c.APIBaseURL = getEnv(EnvAPIBaseURL, c.APIBaseURL)
	c.PageSize = getEnvAsInt(EnvPageSize, c.PageSize)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.SessionBackend = getEnv(EnvSessionBackend, c.SessionBackend)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
