package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_NonExistent(t *testing.T) {
	// When config file doesn't exist, should return defaults
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, DefaultAPIBaseURL)
	}
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", cfg.PageSize, DefaultPageSize)
	}
	if cfg.SessionBackend != SessionBackendKeyring {
		t.Errorf("SessionBackend = %q, want %q", cfg.SessionBackend, SessionBackendKeyring)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `api_base_url: "https://custom.api.com"
page_size: 10
request_timeout_seconds: 12
requests_per_second: 0
log_level: debug
log_format: console
session_backend: file
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.APIBaseURL != "https://custom.api.com" {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "https://custom.api.com")
	}
	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want %d", cfg.PageSize, 10)
	}
	if cfg.RequestTimeout() != 12*time.Second {
		t.Errorf("RequestTimeout() = %v, want %v", cfg.RequestTimeout(), 12*time.Second)
	}
	if cfg.RequestsPerSecond != 0 {
		t.Errorf("RequestsPerSecond = %d, want 0", cfg.RequestsPerSecond)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "console")
	}
	if cfg.SessionBackend != SessionBackendFile {
		t.Errorf("SessionBackend = %q, want %q", cfg.SessionBackend, SessionBackendFile)
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	// Config with only some fields should use defaults for missing
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `page_size: 25
api_base_url: ""
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.PageSize != 25 {
		t.Errorf("PageSize = %d, want %d", cfg.PageSize, 25)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want default %q", cfg.APIBaseURL, DefaultAPIBaseURL)
	}
	if cfg.RequestsPerSecond != DefaultRequestsPerSecond {
		t.Errorf("RequestsPerSecond = %d, want default %d", cfg.RequestsPerSecond, DefaultRequestsPerSecond)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `invalid: yaml: content: [broken`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() error = nil, want error for invalid YAML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "http://localhost:9000")
	t.Setenv(EnvPageSize, "7")
	t.Setenv(EnvSessionBackend, SessionBackendFile)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.APIBaseURL != "http://localhost:9000" {
		t.Errorf("APIBaseURL = %q, want env override", cfg.APIBaseURL)
	}
	if cfg.PageSize != 7 {
		t.Errorf("PageSize = %d, want 7", cfg.PageSize)
	}
	if cfg.SessionBackend != SessionBackendFile {
		t.Errorf("SessionBackend = %q, want %q", cfg.SessionBackend, SessionBackendFile)
	}
}

func TestLoad_EnvOverrideIgnoresBadInt(t *testing.T) {
	t.Setenv(EnvPageSize, "many")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want default %d", cfg.PageSize, DefaultPageSize)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.APIBaseURL = "https://save.api.com"
	cfg.PageSize = 15

	if err := Save(configPath, cfg); err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}

	// Verify file was created with correct permissions
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Config file permissions = %o, want %o", perm, 0600)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() after Save() error = %v", err)
	}

	if loaded.APIBaseURL != cfg.APIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", loaded.APIBaseURL, cfg.APIBaseURL)
	}
	if loaded.PageSize != cfg.PageSize {
		t.Errorf("PageSize = %d, want %d", loaded.PageSize, cfg.PageSize)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "deep", "config.yaml")

	if err := Save(configPath, DefaultConfig()); err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("Config file not created: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty url", func(c *Config) { c.APIBaseURL = "" }, true},
		{"url without scheme", func(c *Config) { c.APIBaseURL = "api.example.com" }, true},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeoutSeconds = 0 }, true},
		{"negative rate", func(c *Config) { c.RequestsPerSecond = -1 }, true},
		{"unknown backend", func(c *Config) { c.SessionBackend = "vault" }, true},
		{"file backend", func(c *Config) { c.SessionBackend = SessionBackendFile }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir_WithXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	want := "/custom/config/lbadmin"
	if dir := ConfigDir(); dir != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}
}

func TestConfigDir_WithoutXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "lbadmin")
	if dir := ConfigDir(); dir != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}
}

func TestConfigPath_WithXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	want := "/custom/config/lbadmin/config.yaml"
	if path := ConfigPath(); path != want {
		t.Errorf("ConfigPath() = %q, want %q", path, want)
	}
}
