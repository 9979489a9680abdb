package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	// Test default values
	if config.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("Expected default requests per minute to be 60, got %d", config.RateLimit.RequestsPerMinute)
	}

	if config.Download.ConcurrentDownloads != 3 {
		t.Errorf("Expected default concurrent downloads to be 3, got %d", config.Download.ConcurrentDownloads)
	}

	if config.Download.DownloadTimeout != 30*time.Second {
		t.Errorf("Expected default download timeout to be 30s, got %v", config.Download.DownloadTimeout)
	}

	if config.Output.BaseDirectory != "." {
		t.Errorf("Expected default output directory to be the current directory, got %s", config.Output.BaseDirectory)
	}

	if config.Notifications.Enabled {
		t.Error("Expected notifications to be disabled by default")
	}

	if config.Logging.Level != "info" {
		t.Errorf("Expected default log level to be info, got %s", config.Logging.Level)
	}

	if config.API.Token != "" {
		t.Error("Expected default token to be empty")
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Set test environment variables
	os.Setenv("IMGCHEST_TOKEN", "test-api-token")
	os.Setenv("IMGCHEST_USER_AGENT", "TestAgent/1.0")
	os.Setenv("IMGCHEST_REQUESTS_PER_MINUTE", "30")
	os.Setenv("IMGCHEST_OUTPUT_DIR", "/tmp/test-downloads")
	os.Setenv("IMGCHEST_CONCURRENT_DOWNLOADS", "5")
	os.Setenv("IMGCHEST_NOTIFICATIONS_ENABLED", "true")
	os.Setenv("IMGCHEST_LOG_LEVEL", "debug")

	defer func() {
		// Clean up environment variables
		os.Unsetenv("IMGCHEST_TOKEN")
		os.Unsetenv("IMGCHEST_USER_AGENT")
		os.Unsetenv("IMGCHEST_REQUESTS_PER_MINUTE")
		os.Unsetenv("IMGCHEST_OUTPUT_DIR")
		os.Unsetenv("IMGCHEST_CONCURRENT_DOWNLOADS")
		os.Unsetenv("IMGCHEST_NOTIFICATIONS_ENABLED")
		os.Unsetenv("IMGCHEST_LOG_LEVEL")
	}()

	config := DefaultConfig()
	err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	// Test loaded values
	if config.API.Token != "test-api-token" {
		t.Errorf("Expected token to be test-api-token, got %s", config.API.Token)
	}

	if config.API.UserAgent != "TestAgent/1.0" {
		t.Errorf("Expected user agent to be TestAgent/1.0, got %s", config.API.UserAgent)
	}

	if config.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("Expected requests per minute to be 30, got %d", config.RateLimit.RequestsPerMinute)
	}

	if config.Output.BaseDirectory != "/tmp/test-downloads" {
		t.Errorf("Expected output directory to be /tmp/test-downloads, got %s", config.Output.BaseDirectory)
	}

	if config.Download.ConcurrentDownloads != 5 {
		t.Errorf("Expected concurrent downloads to be 5, got %d", config.Download.ConcurrentDownloads)
	}

	if !config.Notifications.Enabled {
		t.Error("Expected notifications to be enabled")
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvIgnoresInvalidNumbers(t *testing.T) {
	os.Setenv("IMGCHEST_REQUESTS_PER_MINUTE", "not-a-number")
	os.Setenv("IMGCHEST_CONCURRENT_DOWNLOADS", "-2")
	defer func() {
		os.Unsetenv("IMGCHEST_REQUESTS_PER_MINUTE")
		os.Unsetenv("IMGCHEST_CONCURRENT_DOWNLOADS")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("Expected invalid requests per minute to keep the default, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.Download.ConcurrentDownloads != 3 {
		t.Errorf("Expected negative concurrent downloads to keep the default, got %d", config.Download.ConcurrentDownloads)
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `api:
  token: file-token
  user_agent: FileAgent/2.0
rate_limit:
  requests_per_minute: 45
output:
  base_directory: /tmp/from-file
download:
  concurrent_downloads: 4
notifications:
  enabled: true
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load from file: %v", err)
	}

	if config.API.Token != "file-token" {
		t.Errorf("Expected token file-token, got %s", config.API.Token)
	}
	if config.RateLimit.RequestsPerMinute != 45 {
		t.Errorf("Expected 45 requests per minute, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.Output.BaseDirectory != "/tmp/from-file" {
		t.Errorf("Expected output directory /tmp/from-file, got %s", config.Output.BaseDirectory)
	}
	if config.Download.ConcurrentDownloads != 4 {
		t.Errorf("Expected 4 concurrent downloads, got %d", config.Download.ConcurrentDownloads)
	}
	if !config.Notifications.Enabled {
		t.Error("Expected notifications enabled")
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected log level warn, got %s", config.Logging.Level)
	}

	// Values not present in the file keep their defaults
	if config.Download.DownloadTimeout != 30*time.Second {
		t.Errorf("Expected default download timeout, got %v", config.Download.DownloadTimeout)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	err := config.LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Error("Expected an error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config is valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero requests per minute",
			mutate:  func(c *Config) { c.RateLimit.RequestsPerMinute = 0 },
			wantErr: true,
		},
		{
			name:    "zero concurrent downloads",
			mutate:  func(c *Config) { c.Download.ConcurrentDownloads = 0 },
			wantErr: true,
		},
		{
			name:    "too many concurrent downloads",
			mutate:  func(c *Config) { c.Download.ConcurrentDownloads = 11 },
			wantErr: true,
		},
		{
			name:    "zero download timeout",
			mutate:  func(c *Config) { c.Download.DownloadTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "empty output directory",
			mutate:  func(c *Config) { c.Output.BaseDirectory = "" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "empty token is allowed",
			mutate:  func(c *Config) { c.API.Token = "" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"token":               "flag-token",
		"out-dir":             "/tmp/flag-dir",
		"concurrent":          7,
		"requests-per-minute": 20,
		"download-timeout":    45 * time.Second,
		"notify":              true,
		"log-level":           "error",
	}

	config.MergeCommandLineFlags(flags)

	if config.API.Token != "flag-token" {
		t.Errorf("Expected token flag-token, got %s", config.API.Token)
	}
	if config.Output.BaseDirectory != "/tmp/flag-dir" {
		t.Errorf("Expected output directory /tmp/flag-dir, got %s", config.Output.BaseDirectory)
	}
	if config.Download.ConcurrentDownloads != 7 {
		t.Errorf("Expected 7 concurrent downloads, got %d", config.Download.ConcurrentDownloads)
	}
	if config.RateLimit.RequestsPerMinute != 20 {
		t.Errorf("Expected 20 requests per minute, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.Download.DownloadTimeout != 45*time.Second {
		t.Errorf("Expected 45s download timeout, got %v", config.Download.DownloadTimeout)
	}
	if !config.Notifications.Enabled {
		t.Error("Expected notifications enabled")
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected log level error, got %s", config.Logging.Level)
	}
}

func TestLoadPrecedence(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `output:
  base_directory: /tmp/from-file
rate_limit:
  requests_per_minute: 10
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	// Environment overrides the file
	os.Setenv("IMGCHEST_OUTPUT_DIR", "/tmp/from-env")
	defer os.Unsetenv("IMGCHEST_OUTPUT_DIR")

	// Flags override the environment
	flags := map[string]interface{}{
		"out-dir": "/tmp/from-flags",
	}

	config, err := Load(configPath, flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if config.Output.BaseDirectory != "/tmp/from-flags" {
		t.Errorf("Expected flags to win, got %s", config.Output.BaseDirectory)
	}
	if config.RateLimit.RequestsPerMinute != 10 {
		t.Errorf("Expected file value for requests per minute, got %d", config.RateLimit.RequestsPerMinute)
	}
}

func TestSaveAndReload(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	config := DefaultConfig()
	config.API.Token = "saved-token"
	config.Output.BaseDirectory = "/tmp/saved"

	if err := config.Save(configPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(configPath); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if reloaded.API.Token != "saved-token" {
		t.Errorf("Expected saved token, got %s", reloaded.API.Token)
	}
	if reloaded.Output.BaseDirectory != "/tmp/saved" {
		t.Errorf("Expected saved output directory, got %s", reloaded.Output.BaseDirectory)
	}
}
