// Package config holds all compdash configuration: backend endpoint,
// request timeouts, polling cadence, and display limits. Config lives in a
// YAML file under the user config dir, with environment overrides for the
// settings that change between machines.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all compdash configuration.
type Config struct {
	// Server settings
	Server ServerConfig `yaml:"server"`

	// Polling cadence
	Poll PollConfig `yaml:"poll"`

	// Display limits
	Display DisplayConfig `yaml:"display"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig points the client at the backend.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout bounds the dashboard's short calls (metrics, logs, inbox).
	Timeout string `yaml:"timeout"`
	// ExecuteTimeout bounds the blocking execute call, which waits for the
	// whole backend workflow.
	ExecuteTimeout string `yaml:"execute_timeout"`
}

// PollConfig sets the refresh intervals.
type PollConfig struct {
	// Metrics covers the combined metrics+logs refresh, suspended while an
	// execution is in flight.
	Metrics string `yaml:"metrics"`
	// Notifications covers the unread-count badge refresh, always on while
	// authenticated.
	Notifications string `yaml:"notifications"`
}

// DisplayConfig sets fetch limits for list views.
type DisplayConfig struct {
	ResultsLimit int    `yaml:"results_limit"`
	LogsLimit    int    `yaml:"logs_limit"`
	Theme        string `yaml:"theme"` // "dark", "light", or "" for auto
}

// LoggingConfig controls the file-backed debug log.
type LoggingConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `yaml:"level"`
	// File is the log sink; empty means the default under the config dir.
	// The TUI owns the terminal, so logs never go to stdout.
	File string `yaml:"file"`
}

// DefaultConfig returns the baked-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:5000/api",
			Timeout:        "15s",
			ExecuteTimeout: "10m",
		},
		Poll: PollConfig{
			Metrics:       "5s",
			Notifications: "10s",
		},
		Display: DisplayConfig{
			ResultsLimit: 100,
			LogsLimit:    50,
			Theme:        "dark",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = home
	}
	return filepath.Join(dir, "compdash", "config.yaml")
}

// Load reads the config at path, layering file values over defaults and
// environment overrides over both. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("COMPDASH_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("COMPDASH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// RequestTimeout parses the short-call timeout with a sane fallback.
func (c *Config) RequestTimeout() time.Duration {
	return parseDuration(c.Server.Timeout, 15*time.Second)
}

// ExecuteTimeout parses the execute deadline with a sane fallback.
func (c *Config) ExecuteTimeout() time.Duration {
	return parseDuration(c.Server.ExecuteTimeout, 10*time.Minute)
}

// MetricsInterval parses the metrics+logs poll cadence.
func (c *Config) MetricsInterval() time.Duration {
	return parseDuration(c.Poll.Metrics, 5*time.Second)
}

// NotificationsInterval parses the unread-badge poll cadence.
func (c *Config) NotificationsInterval() time.Duration {
	return parseDuration(c.Poll.Notifications, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate rejects obviously broken settings before they reach the UI.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	if c.Display.ResultsLimit < 0 || c.Display.LogsLimit < 0 {
		return fmt.Errorf("display limits must be non-negative")
	}
	return nil
}
