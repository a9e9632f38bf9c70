package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/limphasa/schemectl/pkg/observability"
)

// Config holds all client configuration
type Config struct {
	// API configuration
	API APIConfig

	// Session configuration
	Session SessionConfig

	// Observability configuration
	Log LogConfig
}

// APIConfig holds remote API settings
type APIConfig struct {
	// BaseURL is the root of the scheme API, e.g. https://scheme.example.com
	BaseURL string

	// Timeout applies uniformly to every request
	Timeout time.Duration
}

// SessionConfig holds session persistence settings
type SessionConfig struct {
	// Path is the session file location
	Path string

	// Watch enables reloading the session when another process changes it
	Watch bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level observability.LogLevel
}

// fileConfig is the YAML shape of the optional config file
type fileConfig struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Session struct {
		Path  string `yaml:"path"`
		Watch *bool  `yaml:"watch"`
	} `yaml:"session"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// LoadConfig builds configuration from defaults, then the optional YAML
// config file, then environment variables. Later sources win.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if err := applyFile(cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Path:  defaultSessionPath(),
			Watch: false,
		},
		Log: LogConfig{
			Level: observability.InfoLevel,
		},
	}
}

// ConfigFilePath returns the config file location: $SCHEMECTL_CONFIG if
// set, otherwise ~/.config/schemectl/config.yaml.
func ConfigFilePath() string {
	if path := os.Getenv("SCHEMECTL_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "schemectl", "config.yaml")
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".schemectl-session.json"
	}
	return filepath.Join(home, ".config", "schemectl", "session.json")
}

// applyFile overlays values from the YAML config file when it exists
func applyFile(cfg *Config) error {
	path := ConfigFilePath()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.API.BaseURL != "" {
		cfg.API.BaseURL = fc.API.BaseURL
	}
	if fc.API.Timeout != "" {
		d, err := time.ParseDuration(fc.API.Timeout)
		if err != nil {
			return fmt.Errorf("config file %s: invalid api.timeout: %w", path, err)
		}
		cfg.API.Timeout = d
	}
	if fc.Session.Path != "" {
		cfg.Session.Path = fc.Session.Path
	}
	if fc.Session.Watch != nil {
		cfg.Session.Watch = *fc.Session.Watch
	}
	if fc.Log.Level != "" {
		cfg.Log.Level = observability.ParseLevel(fc.Log.Level)
	}
	return nil
}

// applyEnv overlays SCHEMECTL_* environment variables
func applyEnv(cfg *Config) {
	if v := getEnv("SCHEMECTL_API_URL", ""); v != "" {
		cfg.API.BaseURL = v
	}
	if v := getEnvDuration("SCHEMECTL_TIMEOUT", 0); v > 0 {
		cfg.API.Timeout = v
	}
	if v := getEnv("SCHEMECTL_SESSION_FILE", ""); v != "" {
		cfg.Session.Path = v
	}
	if v := getEnv("SCHEMECTL_SESSION_WATCH", ""); v != "" {
		cfg.Session.Watch = strings.ToLower(v) == "true"
	}
	if v := getEnv("SCHEMECTL_LOG_LEVEL", ""); v != "" {
		cfg.Log.Level = observability.ParseLevel(v)
	}
}

// Validate checks the configuration for usability
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base URL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base URL %q is not a valid URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}
	if c.Session.Path == "" {
		return fmt.Errorf("session file path is required")
	}
	return nil
}

// getEnv returns the environment value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration returns the environment value parsed as a duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
