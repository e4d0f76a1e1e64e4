// Package config provides configuration loading and validation for the CLI and the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/scoring"
)

// Environment variables that override file values
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvPort        = "PORT"
	EnvLogLevel    = "LOG_LEVEL"
	EnvRulesPath   = "RULES_PATH"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	RulesPath       string           `json:"rules_path,omitempty"`                                         // Rule file overriding the embedded rules
	Weights         *scoring.Weights `json:"weights,omitempty"`                                            // Aggregation weights
	DatabaseURL     string           `json:"database_url,omitempty"`                                       // PostgreSQL connection URL
	Port            int              `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`          // HTTP port
	MaxUploadBytes  int64            `json:"max_upload_bytes,omitempty" validate:"omitempty,min=1"`        // Upload size limit
	ShareLinkDays   int              `json:"share_link_days,omitempty" validate:"omitempty,min=1,max=365"` // Share link lifetime
	ValidateReports bool             `json:"validate_reports,omitempty"`                                   // Check reports against the report schema
	AllowedOrigins  []string         `json:"allowed_origins,omitempty" validate:"dive,required"`           // CORS origins
	Log             logger.Config    `json:"log"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Port:           8080,
		MaxUploadBytes: 10 << 20,
		ShareLinkDays:  30,
		AllowedOrigins: []string{"*"},
		Log: logger.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional config file, fills unset values from Defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields with the non-empty environment values returned by getenv
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv(EnvRulesPath); v != "" {
		c.RulesPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = port
	}
	return nil
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Weights != nil {
		if err := c.Weights.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	// Validate file paths exist (if specified)
	if c.RulesPath != "" {
		if _, err := os.Stat(c.RulesPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: rules file not found: %s", c.RulesPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.RulesPath == "" {
		result.RulesPath = defaults.RulesPath
	}
	if result.Weights == nil && defaults.Weights != nil {
		w := *defaults.Weights
		result.Weights = &w
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.ShareLinkDays == 0 {
		result.ShareLinkDays = defaults.ShareLinkDays
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = append([]string(nil), defaults.AllowedOrigins...)
	}
	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}
	if result.Log.Format == "" {
		result.Log.Format = defaults.Log.Format
	}
	if result.Log.TimeFormat == "" {
		result.Log.TimeFormat = defaults.Log.TimeFormat
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// ScoringWeights returns the configured weights or the default weights
func (c *Config) ScoringWeights() scoring.Weights {
	if c.Weights == nil {
		return scoring.DefaultWeights()
	}
	return *c.Weights
}

// ShareTTL returns the share link lifetime
func (c *Config) ShareTTL() time.Duration {
	return time.Duration(c.ShareLinkDays) * 24 * time.Hour
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
