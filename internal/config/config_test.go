package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-evaluator/internal/scoring"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func noEnv(string) string { return "" }

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"database_url": "postgres://localhost/resume",
		"port": 9090,
		"max_upload_bytes": 1048576,
		"share_link_days": 7,
		"validate_reports": true,
		"weights": {"ats": 0.2, "keywords": 0.2, "grammar": 0.2, "structure": 0.2, "skills": 0.2},
		"log": {"level": "debug", "format": "pretty"}
	}`

	cfg, err := LoadConfig(writeFile(t, "config.json", content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://localhost/resume", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
	assert.Equal(t, 7, cfg.ShareLinkDays)
	assert.True(t, cfg.ValidateReports)
	require.NotNil(t, cfg.Weights)
	assert.Equal(t, 0.2, cfg.Weights.Skills)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "pretty", cfg.Log.Format)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "config.json", `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 3000}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 3000, merged.Port)
	assert.Equal(t, int64(10<<20), merged.MaxUploadBytes)
	assert.Equal(t, 30, merged.ShareLinkDays)
	assert.Equal(t, []string{"*"}, merged.AllowedOrigins)
	assert.Equal(t, "info", merged.Log.Level)
	assert.Equal(t, "json", merged.Log.Format)
	assert.Nil(t, merged.Weights)
	assert.Equal(t, scoring.DefaultWeights(), merged.ScoringWeights())
}

func TestMergeWithDefaults_CopiesWeights(t *testing.T) {
	w := scoring.DefaultWeights()
	defaults := Defaults()
	defaults.Weights = &w

	merged := (&Config{}).MergeWithDefaults(defaults)
	require.NotNil(t, merged.Weights)
	merged.Weights.ATS = 1
	assert.Equal(t, 0.25, w.ATS)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDatabaseURL: "postgres://env/db",
		EnvPort:        "7000",
		EnvLogLevel:    "warn",
		EnvRulesPath:   "/etc/rules.yaml",
	}
	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/etc/rules.yaml", cfg.RulesPath)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	cfg := Defaults()
	err := cfg.ApplyEnv(func(k string) string {
		if k == EnvPort {
			return "eighty"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PORT")
}

func TestApplyEnv_EmptyKeepsValues(t *testing.T) {
	cfg := Defaults()
	cfg.DatabaseURL = "postgres://file/db"
	require.NoError(t, cfg.ApplyEnv(noEnv))
	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.Port)
}

func TestValidate(t *testing.T) {
	rulesFile := writeFile(t, "rules.json", `{}`)

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"existing rules file", func(c *Config) { c.RulesPath = rulesFile }, ""},
		{"missing rules file", func(c *Config) { c.RulesPath = "/nonexistent/rules.json" }, "rules file not found"},
		{"port out of range", func(c *Config) { c.Port = 70000 }, "Port"},
		{"negative upload limit", func(c *Config) { c.MaxUploadBytes = -1 }, "MaxUploadBytes"},
		{"share link too long", func(c *Config) { c.ShareLinkDays = 1000 }, "ShareLinkDays"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "Format"},
		{"empty origin", func(c *Config) { c.AllowedOrigins = []string{""} }, "AllowedOrigins"},
		{"weights not summing to one", func(c *Config) {
			c.Weights = &scoring.Weights{ATS: 0.5}
		}, "weights must sum to 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvRulesPath, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults().Port, cfg.Port)

	path := writeFile(t, "config.json", `{"port": 9999, "share_link_days": 3}`)
	t.Setenv(EnvPort, "8181")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, 3, cfg.ShareLinkDays)
	assert.Equal(t, 72*time.Hour, cfg.ShareTTL())
	assert.Equal(t, ":8181", cfg.Addr())

	_, err = Load(writeFile(t, "bad.json", `{"share_link_days": 1000}`))
	assert.Error(t, err)
}
