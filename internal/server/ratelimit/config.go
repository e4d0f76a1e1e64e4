package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// Environment variables read by FromEnv
const (
	EnvEnabled       = "RATE_LIMIT_ENABLED"
	EnvDefaultLimit  = "RATE_LIMIT_DEFAULT_LIMIT"
	EnvDefaultWindow = "RATE_LIMIT_DEFAULT_WINDOW"
	EnvUploadLimit   = "RATE_LIMIT_UPLOAD_LIMIT"
	EnvAllowlist     = "RATE_LIMIT_ALLOWLIST"
	EnvDenylist      = "RATE_LIMIT_DENYLIST"
)

// Rule limits one method on a path. A Path ending in "/" matches every path below it.
type Rule struct {
	Method string
	Path   string
	Limit  int           // requests per Window, 0 means unlimited
	Window time.Duration
	Burst  int           // bucket capacity, defaults to Limit
}

// Config holds rate limiting configuration
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // buckets unused this long are dropped
	Allowlist       map[string]bool
	Denylist        map[string]bool
	Rules           []Rule
}

// DefaultConfig returns limits suited to the evaluation API: uploads run the whole
// pipeline and are throttled hardest, reads fall back to the default limit.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Allowlist:       map[string]bool{},
		Denylist:        map[string]bool{},
		Rules:           DefaultRules(60),
	}
}

// DefaultRules returns the per-endpoint rules with the given hourly upload limit
func DefaultRules(uploadsPerHour int) []Rule {
	return []Rule{
		{Method: "GET", Path: "/health"},
		{Method: "POST", Path: "/evaluations", Limit: uploadsPerHour, Window: time.Hour, Burst: 5},
		{Method: "POST", Path: "/evaluations/", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "DELETE", Path: "/evaluations/", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// FromEnv builds a Config from DefaultConfig and the values returned by getenv.
// Malformed values are ignored.
func FromEnv(getenv func(string) string) *Config {
	cfg := DefaultConfig()
	if v, ok := parseBool(getenv(EnvEnabled)); ok {
		cfg.Enabled = v
	}
	if v, ok := parseInt(getenv(EnvDefaultLimit)); ok {
		cfg.DefaultLimit = v
	}
	if v, err := time.ParseDuration(getenv(EnvDefaultWindow)); err == nil && v > 0 {
		cfg.DefaultWindow = v
	}
	if v, ok := parseInt(getenv(EnvUploadLimit)); ok {
		cfg.Rules = DefaultRules(v)
	}
	cfg.Allowlist = parseIPList(getenv(EnvAllowlist))
	cfg.Denylist = parseIPList(getenv(EnvDenylist))
	return cfg
}

func parseBool(s string) (bool, bool) {
	if s == "" {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	return v, err == nil
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	return v, err == nil && v >= 0
}

// parseIPList parses a comma separated list of addresses into a set
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
