package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-evaluator/internal/schemas"
	schemafiles "github.com/jonathan/resume-evaluator/schemas"
)

// Supported rule file encodings
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

//go:embed default_rules.json
var defaultRules []byte

// cache stores the parsed embedded rules to avoid repeated parsing
var (
	cache   *Rules
	cacheMu sync.RWMutex
)

// Default returns the embedded rule set. The returned value is shared and must not be modified.
func Default() (*Rules, error) {
	cacheMu.RLock()
	if cache != nil {
		defer cacheMu.RUnlock()
		return cache, nil
	}
	cacheMu.RUnlock()

	r, err := Parse(defaultRules, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("embedded rules are invalid: %w", err)
	}

	cacheMu.Lock()
	cache = r
	cacheMu.Unlock()
	return r, nil
}

// MustDefault returns the embedded rule set, panicking if it cannot be parsed.
// Use this for rules that are required at initialization time.
func MustDefault() *Rules {
	r, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load rules: %v", err))
	}
	return r
}

// ClearCache clears the embedded rules cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = nil
	cacheMu.Unlock()
}

// DefaultJSON returns a copy of the embedded rules document
func DefaultJSON() []byte {
	return append([]byte(nil), defaultRules...)
}

// Load returns the rules at path, or the embedded rules when path is empty
func Load(path string) (*Rules, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads a rule file. The encoding is chosen by extension: .json, .yaml or .yml.
func LoadFile(path string) (*Rules, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RulesError{Message: fmt.Sprintf("failed to read rules file %s", path), Cause: err}
	}

	return Parse(data, format)
}

// Parse decodes, schema-checks, normalizes and validates a rule document
func Parse(data []byte, format string) (*Rules, error) {
	jsonData, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemafiles.RulesSchema, jsonData); err != nil {
		return nil, &RulesError{Message: "rules do not match schema", Cause: err}
	}

	var r Rules
	if err := json.Unmarshal(jsonData, &r); err != nil {
		return nil, &RulesError{Message: "failed to decode rules", Cause: err}
	}

	r.normalize()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func toJSON(data []byte, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		if !json.Valid(data) {
			return nil, &RulesError{Message: "rules file is not valid JSON"}
		}
		return data, nil
	case FormatYAML:
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &RulesError{Message: "failed to parse YAML", Cause: err}
		}
		if doc == nil {
			return nil, &RulesError{Message: "rules file is empty"}
		}
		jsonData, err := json.Marshal(doc)
		if err != nil {
			return nil, &RulesError{Message: "failed to convert YAML to JSON", Cause: err}
		}
		return jsonData, nil
	default:
		return nil, &RulesError{Message: fmt.Sprintf("unsupported rules format %q", format)}
	}
}

func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &RulesError{Message: fmt.Sprintf("unsupported rules file extension for %s (want .json, .yaml or .yml)", path)}
	}
}
