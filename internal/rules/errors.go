package rules

import "fmt"

// RulesError represents a rule set that cannot be loaded or fails validation
//
//nolint:revive // RulesError reads better than Error at call sites
type RulesError struct {
	Field   string
	Message string
	Cause   error
}

func (e *RulesError) Error() string {
	prefix := "rules error"
	if e.Field != "" {
		prefix = fmt.Sprintf("rules error at %s", e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *RulesError) Unwrap() error {
	return e.Cause
}
