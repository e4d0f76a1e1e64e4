package scoring

import "fmt"

// ConfigurationError represents invalid scoring configuration such as weights that do not sum to 1.
// It is raised when an Aggregator or scorer set is built, never per evaluation.
type ConfigurationError struct {
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scoring configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("scoring configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
