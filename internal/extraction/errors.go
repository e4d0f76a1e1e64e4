// Package extraction converts uploaded resume documents into plain text with structural hints.
package extraction

import (
	"fmt"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// UnsupportedFormatError is returned when a format tag is outside the supported set.
// It is raised before any decoding is attempted.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Format == "" {
		return "unsupported document format: (empty)"
	}
	return fmt.Sprintf("unsupported document format: %s", e.Format)
}

// ExtractionError represents document bytes that cannot be parsed as their declared format
type ExtractionError struct {
	Format  types.Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error (%s): %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error (%s): %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
