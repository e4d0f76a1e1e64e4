// Package types provides type definitions for structured data used throughout the resume-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Format identifies one of the supported uploaded document formats
type Format string

// Supported document formats
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// SupportedFormats lists every accepted format in a fixed order
var SupportedFormats = []Format{FormatPDF, FormatDOCX}

// Valid reports whether f is one of the supported formats
func (f Format) Valid() bool {
	switch f {
	case FormatPDF, FormatDOCX:
		return true
	default:
		return false
	}
}

// Document is an uploaded file waiting for text extraction.
// It is owned by the extraction call and discarded once text is produced.
type Document struct {
	Name   string `json:"name,omitempty"`
	Format Format `json:"format"`
	Data   []byte `json:"-"`
}

// ExtractedText is the plain text of a document plus lightweight structural hints
type ExtractedText struct {
	Text string `json:"text"`
	// Lines holds the non-empty lines of Text in order
	Lines []string `json:"lines"`
	// Sections holds canonical section header names in order of first appearance
	Sections []string `json:"sections"`
	// Bullets holds the content of bullet lines with the bullet marker removed
	Bullets []string `json:"bullets"`
}

// HasSection reports whether a canonical section header was detected
func (t *ExtractedText) HasSection(name string) bool {
	for _, s := range t.Sections {
		if s == name {
			return true
		}
	}
	return false
}
