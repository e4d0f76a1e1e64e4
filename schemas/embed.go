// Package schemas holds the JSON Schema documents for rule files and score reports.
package schemas

import "embed"

// Files contains every *.schema.json document in this directory
//
//go:embed *.schema.json
var Files embed.FS

// Schema file names
const (
	RulesSchema  = "rules.schema.json"
	ReportSchema = "report.schema.json"
)
