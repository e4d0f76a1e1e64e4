// Package export renders stored evaluations as downloadable JSON, CSV and XLSX files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// Content types of the export formats
const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// historyHeader is the column layout shared by the CSV and XLSX history exports
var historyHeader = []string{
	"Date", "Filename", "Overall Score", "Label",
	"ATS Score", "Keyword Score", "Grammar Score", "Structure Score", "Skills Score",
	"JD Match %",
}

// JSON writes one evaluation as indented JSON
func JSON(w io.Writer, e types.Evaluation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("failed to encode evaluation: %w", err)
	}
	return nil
}

// Filename returns the download name for an export of the given kind
func Filename(prefix, ext string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, at.UTC().Format("20060102_150405"), ext)
}

// historyValues returns the typed cell values of one history row
func historyValues(e types.Evaluation) []interface{} {
	values := []interface{}{
		e.CreatedAt.UTC().Format(time.RFC3339),
		e.Filename,
		e.Report.Overall,
		string(e.Report.Label),
	}
	for _, name := range types.ScorerNames {
		values = append(values, e.Report.Value(name))
	}
	return append(values, e.Report.JDMatch)
}

// historyRecord returns one history row as CSV fields
func historyRecord(e types.Evaluation) []string {
	values := historyValues(e)
	record := make([]string, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case float64:
			record[i] = strconv.FormatFloat(val, 'f', 2, 64)
		case string:
			record[i] = val
		default:
			record[i] = fmt.Sprint(val)
		}
	}
	return record
}
