package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// CSV writes a user's evaluation history, one row per evaluation in the given order
func CSV(w io.Writer, evaluations []types.Evaluation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range evaluations {
		if err := cw.Write(historyRecord(e)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
