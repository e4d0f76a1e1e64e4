package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/resume-evaluator/internal/history"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// Sheet names of the XLSX export
const (
	HistorySheet = "History"
	SummarySheet = "Summary"
)

// XLSX writes a workbook with the evaluation history and a trend summary.
// evaluations must be ordered newest first.
func XLSX(w io.Writer, evaluations []types.Evaluation) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", HistorySheet); err != nil {
		return fmt.Errorf("failed to name history sheet: %w", err)
	}
	if err := writeHistorySheet(f, evaluations); err != nil {
		return err
	}
	if err := writeSummarySheet(f, evaluations); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHistorySheet(f *excelize.File, evaluations []types.Evaluation) error {
	header := make([]interface{}, len(historyHeader))
	for i, h := range historyHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(HistorySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(historyHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(HistorySheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, e := range evaluations {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := historyValues(e)
		if err := f.SetSheetRow(HistorySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(HistorySheet, "A", "B", 24); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, evaluations []types.Evaluation) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	trend := history.Trend(evaluations)
	rows := [][]interface{}{
		{"Evaluations", len(evaluations)},
		{"Trend", trend.Trend},
		{"Change", trend.Change},
	}
	if len(evaluations) > 0 {
		best := evaluations[0].Report.Overall
		for _, e := range evaluations[1:] {
			if e.Report.Overall > best {
				best = e.Report.Overall
			}
		}
		rows = append(rows,
			[]interface{}{"Latest Overall", evaluations[0].Report.Overall},
			[]interface{}{"Best Overall", best},
		)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	return nil
}
