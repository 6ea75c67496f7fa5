// Package export renders analysis records for consumption outside the
// tool: machine-readable JSON and XLSX workbooks for spreadsheet review.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/docsift/docsift/internal/analysis"
	"github.com/docsift/docsift/internal/pipeline"
)

// RecordsJSON renders records as indented JSON.
func RecordsJSON(records []*pipeline.Record) ([]byte, error) {
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return out, nil
}

// RecordsXLSX renders one workbook with a row per record.
func RecordsXLSX(records []*pipeline.Record) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultSheet, _ := f.GetSheetIndex("Sheet1"); defaultSheet != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Document ID",
		"Name",
		"Type",
		"State",
		"Language",
		"Confidence",
		"Parties",
		"Dates",
		"Amounts",
		"Summary",
		"Chunks",
		"Updated",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, rec := range records {
		row := rowIdx + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, rec.DocumentID)
		write(2, rec.Name)
		write(3, rec.Result.DocumentType)
		write(4, rec.State)
		write(5, rec.Language)
		write(6, rec.Result.Confidence)
		write(7, strings.Join(rec.Result.Parties, "; "))
		write(8, formatDates(rec.Result.Dates))
		write(9, formatAmounts(rec.Result.Amounts))
		write(10, truncate(strings.Join(rec.Result.SummaryBullets, " | "), 300))
		write(11, rec.ChunkCount)
		write(12, rec.UpdatedAt.Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "E", 16)
	_ = f.SetColWidth(sheet, "F", "F", 10)
	_ = f.SetColWidth(sheet, "G", "J", 48)
	_ = f.SetColWidth(sheet, "K", "K", 8)
	_ = f.SetColWidth(sheet, "L", "L", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDates(dates []analysis.DateEntry) string {
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Label, d.Value))
	}
	return strings.Join(parts, "; ")
}

func formatAmounts(amounts []analysis.AmountEntry) string {
	parts := make([]string, 0, len(amounts))
	for _, a := range amounts {
		s := a.Concept
		if a.Value != nil {
			s += fmt.Sprintf(": %v", *a.Value)
		}
		if a.Currency != nil {
			s += " " + *a.Currency
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
