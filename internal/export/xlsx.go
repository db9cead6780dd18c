// Package export writes account archives to spreadsheet formats.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/midata/internal/midata"
)

const defaultSheet = "Sheet1"

// numFmtTwoDecimals is the built-in "0.00" number format.
const numFmtTwoDecimals = 2

// WriteXLSX writes archive as a single-sheet workbook: a bold header row
// then one row per archive row, amounts as numeric cells.
func WriteXLSX(w io.Writer, archive *midata.Clean, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	columns := midata.Columns(midata.ShapeClean)
	for i, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(sheet, cell, name); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	rows := archive.Rows()
	for i, r := range rows {
		n := i + 2
		if err := f.SetCellStr(sheet, fmt.Sprintf("A%d", n), r.Date); err != nil {
			return fmt.Errorf("row %d: %w", n, err)
		}
		if err := f.SetCellFloat(sheet, fmt.Sprintf("B%d", n), r.Transactions.InexactFloat64(), 2, 64); err != nil {
			return fmt.Errorf("row %d: %w", n, err)
		}
		if err := f.SetCellFloat(sheet, fmt.Sprintf("C%d", n), r.Balance.InexactFloat64(), 2, 64); err != nil {
			return fmt.Errorf("row %d: %w", n, err)
		}
	}
	if len(rows) > 0 {
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("C%d", len(rows)+1), amount); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}
	}

	for i, name := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(name) + 4)
		if width < 14 {
			width = 14
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("sizing columns: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
