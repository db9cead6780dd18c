package midata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ArchiveHeader is the CSV header of an account archive.
const ArchiveHeader = "Date,Transactions,Balance"

const bom = "\ufeff"

// ErrEmptyCSV is returned by ReadTable when the input has no header row.
var ErrEmptyCSV = errors.New("csv has no header row")

// ReadTable reads a CSV with a header row into a Table. Header names are kept
// verbatim, empty fields become missing cells and short rows are padded with
// missing cells. A row with more fields than the header is an error.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return Table{}, ErrEmptyCSV
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	t := Table{Columns: header}
	for i, rec := range records[1:] {
		if len(rec) > len(header) {
			return Table{}, fmt.Errorf("row %d: expected at most %d fields, got %d", i+2, len(header), len(rec))
		}
		t.Rows = append(t.Rows, UnmarshalRow(rec, len(header)))
	}
	return t, nil
}

// WriteTable writes t as CSV, header first. Missing cells are written empty.
func WriteTable(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteArchive writes a clean table in the archive format.
func WriteArchive(w io.Writer, c *Clean) error {
	return WriteTable(w, c.Table())
}

// ReadArchive reads an archive CSV and validates it as a clean table.
func ReadArchive(r io.Reader) (*Clean, error) {
	t, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	return NewClean(t)
}

// MarshalRow converts cells to CSV fields.
func MarshalRow(row []Cell) []string {
	fields := make([]string, len(row))
	for i, c := range row {
		if c.Valid {
			fields[i] = c.Text
		}
	}
	return fields
}

// UnmarshalRow converts CSV fields to width cells.
func UnmarshalRow(record []string, width int) []Cell {
	row := make([]Cell, width)
	for i := 0; i < width && i < len(record); i++ {
		if record[i] != "" {
			row[i] = Text(record[i])
		}
	}
	return row
}
