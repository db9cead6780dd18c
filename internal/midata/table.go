// Package midata validates, cleans and merges bank statement tables.
//
// A statement arrives as a raw Table, becomes a *Raw once it passes the raw
// schema, is cleaned into a *Clean and finally merged into an account's
// archive (also a *Clean) with MergeInto. Nothing in this package touches the
// filesystem or logs.
package midata

// Cell is one value in a Table. A cell without Valid set is missing, which is
// how an empty CSV field is represented.
type Cell struct {
	Text  string
	Valid bool
}

// Text returns a present cell holding s.
func Text(s string) Cell {
	return Cell{Text: s, Valid: true}
}

// Missing returns an absent cell.
func Missing() Cell {
	return Cell{}
}

// Table is a set of named columns over ordered rows. Every row holds one cell
// per column, in column order.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// NewTable builds a Table from column names and text rows. Empty strings
// become missing cells.
func NewTable(columns []string, rows ...[]string) Table {
	t := Table{Columns: append([]string(nil), columns...)}
	for _, r := range rows {
		row := make([]Cell, len(columns))
		for i := range row {
			if i < len(r) && r[i] != "" {
				row[i] = Text(r[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Index returns the position of the named column, or -1.
func (t Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column, or nil if it does not exist.
func (t Table) Column(column string) []Cell {
	i := t.Index(column)
	if i < 0 {
		return nil
	}
	cells := make([]Cell, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			cells[r] = row[i]
		}
	}
	return cells
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Copy returns a deep copy of t.
func (t Table) Copy() Table {
	c := Table{Columns: append([]string(nil), t.Columns...)}
	if t.Rows != nil {
		c.Rows = make([][]Cell, len(t.Rows))
		for i, row := range t.Rows {
			c.Rows[i] = append([]Cell(nil), row...)
		}
	}
	return c
}

func (t *Table) dropColumns(names ...string) {
	for _, name := range names {
		i := t.Index(name)
		if i < 0 {
			continue
		}
		t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
		for r, row := range t.Rows {
			if i < len(row) {
				t.Rows[r] = append(row[:i], row[i+1:]...)
			}
		}
	}
}

func (t *Table) dropIncompleteRows() {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		complete := len(row) == len(t.Columns)
		for _, c := range row {
			if !c.Valid {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
}

func (t *Table) rename(from, to string) {
	if i := t.Index(from); i >= 0 {
		t.Columns[i] = to
	}
}

func (t *Table) mapColumn(column string, fn func(Cell) Cell) {
	i := t.Index(column)
	if i < 0 {
		return
	}
	for _, row := range t.Rows {
		if i < len(row) {
			row[i] = fn(row[i])
		}
	}
}
