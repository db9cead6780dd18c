package midata

import "strings"

// Raw is a statement table known to satisfy the raw shape.
type Raw struct {
	table Table
}

// NewRaw validates t against the raw shape. On failure it returns a
// *SchemaError carrying every issue.
func NewRaw(t Table) (*Raw, error) {
	if issues := Validate(t, ShapeRaw); len(issues) > 0 {
		return nil, &SchemaError{Shape: ShapeRaw, Issues: issues}
	}
	return &Raw{table: t.Copy()}, nil
}

// Table returns a copy of the underlying table.
func (r *Raw) Table() Table {
	return r.table.Copy()
}

// Len returns the number of statement rows, including incomplete ones.
func (r *Raw) Len() int {
	return r.table.Len()
}

var symbolStripper = strings.NewReplacer("£", "", "+", "")

// Clean converts the statement to the clean shape: the type and description
// columns are dropped, incomplete rows are removed, columns are renamed and
// amounts are stripped of "£" and "+" then rounded to two decimal places. A
// value that is still not a number fails the clean shape and is returned as
// a *SchemaError.
func (r *Raw) Clean() (*Clean, error) {
	t := r.table.Copy()

	t.dropColumns(ColType, ColDescription)
	t.dropIncompleteRows()
	t.rename(ColDebitCredit, ColTransactions)
	t.rename(ColRawDate, ColDate)

	for _, col := range []string{ColTransactions, ColBalance} {
		t.mapColumn(col, func(c Cell) Cell {
			c.Text = symbolStripper.Replace(c.Text)
			d, err := parseNumber(c.Text)
			if err != nil {
				return c
			}
			return Text(d.Round(2).StringFixed(2))
		})
	}

	return NewClean(t)
}
