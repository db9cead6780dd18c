package midata

import "github.com/shopspring/decimal"

// Row is one line of a clean table.
type Row struct {
	Date         string
	Transactions decimal.Decimal
	Balance      decimal.Decimal
}

// Clean is a table in the canonical Date/Transactions/Balance shape. A cleaned
// statement and an account archive are both Clean values.
type Clean struct {
	rows []Row
}

// NewClean validates t against the clean shape and converts it to typed rows.
func NewClean(t Table) (*Clean, error) {
	if issues := Validate(t, ShapeClean); len(issues) > 0 {
		return nil, &SchemaError{Shape: ShapeClean, Issues: issues}
	}

	date, txn, bal := t.Index(ColDate), t.Index(ColTransactions), t.Index(ColBalance)
	c := &Clean{rows: make([]Row, 0, t.Len())}
	for _, row := range t.Rows {
		// Validate has already proved both amounts parse.
		amount, _ := parseNumber(row[txn].Text)
		balance, _ := parseNumber(row[bal].Text)
		c.rows = append(c.rows, Row{
			Date:         row[date].Text,
			Transactions: amount,
			Balance:      balance,
		})
	}
	return c, nil
}

// EmptyClean returns a clean table with no rows.
func EmptyClean() *Clean {
	return &Clean{}
}

// CleanFromRows builds a clean table directly from typed rows.
func CleanFromRows(rows ...Row) *Clean {
	return &Clean{rows: append([]Row(nil), rows...)}
}

// Rows returns a copy of the rows in order.
func (c *Clean) Rows() []Row {
	return append([]Row(nil), c.rows...)
}

// Len returns the number of rows.
func (c *Clean) Len() int {
	return len(c.rows)
}

// Dates returns the distinct dates in first-seen order.
func (c *Clean) Dates() []string {
	seen := make(map[string]bool, len(c.rows))
	var dates []string
	for _, r := range c.rows {
		if !seen[r.Date] {
			seen[r.Date] = true
			dates = append(dates, r.Date)
		}
	}
	return dates
}

// Table renders the rows back into a clean-shaped Table with amounts fixed
// to two decimal places.
func (c *Clean) Table() Table {
	t := Table{Columns: Columns(ShapeClean)}
	for _, r := range c.rows {
		t.Rows = append(t.Rows, []Cell{
			Text(r.Date),
			Text(r.Transactions.StringFixed(2)),
			Text(r.Balance.StringFixed(2)),
		})
	}
	return t
}
