package midata

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Shape names one of the two column contracts a Table can claim.
type Shape string

const (
	ShapeRaw   Shape = "raw"
	ShapeClean Shape = "clean"
)

// Column names of the raw statement export. The leading space in ColRawDate is
// part of the exported header.
const (
	ColRawDate     = " Date"
	ColType        = "Type"
	ColDescription = "Merchant/Description"
	ColDebitCredit = "Debit/Credit"
	ColBalance     = "Balance"
)

// Column names of the clean shape.
const (
	ColDate         = "Date"
	ColTransactions = "Transactions"
)

type valueKind int

const (
	kindText valueKind = iota
	kindNumber
)

type columnRule struct {
	name       string
	kind       valueKind
	needsDigit bool
}

var shapes = map[Shape][]columnRule{
	ShapeRaw: {
		{name: ColRawDate, kind: kindText},
		{name: ColType, kind: kindText},
		{name: ColDescription, kind: kindText},
		{name: ColDebitCredit, kind: kindText, needsDigit: true},
		{name: ColBalance, kind: kindText, needsDigit: true},
	},
	ShapeClean: {
		{name: ColDate, kind: kindText},
		{name: ColTransactions, kind: kindNumber},
		{name: ColBalance, kind: kindNumber},
	},
}

// Columns returns the column names required by shape, in order.
func Columns(shape Shape) []string {
	rules := shapes[shape]
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Issue is one defect found in a Table. Column is empty for issues that
// concern the table as a whole.
type Issue struct {
	Column string
	Reason string
}

func (i Issue) String() string {
	if i.Column == "" {
		return i.Reason
	}
	return fmt.Sprintf("column %q: %s", i.Column, i.Reason)
}

// SchemaError reports that a Table does not conform to a Shape. It carries
// every issue found, not only the first.
type SchemaError struct {
	Shape  Shape
	Issues []Issue
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("not a valid %s midata table: %d issue(s)", e.Shape, len(e.Issues))
}

// Report renders the issues one per line.
func (e *SchemaError) Report() string {
	var b strings.Builder
	for _, issue := range e.Issues {
		b.WriteString(issue.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Validate checks t against shape and returns every issue found. An empty
// result means t conforms. Unknown shapes yield a single issue.
func Validate(t Table, shape Shape) []Issue {
	rules, ok := shapes[shape]
	if !ok {
		return []Issue{{Reason: fmt.Sprintf("unknown shape %q", shape)}}
	}

	var issues []Issue
	var ragged []int
	for r, row := range t.Rows {
		if len(row) != len(t.Columns) {
			ragged = append(ragged, r+1)
		}
	}
	if len(ragged) > 0 {
		issues = append(issues, Issue{
			Reason: fmt.Sprintf("row width does not match the %d columns (rows %s)", len(t.Columns), joinRows(ragged)),
		})
	}

	for _, rule := range rules {
		if t.Index(rule.name) < 0 {
			issues = append(issues, Issue{Column: rule.name, Reason: "column is missing"})
			continue
		}
		cells := t.Column(rule.name)

		var badType, noDigit []int
		for r, c := range cells {
			if !convertible(c, rule.kind) {
				badType = append(badType, r+1)
			}
			if rule.needsDigit && !ContainsDigit(c) {
				noDigit = append(noDigit, r+1)
			}
		}
		if len(badType) > 0 {
			issues = append(issues, Issue{
				Column: rule.name,
				Reason: fmt.Sprintf("not convertible to %s (rows %s)", rule.kind, joinRows(badType)),
			})
		}
		if len(noDigit) > 0 {
			issues = append(issues, Issue{
				Column: rule.name,
				Reason: fmt.Sprintf("no digit found in value (rows %s)", joinRows(noDigit)),
			})
		}
	}

	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		switch {
		case !hasRule(rules, c):
			issues = append(issues, Issue{Column: c, Reason: "unexpected column"})
		case seen[c]:
			issues = append(issues, Issue{Column: c, Reason: "duplicate column"})
		}
		seen[c] = true
	}
	return issues
}

// ContainsDigit reports whether c holds at least one ASCII digit. Missing
// cells and cells that are not valid text pass, so a type failure is not
// reported twice.
func ContainsDigit(c Cell) bool {
	if !c.Valid || !utf8.ValidString(c.Text) {
		return true
	}
	return strings.ContainsAny(c.Text, "0123456789")
}

func (k valueKind) String() string {
	if k == kindNumber {
		return "a number"
	}
	return "text"
}

func convertible(c Cell, kind valueKind) bool {
	switch kind {
	case kindNumber:
		if !c.Valid {
			return false
		}
		_, err := parseNumber(c.Text)
		return err == nil
	default:
		return !c.Valid || utf8.ValidString(c.Text)
	}
}

func parseNumber(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

func hasRule(rules []columnRule, name string) bool {
	for _, r := range rules {
		if r.name == name {
			return true
		}
	}
	return false
}

func joinRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprint(r)
	}
	return strings.Join(parts, ", ")
}
