package midata

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable_KeepsHeaderVerbatim(t *testing.T) {
	in := " Date,Type,Merchant/Description,Debit/Credit,Balance\n01/01/2020,DEB,SHOP,-£3.20,+£996.80\n"

	tbl, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, rawColumns, tbl.Columns)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, Text("-£3.20"), tbl.Rows[0][3])
}

func TestReadTable_StripsBOM(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("\ufeffDate,Transactions,Balance\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{ColDate, ColTransactions, ColBalance}, tbl.Columns)
	assert.Equal(t, 0, tbl.Len())
}

func TestReadTable_MissingAndShortRows(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("a,b,c\n1,,3\n4\n"))
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	assert.Equal(t, []Cell{Text("1"), Missing(), Text("3")}, tbl.Rows[0])
	assert.Equal(t, []Cell{Text("4"), Missing(), Missing()}, tbl.Rows[1])
}

func TestReadTable_LongRow(t *testing.T) {
	_, err := ReadTable(strings.NewReader("a,b\n1,2\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestReadTable_Empty(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmptyCSV))
}

func TestReadTable_Malformed(t *testing.T) {
	_, err := ReadTable(strings.NewReader("a,b\n\"unterminated,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading CSV")
}

func TestWriteTable_MissingCellsEmpty(t *testing.T) {
	tbl := NewTable([]string{"a", "b"}, []string{"1", ""}, []string{"", "x,y"})

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, tbl))
	assert.Equal(t, "a,b\n1,\n,\"x,y\"\n", buf.String())
}

func TestWriteArchive_Format(t *testing.T) {
	archive := CleanFromRows(
		row("01/01/2020", "1000", "1000"),
		row("02/01/2020", "-4.5", "995.5"),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, archive))
	assert.Equal(t, ArchiveHeader+"\n01/01/2020,1000.00,1000.00\n02/01/2020,-4.50,995.50\n", buf.String())
}

func TestWriteArchive_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, EmptyClean()))
	assert.Equal(t, ArchiveHeader+"\n", buf.String())
}

func TestArchive_RoundTrip(t *testing.T) {
	archive := CleanFromRows(
		row("01/01/2020", "1.32", "1000"),
		row("02/01/2020", "-0.01", "999.99"),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, archive))

	got, err := ReadArchive(&buf)
	require.NoError(t, err)
	require.Equal(t, archive.Len(), got.Len())
	for i, r := range got.Rows() {
		want := archive.Rows()[i]
		assert.Equal(t, want.Date, r.Date)
		assert.True(t, want.Transactions.Equal(r.Transactions), "row %d transactions", i)
		assert.True(t, want.Balance.Equal(r.Balance), "row %d balance", i)
	}
}

func TestReadArchive_Invalid(t *testing.T) {
	_, err := ReadArchive(strings.NewReader("Date,Transactions\n01/01/2020,1\n"))

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, ShapeClean, schemaErr.Shape)
	assert.Equal(t, ColBalance, schemaErr.Issues[0].Column)
}

func TestReadTable_Testdata(t *testing.T) {
	f, err := os.Open(filepath.Join("..", "..", "testdata", "midata_valid.csv"))
	require.NoError(t, err)
	defer f.Close()

	tbl, err := ReadTable(f)
	require.NoError(t, err)
	assert.Equal(t, rawColumns, tbl.Columns)
	assert.Equal(t, 4, tbl.Len())

	raw, err := NewRaw(tbl)
	require.NoError(t, err)
	clean, err := raw.Clean()
	require.NoError(t, err)

	assert.Equal(t, []string{"03/01/2020", "02/01/2020", "01/01/2020"}, clean.Dates())
	assert.Equal(t, "-45.12", clean.Rows()[1].Transactions.StringFixed(2))
}

func TestReadTable_TestdataInvalid(t *testing.T) {
	f, err := os.Open(filepath.Join("..", "..", "testdata", "midata_invalid.csv"))
	require.NoError(t, err)
	defer f.Close()

	tbl, err := ReadTable(f)
	require.NoError(t, err)

	_, err = NewRaw(tbl)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Len(t, schemaErr.Issues, 1)
	assert.Equal(t, ColBalance, schemaErr.Issues[0].Column)
}
