package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/midata/internal/midata"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"zed", "alice", "bob"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
	}
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")

	dirs, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "alice"),
		filepath.Join(root, "bob"),
		filepath.Join(root, "zed"),
	}, dirs)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "Data"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_CreatesEmptyArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "alice")
	require.NoError(t, os.Mkdir(dir, 0o755))

	f, err := Open(dir, DefaultLayout)
	require.NoError(t, err)
	assert.Equal(t, "alice", f.Name)
	assert.Equal(t, filepath.Join(dir, "midata_master_copy.csv"), f.ArchivePath)
	assert.Equal(t, filepath.Join(dir, "statements"), f.StatementsDir)

	data, err := os.ReadFile(f.ArchivePath)
	require.NoError(t, err)
	assert.Equal(t, midata.ArchiveHeader+"\n", string(data))
}

func TestOpen_KeepsExistingArchive(t *testing.T) {
	dir := t.TempDir()
	existing := midata.ArchiveHeader + "\n01/01/2020,1.00,1.00\n"
	writeFile(t, filepath.Join(dir, "midata_master_copy.csv"), existing)

	_, err := Open(dir, DefaultLayout)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "midata_master_copy.csv"))
	require.NoError(t, err)
	assert.Equal(t, existing, string(data))
}

func TestOpen_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.csv")
	writeFile(t, path, "x")

	_, err := Open(path, DefaultLayout)
	assert.Error(t, err)
}

func TestStatements(t *testing.T) {
	dir := t.TempDir()
	stmts := filepath.Join(dir, "statements")
	writeFile(t, filepath.Join(stmts, "march.csv"), "x")
	writeFile(t, filepath.Join(stmts, "April.CSV"), "x")
	writeFile(t, filepath.Join(stmts, "readme.txt"), "x")
	require.NoError(t, os.Mkdir(filepath.Join(stmts, "old.csv"), 0o755))

	f, err := Open(dir, DefaultLayout)
	require.NoError(t, err)

	got, err := f.Statements()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "April.CSV", got[0].Name)
	assert.Equal(t, "march.csv", got[1].Name)
	assert.Equal(t, filepath.Join(stmts, "march.csv"), got[1].Path)
	assert.Equal(t, int64(1), got[1].Size)
}

func TestStatements_NoFolder(t *testing.T) {
	f, err := Open(t.TempDir(), DefaultLayout)
	require.NoError(t, err)

	got, err := f.Statements()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestArchive_SaveLoad(t *testing.T) {
	f, err := Open(t.TempDir(), Layout{ArchiveFile: "master.csv", StatementsDir: "in"})
	require.NoError(t, err)

	empty, err := f.LoadArchive()
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	archive := midata.CleanFromRows(midata.Row{
		Date:         "01/01/2020",
		Transactions: decimal.RequireFromString("-3.2"),
		Balance:      decimal.RequireFromString("996.8"),
	})
	require.NoError(t, f.SaveArchive(archive))

	data, err := os.ReadFile(f.ArchivePath)
	require.NoError(t, err)
	assert.Equal(t, midata.ArchiveHeader+"\n01/01/2020,-3.20,996.80\n", string(data))

	got, err := f.LoadArchive()
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "01/01/2020", got.Rows()[0].Date)

	entries, err := os.ReadDir(f.Path)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLoadArchive_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "midata_master_copy.csv"), "Date,Balance\n01/01/2020,1\n")

	f, err := Open(dir, DefaultLayout)
	require.NoError(t, err)

	_, err = f.LoadArchive()
	var schemaErr *midata.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, midata.ColTransactions, schemaErr.Issues[0].Column)
}

func TestLoadStatement_Testdata(t *testing.T) {
	f, err := Open(t.TempDir(), DefaultLayout)
	require.NoError(t, err)

	tbl, err := f.LoadStatement(filepath.Join("..", "..", "testdata", "midata_valid.csv"))
	require.NoError(t, err)
	assert.Equal(t, midata.ColRawDate, tbl.Columns[0])
	assert.Equal(t, 4, tbl.Len())
}

func TestReadStatement_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	writeFile(t, path, "")

	_, err := ReadStatement(path)
	assert.ErrorIs(t, err, midata.ErrEmptyCSV)
}

func TestSaveArchive_FileMode(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(dir, DefaultLayout)
	require.NoError(t, err)

	info, err := os.Stat(f.ArchivePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm(), "new archive")

	require.NoError(t, os.Chmod(f.ArchivePath, 0o640))
	require.NoError(t, f.SaveArchive(midata.EmptyClean()))

	info, err = os.Stat(f.ArchivePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm(), "existing mode is kept")
}
