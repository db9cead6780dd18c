package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/midata/internal/runlog"
)

const rawHeader = " Date,Type,Merchant/Description,Debit/Credit,Balance\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func copyTestdata(t *testing.T, name, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	writeFile(t, dst, string(data))
}

// newProject initializes a project with alice (valid statement, existing
// archive) and bob (invalid statement).
func newProject(t *testing.T, initArgs ...string) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runMidata(t, append([]string{"init", dir}, initArgs...)...)
	require.NoError(t, err, out)

	copyTestdata(t, "archive.csv", filepath.Join(dir, "Data", "alice", "midata_master_copy.csv"))
	copyTestdata(t, "midata_valid.csv", filepath.Join(dir, "Data", "alice", "statements", "jan.csv"))
	copyTestdata(t, "midata_invalid.csv", filepath.Join(dir, "Data", "bob", "statements", "jan.csv"))
	return dir
}

func TestRun_MergesAccounts(t *testing.T) {
	dir := newProject(t)

	out, err := runMidata(t, "run", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Archived 2 rows from 1 statements across 2 accounts (1 statements rejected, 0 accounts failed)")

	data, err := os.ReadFile(filepath.Join(dir, "Data", "alice", "midata_master_copy.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Date,Transactions,Balance\n"+
		"31/12/2019,-10.00,1045.12\n"+
		"01/01/2020,1045.12,1045.12\n"+
		"03/01/2020,-3.20,996.80\n"+
		"02/01/2020,-45.12,1000.00\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "Data", "bob", "midata_master_copy.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Date,Transactions,Balance\n", string(data))
}

func TestRun_Idempotent(t *testing.T) {
	dir := newProject(t)
	_, err := runMidata(t, "run", "--repo", dir)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "Data", "alice", "midata_master_copy.csv"))
	require.NoError(t, err)

	out, err := runMidata(t, "run", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Archived 0 rows")

	second, err := os.ReadFile(filepath.Join(dir, "Data", "alice", "midata_master_copy.csv"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestRun_LogFile(t *testing.T) {
	dir := newProject(t)
	_, err := runMidata(t, "run", "--repo", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "midata.log"))
	require.NoError(t, err)
	log := string(data)
	assert.Contains(t, log, "statement merged")
	assert.Contains(t, log, "statement rejected")
	assert.Contains(t, log, "no digit found")
}

func TestRun_RunLog(t *testing.T) {
	dir := newProject(t)
	_, err := runMidata(t, "run", "--repo", dir)
	require.NoError(t, err)

	entries, err := runlog.Read(filepath.Join(dir, "logs", "run-log.csv"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Account)
	assert.Equal(t, "merged", entries[0].Outcome)
	assert.Equal(t, 2, entries[0].RowsAdded)
	assert.Equal(t, "bob", entries[1].Account)
	assert.Equal(t, "rejected", entries[1].Outcome)
	assert.Equal(t, entries[0].RunID, entries[1].RunID)
}

func TestRun_SingleAccount(t *testing.T) {
	dir := newProject(t)

	out, err := runMidata(t, "run", "--repo", dir, "--account", "alice")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Archived 2 rows")

	_, err = os.Stat(filepath.Join(dir, "Data", "bob", "midata_master_copy.csv"))
	assert.True(t, os.IsNotExist(err), "bob was not touched")

	_, err = runMidata(t, "run", "--repo", dir, "--account", "nobody")
	assert.Error(t, err)
}

func TestRun_MissingDataRoot(t *testing.T) {
	out, err := runMidata(t, "run", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "reading data root")
}

func TestRun_AutoCommit(t *testing.T) {
	requireGit(t)
	dir := newProject(t, "--git")

	out, err := runMidata(t, "run", "--repo", dir)
	require.NoError(t, err, out)

	log := exec.Command("git", "log", "--format=%s")
	log.Dir = dir
	gitOut, err := log.Output()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(gitOut)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "archive: 2 rows across 1 accounts", lines[0])

	show := exec.Command("git", "show", "--name-only", "--format=", "HEAD")
	show.Dir = dir
	gitOut, err = show.Output()
	require.NoError(t, err)
	assert.Equal(t, "Data/alice/midata_master_copy.csv", strings.TrimSpace(string(gitOut)))
}
