// Package accounts maps the on-disk account layout: one directory per account
// under the data root, each holding an archive CSV and a statements folder.
package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/midata/internal/midata"
)

// Layout names the files inside an account folder.
type Layout struct {
	ArchiveFile   string
	StatementsDir string
}

// DefaultLayout is the layout used when none is configured.
var DefaultLayout = Layout{
	ArchiveFile:   "midata_master_copy.csv",
	StatementsDir: "statements",
}

// Folder is one account directory.
type Folder struct {
	Name          string
	Path          string
	ArchivePath   string
	StatementsDir string
}

// Statement is a CSV file waiting in an account's statements folder.
type Statement struct {
	Name string
	Path string
	Size int64
}

// Discover returns the account directories directly under root, sorted by
// name. Regular files in root are ignored.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading data root: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dirs = append(dirs, filepath.Join(root, e.Name()))
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Open resolves the folder at path and creates an empty archive, header
// only, when the account has none yet.
func Open(path string, layout Layout) (*Folder, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening account: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening account: %s is not a directory", path)
	}

	f := &Folder{
		Name:          filepath.Base(path),
		Path:          path,
		ArchivePath:   filepath.Join(path, layout.ArchiveFile),
		StatementsDir: filepath.Join(path, layout.StatementsDir),
	}

	if _, err := os.Stat(f.ArchivePath); errors.Is(err, os.ErrNotExist) {
		if err := f.SaveArchive(midata.EmptyClean()); err != nil {
			return nil, fmt.Errorf("creating archive: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	return f, nil
}

// Statements returns the .csv files in the statements folder, sorted by
// name. A missing statements folder yields no statements.
func (f *Folder) Statements() ([]Statement, error) {
	entries, err := os.ReadDir(f.StatementsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading statements dir: %w", err)
	}

	var stmts []Statement
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		stmts = append(stmts, Statement{
			Name: e.Name(),
			Path: filepath.Join(f.StatementsDir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(stmts, func(i, j int) bool { return stmts[i].Name < stmts[j].Name })
	return stmts, nil
}
