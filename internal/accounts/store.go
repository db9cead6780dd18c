package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/midata/internal/midata"
)

// LoadArchive reads and validates the account archive.
func (f *Folder) LoadArchive() (*midata.Clean, error) {
	file, err := os.Open(f.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer file.Close()

	archive, err := midata.ReadArchive(file)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", f.ArchivePath, err)
	}
	return archive, nil
}

// SaveArchive overwrites the account archive. The file is written next to
// the archive first and renamed into place, keeping the mode of the file it
// replaces (0644 for a new archive).
func (f *Folder) SaveArchive(archive *midata.Clean) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.ArchivePath); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.ArchivePath), ".archive-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := midata.WriteArchive(tmp, archive); err != nil {
		tmp.Close()
		return fmt.Errorf("writing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp archive: %w", err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("setting archive mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.ArchivePath); err != nil {
		return fmt.Errorf("replacing archive: %w", err)
	}
	return nil
}

// LoadStatement reads a statement CSV into an unvalidated table.
func (f *Folder) LoadStatement(path string) (midata.Table, error) {
	return ReadStatement(path)
}

// ReadStatement reads any statement CSV from disk.
func ReadStatement(path string) (midata.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return midata.Table{}, fmt.Errorf("opening statement: %w", err)
	}
	defer file.Close()

	t, err := midata.ReadTable(file)
	if err != nil {
		return midata.Table{}, fmt.Errorf("reading statement %s: %w", filepath.Base(path), err)
	}
	return t, nil
}
