// Package gitops snapshots archive changes with the git CLI.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who commits archive snapshots.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if _, err := git(dir, "init", "--quiet"); err != nil {
		return err
	}
	return nil
}

// IsRepo reports whether dir is the top of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func CommitAll(dir, message string, author Author) (string, error) {
	if _, err := git(dir, "add", "-A"); err != nil {
		return "", err
	}
	return commit(dir, message, author)
}

// CommitPaths stages only paths and commits them. When nothing changed it
// returns an empty hash and no error.
func CommitPaths(dir string, paths []string, message string, author Author) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}

	args := append([]string{"add", "--"}, paths...)
	if _, err := git(dir, args...); err != nil {
		return "", err
	}

	staged, err := hasStaged(dir, paths)
	if err != nil {
		return "", err
	}
	if !staged {
		return "", nil
	}

	args = append([]string{"commit", "-m", message, "--author", author.String(), "--"}, paths...)
	if _, err := git(dir, args...); err != nil {
		return "", err
	}
	return shortHead(dir)
}

// CommitMessage formats the snapshot message for a run.
func CommitMessage(rows, accounts int) string {
	return fmt.Sprintf("archive: %d rows across %d accounts", rows, accounts)
}

func commit(dir, message string, author Author) (string, error) {
	if _, err := git(dir, "commit", "-m", message, "--author", author.String()); err != nil {
		return "", err
	}
	return shortHead(dir)
}

func shortHead(dir string) (string, error) {
	out, err := git(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func hasStaged(dir string, paths []string) (bool, error) {
	args := append([]string{"diff", "--cached", "--quiet", "--"}, paths...)
	_, err := git(dir, args...)
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	// Committer identity is fixed; only the author comes from config.
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME=midata",
		"GIT_COMMITTER_EMAIL=midata@localhost",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
