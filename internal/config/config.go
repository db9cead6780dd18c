package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file written by `midata init`.
const FileName = "midata.yaml"

// Config represents the top-level midata.yaml configuration.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Processing ProcessingConfig `yaml:"processing"`
	Log        LogConfig        `yaml:"log"`
	RunLog     RunLogConfig     `yaml:"run_log"`
	Git        GitConfig        `yaml:"git"`
}

// DataConfig locates the account folders and the files inside each one.
type DataConfig struct {
	Root          string `yaml:"root"`
	ArchiveFile   string `yaml:"archive_file"`
	StatementsDir string `yaml:"statements_dir"`
}

// ProcessingConfig controls how failures are handled during a run.
type ProcessingConfig struct {
	// SkipAccountOnError stops an account at its first rejected statement.
	SkipAccountOnError bool `yaml:"skip_account_on_error"`
}

// LogConfig controls the process log.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// RunLogConfig controls the per-statement CSV run log.
type RunLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a midata.yaml file from disk. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDir loads <dir>/midata.yaml, falling back to Default when the file
// does not exist.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config matching the conventional Data/ layout.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Root:          "Data",
			ArchiveFile:   "midata_master_copy.csv",
			StatementsDir: "statements",
		},
		Processing: ProcessingConfig{
			SkipAccountOnError: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join("logs", "midata.log"),
		},
		RunLog: RunLogConfig{
			Enabled: true,
			Path:    filepath.Join("logs", "run-log.csv"),
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Midata Archiver",
			AuthorEmail: "archiver@midata.local",
		},
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if c.Data.Root == "" {
		return errors.New("data.root: must not be empty")
	}
	if c.Data.ArchiveFile == "" || filepath.Base(c.Data.ArchiveFile) != c.Data.ArchiveFile {
		return fmt.Errorf("data.archive_file: must be a plain file name, got %q", c.Data.ArchiveFile)
	}
	if c.Data.StatementsDir == "" {
		return errors.New("data.statements_dir: must not be empty")
	}
	if c.RunLog.Enabled && c.RunLog.Path == "" {
		return errors.New("run_log.path: must be set when the run log is enabled")
	}
	if c.Git.AutoCommit && (c.Git.AuthorName == "" || c.Git.AuthorEmail == "") {
		return errors.New("git: author_name and author_email are required for auto_commit")
	}
	return nil
}

// Resolve returns p joined to dir unless p is empty or already absolute.
func Resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
