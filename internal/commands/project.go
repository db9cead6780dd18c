package commands

import (
	"fmt"
	"path/filepath"

	"github.com/cleared-dev/midata/internal/accounts"
	"github.com/cleared-dev/midata/internal/config"
)

// project is a loaded midata.yaml with its paths resolved against the
// directory that holds it.
type project struct {
	dir        string
	cfg        *config.Config
	dataRoot   string
	logFile    string
	runLogPath string
}

func loadProject(repoDir string) (*project, error) {
	absDir, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadDir(absDir)
	if err != nil {
		return nil, err
	}
	return &project{
		dir:        absDir,
		cfg:        cfg,
		dataRoot:   config.Resolve(absDir, cfg.Data.Root),
		logFile:    config.Resolve(absDir, cfg.Log.File),
		runLogPath: config.Resolve(absDir, cfg.RunLog.Path),
	}, nil
}

func (p *project) layout() accounts.Layout {
	return accounts.Layout{
		ArchiveFile:   p.cfg.Data.ArchiveFile,
		StatementsDir: p.cfg.Data.StatementsDir,
	}
}

func (p *project) accountDir(name string) string {
	return filepath.Join(p.dataRoot, name)
}
