package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for all file paths the application
// writes. Report artifacts for one generation session live together in one
// session directory so re-running with the same inputs overwrites the same
// filenames.
type Paths struct {
	DataDir    string
	ReportsDir string
	UploadsDir string
}

// NewPaths resolves the configured directories against the working
// directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(wd, p)
	}
	return &Paths{
		DataDir:    resolve(cfg.DataDir),
		ReportsDir: resolve(cfg.ReportsDir),
		UploadsDir: resolve(cfg.UploadsDir),
	}, nil
}

// EnsureDirectories creates every directory the application writes to.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.UploadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SessionDir returns the artifact directory for one report session,
// creating it if needed.
func (p *Paths) SessionDir(id string) (string, error) {
	dir := filepath.Join(p.ReportsDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create session directory %s: %w", dir, err)
	}
	return dir, nil
}
