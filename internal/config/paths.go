// Package config resolves where the statetracker command keeps its data.
//
// The default root is ~/.statetracker/ containing state.json. Both can be
// overridden through the environment, and the CLI --file flag overrides the
// state file for a single invocation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/statetracker/internal/fsops"
)

const (
	// RootEnv overrides the root directory.
	RootEnv = "STATETRACKER_ROOT"

	// FileEnv overrides the state file path.
	FileEnv = "STATETRACKER_FILE"

	// DefaultFileName is the state file name under Root.
	DefaultFileName = "state.json"
)

// Paths contains the filesystem paths used by statetracker.
type Paths struct {
	// Root is the base directory for statetracker data (default: ~/.statetracker)
	Root string

	// StateFile is the tracker file read and written by the CLI
	StateFile string
}

// DefaultPaths returns the default paths for statetracker.
// Paths can be overridden with environment variables:
// - STATETRACKER_ROOT: Override the root directory
// - STATETRACKER_FILE: Override the state file (need not live under root)
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".statetracker")
	}

	stateFile := os.Getenv(FileEnv)
	if stateFile == "" {
		stateFile = filepath.Join(root, DefaultFileName)
	}

	return &Paths{
		Root:      root,
		StateFile: stateFile,
	}, nil
}

// WithStateFile returns a copy of p pointing at a different state file.
// An empty path leaves p unchanged.
func (p Paths) WithStateFile(path string) Paths {
	if path != "" {
		p.StateFile = path
	}
	return p
}

// EnsureDirectories creates the root directory when the state file lives
// under it. Directories of explicitly chosen files are left alone so a
// mistyped --file fails loudly on save instead of creating stray trees.
func (p *Paths) EnsureDirectories(fs fsops.FS) error {
	if filepath.Dir(p.StateFile) != filepath.Clean(p.Root) {
		return nil
	}
	if err := fs.MkdirAll(p.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.Root, err)
	}
	return nil
}
