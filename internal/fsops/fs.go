// Package fsops provides the filesystem operations a tracker relies on.
//
// All tracker file access goes through the FS interface so persistence can be
// exercised against fakes and failure-injecting wrappers in tests.
//
// Key features:
//   - Atomic writes using temp file + fsync + rename in the target directory
//   - Writes never create missing parent directories
//   - Testable via the FS interface
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// AtomicWrite replaces the file at path with data using temp file + rename.
	// The parent directory must already exist.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// AtomicWrite writes data to path atomically using temp file + rename.
// Readers observe either the previous content or the new content, never a
// partially written file.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat parent directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("parent %q is not a directory", dir)
	}

	// Create temp file in the same directory as target so rename stays on one filesystem
	tmpFile, err := os.CreateTemp(dir, ".statetracker-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	// Success - don't clean up temp file
	tmpFile = nil
	return nil
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// MkdirAll creates a directory and all parent directories.
func (fs *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

var _ FS = (*RealFS)(nil)
