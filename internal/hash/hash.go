// Package hash fingerprints persisted tracker files.
//
// A tracker remembers the digest of the bytes it last wrote or read. Comparing
// that digest with a fresh hash of the file on disk tells whether the file was
// changed behind the tracker's back (drift). The package provides a SHA-256
// implementation and a fake for tests.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Hasher computes content digests.
type Hasher interface {
	// HashFile computes the digest of the file at the given path.
	HashFile(path string) (string, error)

	// HashBytes computes the digest of an in-memory buffer.
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashFile computes the SHA-256 hash of the file at the given path.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashBytes computes the SHA-256 hash of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with predetermined digests for testing.
// Buffers are fingerprinted by their content so HashBytes stays deterministic.
type FakeHasher struct {
	files map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		files: make(map[string]string),
	}
}

// SetHash sets the digest returned for a specific path.
func (h *FakeHasher) SetHash(path, digest string) {
	h.files[path] = digest
}

// HashFile returns the predetermined digest for the given path, or an
// os.ErrNotExist error when none was configured.
func (h *FakeHasher) HashFile(path string) (string, error) {
	if digest, ok := h.files[path]; ok {
		return digest, nil
	}
	return "", fmt.Errorf("failed to open file: %w", os.ErrNotExist)
}

// HashBytes returns "fake:" followed by the buffer contents.
func (h *FakeHasher) HashBytes(data []byte) string {
	return "fake:" + string(data)
}
