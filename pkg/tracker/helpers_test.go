package tracker_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/statetracker/internal/fsops"
	"github.com/danieljhkim/statetracker/pkg/tracker"
)

type myKey struct {
	A string `json:"a"`
	B int    `json:"b"`
}

type myState struct {
	Value string `json:"value"`
	Flag  bool   `json:"flag"`
}

// richState has reference-typed fields so copy isolation is observable.
type richState struct {
	Value   string         `json:"value"`
	Tags    []string       `json:"tags"`
	Counts  map[string]int `json:"counts"`
	Retries int            `json:"retries"`
}

func richDefaults() richState {
	return richState{
		Tags:    []string{},
		Counts:  map[string]int{},
		Retries: 3,
	}
}

type boundedState struct {
	Count int `json:"count"`
}

func (s boundedState) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

// failingFS wraps a real FS and injects read or write errors.
type failingFS struct {
	fsops.FS
	readErr  error
	writeErr error
}

func (f *failingFS) ReadFile(path string) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.FS.ReadFile(path)
}

func (f *failingFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.FS.AtomicWrite(path, data, perm)
}

func trackerPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tracker.json")
}

func newTracker(t *testing.T, path string, opts ...tracker.Option) *tracker.Tracker[myKey, myState] {
	t.Helper()
	tr, err := tracker.New(tracker.StructKey[myKey](), tracker.JSONState[myState](nil), path, opts...)
	require.NoError(t, err)
	return tr
}

func newRichTracker(t *testing.T, path string) *tracker.Tracker[myKey, richState] {
	t.Helper()
	tr, err := tracker.New(tracker.StructKey[myKey](), tracker.JSONState(richDefaults), path)
	require.NoError(t, err)
	return tr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// memFS keeps files in memory. Writes fail unless the parent directory was
// created with MkdirAll.
type memFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

func newMemFS(dirs ...string) *memFS {
	m := &memFS{files: make(map[string][]byte), dirs: make(map[string]bool)}
	for _, d := range dirs {
		m.dirs[d] = true
	}
	return m
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *memFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirs[filepath.Dir(path)] {
		return &fs.PathError{Op: "stat", Path: filepath.Dir(path), Err: fs.ErrNotExist}
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *memFS) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok || m.dirs[path], nil
}

func (m *memFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := path; !m.dirs[p]; p = filepath.Dir(p) {
		m.dirs[p] = true
		if p == filepath.Dir(p) {
			break
		}
	}
	return nil
}

var _ fsops.FS = (*memFS)(nil)
