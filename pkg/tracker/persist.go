package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var errNoPath = errors.New("tracker has no file path")

// Save writes the whole mapping to the tracker file, replacing its contents.
// The file's directory must already exist.
func (t *Tracker[K, S]) Save() error {
	if t.path == "" {
		return fmt.Errorf("%w: %w", ErrPersistence, errNoPath)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	doc := make(map[string]S, len(t.entries))
	for canonical, e := range t.entries {
		doc[canonical] = e.state
	}

	// map keys are emitted sorted, so equal mappings produce equal files
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal %s: %w", ErrPersistence, t.path, err)
	}
	data = append(data, '\n')

	if err := t.opts.fs.AtomicWrite(t.path, data, t.opts.mode); err != nil {
		t.opts.logger.Error("save failed", "path", t.path, "error", err)
		return fmt.Errorf("%w: failed to write %s: %w", ErrPersistence, t.path, err)
	}

	t.phase = PhaseSaved
	t.syncedAt = t.opts.clock.Now()
	t.digest = t.opts.hasher.HashBytes(data)
	t.opts.logger.Info("tracker saved", "path", t.path, "entries", len(doc))
	return nil
}

// Load replaces the mapping with the contents of the tracker file. A missing
// or empty file yields an empty mapping. On any error the mapping is left
// exactly as it was.
func (t *Tracker[K, S]) Load() error {
	if t.path == "" {
		return fmt.Errorf("%w: %w", ErrPersistence, errNoPath)
	}

	data, err := t.opts.fs.ReadFile(t.path)
	digest := ""
	switch {
	case errors.Is(err, os.ErrNotExist):
		data = nil
	case err != nil:
		return fmt.Errorf("%w: failed to read %s: %w", ErrPersistence, t.path, err)
	default:
		digest = t.opts.hasher.HashBytes(data)
	}

	entries, err := t.decode(data)
	if err != nil {
		t.opts.logger.Error("load failed", "path", t.path, "error", err)
		return fmt.Errorf("%w: failed to parse %s: %w", ErrPersistence, t.path, err)
	}

	t.mu.Lock()
	t.entries = entries
	t.phase = PhaseSaved
	t.syncedAt = t.opts.clock.Now()
	t.digest = digest
	t.mu.Unlock()

	t.opts.logger.Info("tracker loaded", "path", t.path, "entries", len(entries))
	return nil
}

// Drifted reports whether the tracker file changed on disk since the last
// Save or Load, for example through an external edit.
func (t *Tracker[K, S]) Drifted() (bool, error) {
	if t.path == "" {
		return false, nil
	}

	t.mu.RLock()
	digest := t.digest
	t.mu.RUnlock()

	exists, err := t.opts.fs.Exists(t.path)
	if err != nil {
		return false, fmt.Errorf("%w: failed to stat %s: %w", ErrPersistence, t.path, err)
	}
	if !exists {
		return digest != "", nil
	}

	current, err := t.opts.hasher.HashFile(t.path)
	if err != nil {
		return false, fmt.Errorf("%w: failed to hash %s: %w", ErrPersistence, t.path, err)
	}
	return current != digest, nil
}

// decode parses a persisted document into a fresh entry map.
func (t *Tracker[K, S]) decode(data []byte) (map[string]entry[K, S], error) {
	entries := make(map[string]entry[K, S])

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return entries, nil
	}
	if trimmed[0] != '{' {
		return nil, errors.New("top-level value is not a JSON object")
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}

	for stored, raw := range doc {
		key, err := t.keys.Parse(stored)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", stored, err)
		}
		canonical, err := t.keys.Canonical(key)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", stored, err)
		}
		if _, dup := entries[canonical]; dup {
			return nil, fmt.Errorf("entry %q: duplicate key %s", stored, canonical)
		}

		state, err := t.states.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", stored, err)
		}
		if err := t.states.Validate(state); err != nil {
			return nil, fmt.Errorf("entry %q: %w", stored, err)
		}
		entries[canonical] = entry[K, S]{key: key, state: state}
	}
	return entries, nil
}
