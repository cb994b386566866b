package tracker

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Phase reports whether the in-memory mapping matches the tracker file.
type Phase int

const (
	// PhaseSaved means the mapping matches the file as of the last Save or Load.
	PhaseSaved Phase = iota

	// PhaseUnsaved means Set or Edit changed the mapping since the last sync.
	PhaseUnsaved
)

// String returns "saved" or "unsaved".
func (p Phase) String() string {
	if p == PhaseUnsaved {
		return "unsaved"
	}
	return "saved"
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Info summarizes a tracker.
type Info struct {
	Path     string    `json:"path"`
	Entries  int       `json:"entries"`
	Phase    Phase     `json:"phase"`
	SyncedAt time.Time `json:"syncedAt"`
	Digest   string    `json:"digest,omitempty"`
}

type entry[K comparable, S any] struct {
	key   K
	state S
}

// Tracker maps keys of shape K to states of shape S, persisted to one file.
type Tracker[K comparable, S any] struct {
	keys   KeyShape[K]
	states StateShape[S]
	path   string
	opts   options

	mu       sync.RWMutex
	entries  map[string]entry[K, S]
	phase    Phase
	syncedAt time.Time
	digest   string
}

// New creates a tracker over the given shapes. When path names an existing,
// non-empty file it is loaded; a missing file starts an empty tracker. An
// empty path gives an in-memory tracker whose Save and Load fail.
func New[K comparable, S any](keys KeyShape[K], states StateShape[S], path string, opts ...Option) (*Tracker[K, S], error) {
	if keys == nil {
		return nil, fmt.Errorf("%w: key shape is required", ErrTypeConfiguration)
	}
	if states == nil {
		return nil, fmt.Errorf("%w: state shape is required", ErrTypeConfiguration)
	}
	if err := checkShape("key", keys); err != nil {
		return nil, err
	}
	if err := checkShape("state", states); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tracker[K, S]{
		keys:     keys,
		states:   states,
		path:     path,
		opts:     o,
		entries:  make(map[string]entry[K, S]),
		phase:    PhaseSaved,
		syncedAt: o.clock.Now(),
	}

	if path != "" {
		if err := t.Load(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Path returns the tracker file path.
func (t *Tracker[K, S]) Path() string {
	return t.path
}

// Get returns a copy of the state stored for key, or ErrKeyNotFound.
func (t *Tracker[K, S]) Get(key K) (S, error) {
	canonical, state, ok, err := t.lookup(key)
	if err != nil {
		return state, err
	}
	if !ok {
		return state, fmt.Errorf("%w: %s", ErrKeyNotFound, canonical)
	}
	return state, nil
}

// Lookup returns a copy of the state stored for key and whether it exists.
func (t *Tracker[K, S]) Lookup(key K) (S, bool, error) {
	_, state, ok, err := t.lookup(key)
	return state, ok, err
}

func (t *Tracker[K, S]) lookup(key K) (string, S, bool, error) {
	var zero S
	canonical, err := t.keys.Canonical(key)
	if err != nil {
		return "", zero, false, err
	}

	t.mu.RLock()
	e, ok := t.entries[canonical]
	t.mu.RUnlock()
	if !ok {
		return canonical, zero, false, nil
	}

	state, err := t.states.Clone(e.state)
	if err != nil {
		return canonical, zero, false, err
	}
	return canonical, state, true, nil
}

// Has reports whether a state is stored for key.
func (t *Tracker[K, S]) Has(key K) (bool, error) {
	canonical, err := t.keys.Canonical(key)
	if err != nil {
		return false, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[canonical]
	return ok, nil
}

// Len returns the number of stored states.
func (t *Tracker[K, S]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Keys returns every stored key ordered by canonical string.
func (t *Tracker[K, S]) Keys() []K {
	t.mu.RLock()
	defer t.mu.RUnlock()

	canonical := make([]string, 0, len(t.entries))
	for c := range t.entries {
		canonical = append(canonical, c)
	}
	sort.Strings(canonical)

	keys := make([]K, len(canonical))
	for i, c := range canonical {
		keys[i] = t.entries[c].key
	}
	return keys
}

// Set stores a copy of state under key, replacing any previous value.
// Nothing is written to disk until Save.
func (t *Tracker[K, S]) Set(key K, state S) error {
	canonical, err := t.keys.Canonical(key)
	if err != nil {
		return err
	}
	if err := t.commit(canonical, key, state); err != nil {
		return err
	}
	t.opts.logger.Debug("state set", "key", canonical)
	return nil
}

// Edit runs fn on a working copy of the state stored for key, or on a fresh
// default state when there is none, and stores the result when fn returns
// nil. If fn fails, panics, or leaves an invalid state, the stored value is
// unchanged.
//
// fn runs without holding the tracker lock, so it may call Get. Concurrent
// writers of the same key are not serialized: the last commit wins.
func (t *Tracker[K, S]) Edit(key K, fn func(*S) error) error {
	if fn == nil {
		return errors.New("edit function is required")
	}

	canonical, working, ok, err := t.lookup(key)
	if err != nil {
		return err
	}
	if !ok {
		working = t.states.Default()
	}

	if err := fn(&working); err != nil {
		t.opts.logger.Debug("edit aborted", "key", canonical, "error", err)
		return err
	}

	if err := t.commit(canonical, key, working); err != nil {
		return err
	}
	t.opts.logger.Debug("edit committed", "key", canonical, "created", !ok)
	return nil
}

// All returns a copy of every stored state keyed by its key.
func (t *Tracker[K, S]) All() (map[K]S, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[K]S, len(t.entries))
	for _, e := range t.entries {
		state, err := t.states.Clone(e.state)
		if err != nil {
			return nil, err
		}
		out[e.key] = state
	}
	return out, nil
}

// Phase reports whether the mapping has changed since the last Save or Load.
func (t *Tracker[K, S]) Phase() Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phase
}

// Info returns a summary of the tracker.
func (t *Tracker[K, S]) Info() Info {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Info{
		Path:     t.path,
		Entries:  len(t.entries),
		Phase:    t.phase,
		SyncedAt: t.syncedAt,
		Digest:   t.digest,
	}
}

// commit validates and stores a private copy of state.
func (t *Tracker[K, S]) commit(canonical string, key K, state S) error {
	if err := t.states.Validate(state); err != nil {
		return fmt.Errorf("invalid state for %s: %w", canonical, err)
	}
	owned, err := t.states.Clone(state)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.entries[canonical] = entry[K, S]{key: key, state: owned}
	t.phase = PhaseUnsaved
	t.mu.Unlock()
	return nil
}
