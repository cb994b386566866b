package tracker

import (
	"io"
	"log/slog"
	"os"

	"github.com/danieljhkim/statetracker/internal/clock"
	"github.com/danieljhkim/statetracker/internal/fsops"
	"github.com/danieljhkim/statetracker/internal/hash"
)

// DefaultFileMode is the permission applied to files written by Save.
const DefaultFileMode os.FileMode = 0644

type options struct {
	logger *slog.Logger
	fs     fsops.FS
	hasher hash.Hasher
	clock  clock.Clock
	mode   os.FileMode
}

// Option configures a Tracker.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		fs:     fsops.NewRealFS(),
		hasher: hash.NewSHA256Hasher(),
		clock:  &clock.RealClock{},
		mode:   DefaultFileMode,
	}
}

// WithLogger sets the logger used for load/save and mutation events.
// A nil logger keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFS replaces the filesystem used to read and write the tracker file.
func WithFS(fs fsops.FS) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithHasher replaces the hasher used to fingerprint the tracker file.
func WithHasher(h hash.Hasher) Option {
	return func(o *options) {
		if h != nil {
			o.hasher = h
		}
	}
}

// WithClock replaces the time source for sync timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithFileMode sets the permission bits of the saved file.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		if mode != 0 {
			o.mode = mode
		}
	}
}
