package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/danieljhkim/statetracker/internal/clock"
	"github.com/danieljhkim/statetracker/internal/config"
	"github.com/danieljhkim/statetracker/internal/fsops"
	"github.com/danieljhkim/statetracker/internal/hash"
	"github.com/danieljhkim/statetracker/pkg/tracker"
)

// recordTracker is the tracker behind every command.
type recordTracker = tracker.Tracker[RecordKey, RecordState]

// clk stamps record updates and tracker syncs. Tests replace it.
var clk clock.Clock = &clock.RealClock{}

// newTracker opens the tracker file selected by --file or the environment.
func newTracker(stderr io.Writer) (*recordTracker, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	p := paths.WithStateFile(stateFile)

	fs := fsops.NewRealFS()
	if err := p.EnsureDirectories(fs); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	return tracker.New(
		tracker.StructKey[RecordKey](),
		tracker.JSONState[RecordState](nil),
		p.StateFile,
		tracker.WithLogger(newLogger(stderr)),
		tracker.WithFS(fs),
		tracker.WithHasher(hash.NewSHA256Hasher()),
		tracker.WithClock(clk),
	)
}

// newLogger returns a debug logger on w when --verbose is set, otherwise nil
// so the tracker keeps its silent default.
func newLogger(w io.Writer) *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// saveTracker writes tr back unless the file changed on disk after it was
// read, which would silently drop the other writer's records.
func saveTracker(tr *recordTracker) error {
	drifted, err := tr.Drifted()
	if err != nil {
		return err
	}
	if drifted {
		return fmt.Errorf("%s changed on disk during the update, retry the command", tr.Path())
	}
	return tr.Save()
}
