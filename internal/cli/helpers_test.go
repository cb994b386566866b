package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/danieljhkim/statetracker/internal/clock"
	"github.com/danieljhkim/statetracker/internal/config"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// setupTestEnv points the default tracker file at a temp root and freezes
// the clock. It returns the default tracker file path.
func setupTestEnv(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv(config.RootEnv, root)
	t.Setenv(config.FileEnv, "")

	old := clk
	clk = clock.NewFakeClock(testNow)
	t.Cleanup(func() {
		clk = old
	})

	return filepath.Join(root, config.DefaultFileName)
}

// executeCommand runs the root command with args and returns what it wrote
// to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag to its default, since cobra keeps parsed
// values on the package-level commands between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
