package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/statetracker/pkg/tracker"
)

var getCmd = &cobra.Command{
	Use:   "get <namespace> <name>",
	Short: "Show one record",
	Long:  `Display the value, flag and last update time of a single record.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args)
		if err != nil {
			return err
		}

		tr, err := newTracker(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		state, err := tr.Get(key)
		if errors.Is(err, tracker.ErrKeyNotFound) {
			return fmt.Errorf("record %s does not exist: %w", key, err)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, newView(key, state))
		}

		PrintSection(out, key.String())
		PrintLabelValue(out, "Value", state.Value)
		PrintLabelValue(out, "Flag", strconv.FormatBool(state.Flag))
		PrintLabelValue(out, "Updated", formatTime(state.UpdatedAt))
		return nil
	},
}
