package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	setValue string
	setFlag  bool
)

var setCmd = &cobra.Command{
	Use:   "set <namespace> <name>",
	Short: "Create or replace a record",
	Long: `Store a record, replacing any previous value, and save the tracker file.

Fields not given on the command line are reset to their defaults. Use
"edit" to change individual fields.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args)
		if err != nil {
			return err
		}

		tr, err := newTracker(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		state := RecordState{
			Value:     setValue,
			Flag:      setFlag,
			UpdatedAt: clk.Now(),
		}
		if err := tr.Set(key, state); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		if err := saveTracker(tr); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, newView(key, state))
		}
		PrintSuccess(out, fmt.Sprintf("Set %s", key))
		return nil
	},
}

func init() {
	setCmd.Flags().StringVar(&setValue, "value", "", "Record value")
	setCmd.Flags().BoolVar(&setFlag, "flag", false, "Record flag")
}
