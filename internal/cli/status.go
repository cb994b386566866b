package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/statetracker/pkg/tracker"
)

var statusSince string

// statusResult is the JSON form of the status command.
type statusResult struct {
	tracker.Info
	Changed *bool `json:"changed,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracker file status",
	Long: `Display the tracker file path, the number of records and the digest of
the file contents.

With --since, also report whether the file changed since an earlier digest,
for example one printed by a previous "status" call.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := newTracker(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		result := statusResult{Info: tr.Info()}
		if cmd.Flags().Changed("since") {
			changed := result.Digest != statusSince
			result.Changed = &changed
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, result)
		}

		PrintSection(out, "Tracker")
		PrintLabelValue(out, "File", result.Path)
		PrintLabelValue(out, "Records", strconv.Itoa(result.Entries))
		PrintLabelValue(out, "Phase", result.Phase.String())
		PrintLabelValue(out, "Synced", formatTime(result.SyncedAt))
		if result.Digest != "" {
			PrintLabelValue(out, "Digest", result.Digest)
		} else {
			PrintLabelValue(out, "Digest", "- (no file yet)")
		}
		if result.Changed != nil {
			if *result.Changed {
				PrintWarning(out, "Tracker file changed since "+statusSince)
			} else {
				PrintSuccess(out, "Tracker file unchanged")
			}
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusSince, "since", "", "Digest to compare the current file against")
}
