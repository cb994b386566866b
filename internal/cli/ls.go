package cli

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all records",
	Long:  `Display every record in the tracker file, ordered by namespace and name.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := newTracker(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		all, err := tr.All()
		if err != nil {
			return err
		}

		views := make([]recordView, 0, len(all))
		for key, state := range all {
			views = append(views, newView(key, state))
		}
		sort.Slice(views, func(i, j int) bool {
			if views[i].Namespace != views[j].Namespace {
				return views[i].Namespace < views[j].Namespace
			}
			return views[i].Name < views[j].Name
		})

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, views)
		}

		if len(views) == 0 {
			PrintSection(out, "Records")
			PrintEmptyState(out, "No records found")
			return nil
		}

		PrintSection(out, "Records ("+PrintCount(len(views), "record", "records")+")")
		rows := make([][]string, 0, len(views))
		for _, v := range views {
			rows = append(rows, []string{
				v.Namespace,
				v.Name,
				v.Value,
				strconv.FormatBool(v.Flag),
				formatTime(v.UpdatedAt),
			})
		}
		PrintTable(out, []string{"Namespace", "Name", "Value", "Flag", "Updated"}, rows)
		return nil
	},
}
