package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	editValue   string
	editFlag    bool
	editMissing bool
)

var errNothingToEdit = errors.New("nothing to edit: pass --value or --flag")

var editCmd = &cobra.Command{
	Use:   "edit <namespace> <name>",
	Short: "Change fields of a record",
	Long: `Read a record, apply the given field changes and save the tracker file.

Only the fields passed on the command line change. A record that does not
exist yet starts from default values unless --must-exist is set.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args)
		if err != nil {
			return err
		}

		valueChanged := cmd.Flags().Changed("value")
		flagChanged := cmd.Flags().Changed("flag")
		if !valueChanged && !flagChanged {
			return errNothingToEdit
		}

		tr, err := newTracker(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		if editMissing {
			exists, err := tr.Has(key)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("record %s does not exist", key)
			}
		}

		var edited RecordState
		err = tr.Edit(key, func(s *RecordState) error {
			if valueChanged {
				s.Value = editValue
			}
			if flagChanged {
				s.Flag = editFlag
			}
			s.UpdatedAt = clk.Now()
			edited = *s
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to edit %s: %w", key, err)
		}
		if err := saveTracker(tr); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return outputJSON(out, newView(key, edited))
		}
		PrintSuccess(out, fmt.Sprintf("Edited %s", key))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editValue, "value", "", "New record value")
	editCmd.Flags().BoolVar(&editFlag, "flag", false, "New record flag")
	editCmd.Flags().BoolVar(&editMissing, "must-exist", false, "Fail instead of creating a missing record")
}
