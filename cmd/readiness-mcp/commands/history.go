package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var historyOpts struct {
	limit  int
	asJSON bool
}

var historyCmd = &cobra.Command{
	Use:   "history <workspace-id>",
	Short: "List recorded readiness simulations of a workspace, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.EnableRunHistory {
			return fmt.Errorf("run history is disabled (ENABLE_RUN_HISTORY=false)")
		}
		runs, err := svc.History(args[0], historyOpts.limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if historyOpts.asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}
		if len(runs) == 0 {
			fmt.Fprintf(out, "No runs recorded for %s.\n", args[0])
			return nil
		}
		for _, r := range runs {
			fmt.Fprintln(out, r.String())
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 20, "maximum number of runs to show")
	historyCmd.Flags().BoolVar(&historyOpts.asJSON, "json", false, "print runs as JSON")
}
