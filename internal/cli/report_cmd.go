package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alanmeadows/autosync/internal/report"
	"github.com/alanmeadows/autosync/internal/syncer"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect reports written by run --report",
}

var reportShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print the counts recorded in a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := report.ReadSummary(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Run:      %s\n", s.RunID)
		fmt.Fprintf(w, "Started:  %s\n", s.Started.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(w, "Duration: %s\n", s.Finished.Sub(s.Started))
		fmt.Fprintf(w, "Pairs:    %d\n", s.Pairs)
		for _, k := range syncer.AllOutcomeKinds {
			if n := s.Counts[k]; n > 0 {
				fmt.Fprintf(w, "  %-24s %d\n", k, n)
			}
		}
		return nil
	},
}

func init() {
	reportCmd.AddCommand(reportShowCmd)
}
