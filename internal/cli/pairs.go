package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/alanmeadows/autosync/internal/config"
	"github.com/alanmeadows/autosync/internal/syncer"
)

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "List the branch pairs a run would process, in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cellStyle := lipgloss.NewStyle().Padding(0, 1)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
			Headers("#", "Base", "Destination", "Resolution branch").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})

		for i, p := range syncer.ExpandPairs(cfg.Branches) {
			t = t.Row(strconv.Itoa(i+1), p.Base, p.Destination,
				syncer.ResolutionBranchName(cfg.ConflictBranchPrefix, p.Base, p.Destination))
		}

		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}
