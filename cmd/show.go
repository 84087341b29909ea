package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a team's full panel: metrics, maps, opponents and trend",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	addCriteriaFlags(showCmd, true)
}

func runShow(cmd *cobra.Command, _ []string) error {
	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	p, err := eng.Panel(criteria)
	if err != nil {
		return err
	}
	report.PrintPanel(os.Stdout, p)
	return nil
}
