package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/model"
	"github.com/pable/go-cs-teams/internal/report"
)

var compareMap, compareEvent string

var compareCmd = &cobra.Command{
	Use:   "compare <team> <team>",
	Short: "Compare two teams side by side",
	Long: `Compute two independent team panels concurrently and print their
metrics side by side. --map and --event apply to both teams.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareMap, "map", "m", "", "only matches on this map")
	compareCmd.Flags().StringVarP(&compareEvent, "event", "e", "", "only matches at this event")
}

func runCompare(cmd *cobra.Command, args []string) error {
	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	left := model.FilterCriteria{Team: args[0], Map: compareMap, Event: compareEvent}
	right := model.FilterCriteria{Team: args[1], Map: compareMap, Event: compareEvent}
	cmp, err := eng.Compare(cmd.Context(), left, right)
	if err != nil {
		return err
	}
	report.PrintComparison(os.Stdout, cmp)
	return nil
}
