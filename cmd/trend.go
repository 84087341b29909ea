package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Chronological win-rate and rounds trend for a team",
	Long: `Print one row per match in date order: the cumulative win rate up to
that match and the average total rounds over the last three matches.`,
	Args: cobra.NoArgs,
	RunE: runTrend,
}

func init() {
	addCriteriaFlags(trendCmd, true)
}

func runTrend(cmd *cobra.Command, _ []string) error {
	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	ts, err := eng.ComputeTimeSeries(criteria)
	if err != nil {
		return err
	}
	report.PrintTrend(os.Stdout, ts)
	return nil
}
