package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/report"
)

// summaryCmd prints the scalar metrics for one team.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a team's headline metrics",
	Long: `Display games played, current rank, win rate, average opponent rank,
average rounds won, side round-win percentages and the share of short
(≤19 rounds) and long (≥22 rounds) maps. Metrics without data print "-".`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	addCriteriaFlags(summaryCmd, true)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	m, err := eng.ComputeSummary(criteria)
	if err != nil {
		return err
	}
	report.PrintMetrics(os.Stdout, eng.Dataset().Canonical(criteria), m)
	return nil
}
