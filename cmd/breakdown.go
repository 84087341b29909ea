package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/report"
)

var breakdownOpponents bool

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Per-map record, round-count distribution and top opponents",
	Args:  cobra.NoArgs,
	RunE:  runBreakdown,
}

func init() {
	addCriteriaFlags(breakdownCmd, true)
	breakdownCmd.Flags().BoolVar(&breakdownOpponents, "opponents", true, "include the most-played opponents")
}

func runBreakdown(cmd *cobra.Command, _ []string) error {
	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	bd, err := eng.ComputeMapBreakdown(criteria)
	if err != nil {
		return err
	}
	report.PrintMapBreakdown(os.Stdout, bd)

	if !breakdownOpponents {
		return nil
	}
	opps, err := eng.ComputeOpponentBreakdown(criteria)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\n--- Opponents ---\n\n")
	report.PrintOpponents(os.Stdout, opps)
	return nil
}
