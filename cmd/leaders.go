package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/report"
)

var leadersCmd = &cobra.Command{
	Use:   "leaders",
	Short: "Top teams by CT and TR round-win percentage across all matches",
	Args:  cobra.NoArgs,
	RunE:  runLeaders,
}

func runLeaders(cmd *cobra.Command, _ []string) error {
	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	report.PrintLeaderboards(os.Stdout, eng.ComputeLeaderboards())
	return nil
}
