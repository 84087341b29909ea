package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/engine"
	"github.com/pable/go-cs-teams/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List distinct teams, maps or events in the match log",
}

func init() {
	for _, sub := range []struct {
		use, short, title string
		list              func(*engine.Engine) []string
	}{
		{"teams", "List canonical team names", "Teams", (*engine.Engine).ListTeams},
		{"maps", "List maps played", "Maps", (*engine.Engine).ListMaps},
		{"events", "List events (matches without one are skipped)", "Events", (*engine.Engine).ListEvents},
	} {
		listCmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				eng, err := loadEngine(cmd.Context())
				if err != nil {
					return err
				}
				report.PrintList(os.Stdout, sub.title, sub.list(eng))
				return nil
			},
		})
	}
}
