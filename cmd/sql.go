package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/report"
	"github.com/pable/go-cs-teams/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the import store",
	Long: `Run an arbitrary SQL query against the import store and print results as a table.

Schema overview:
  imports(id, source, sheet, row_count, imported_at)
  matches(import_id, seq, match_date, team, opponent, map_name, event,
    rounds_team, rounds_opponent, rank_team, rank_opponent, tr_pct, ct_pct, won)

Absent ranks, percentages and events are NULL. Example:
  csteams sql "SELECT map_name, COUNT(*) FROM matches WHERE team = 'Big' GROUP BY 1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(cmd.Context(), query)
	if err != nil {
		return err
	}
	report.PrintRows(os.Stdout, cols, rows)
	return nil
}
