package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/report"
	"github.com/pable/go-cs-teams/internal/storage"
)

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List stored imports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runImports,
}

func runImports(cmd *cobra.Command, _ []string) error {
	db, err := storage.Open(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	imps, err := db.ListImports(cmd.Context())
	if err != nil {
		return fmt.Errorf("list imports: %w", err)
	}
	if len(imps) == 0 {
		fmt.Fprintln(os.Stdout, "No imports stored yet. Run 'csteams import <file>' to add one.")
		return nil
	}
	report.PrintImports(os.Stdout, imps, time.Now())
	return nil
}
