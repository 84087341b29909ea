package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/loader"
	"github.com/pable/go-cs-teams/internal/storage"
)

var importShowWarnings bool

var importCmd = &cobra.Command{
	Use:   "import <matches.xlsx|matches.csv>",
	Short: "Load a match log and store it as the new default dataset",
	Long: `Read and normalize a match log, then save the normalized records to the
SQLite store. Later commands run without --data use the latest import.
A file with a missing column or an unparsable date is rejected whole.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importShowWarnings, "warnings", "w", false, "print every coerced or dropped cell")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := cmd.Context()

	fmt.Fprintf(os.Stdout, "Reading %s...\n", path)
	ds, warnings, err := loader.Load(ctx, path, loader.Options{
		Sheet:      cfg.Sheet,
		Normalizer: newNormalizer(),
		Logger:     log,
	})
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	imp, err := db.SaveImport(ctx, filepath.Base(path), cfg.Sheet, ds.Records())
	if err != nil {
		return fmt.Errorf("save import: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Stored %s matches (%d teams, %d maps) as import %s\n",
		humanize.Comma(int64(ds.Len())), len(ds.Teams()), len(ds.Maps()), imp.ID[:8])
	if len(warnings) > 0 {
		fmt.Fprintf(os.Stdout, "%s cells were coerced or dropped", humanize.Comma(int64(len(warnings))))
		if !importShowWarnings {
			fmt.Fprintln(os.Stdout, " (re-run with --warnings to list them)")
			return nil
		}
		fmt.Fprintln(os.Stdout, ":")
		for _, w := range warnings {
			fmt.Fprintf(os.Stdout, "  %s\n", w)
		}
	}
	return nil
}
