package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/storage"
)

var dropForce bool

// dropCmd deletes one import, or the whole store when no id is given.
var dropCmd = &cobra.Command{
	Use:   "drop [import-id-prefix]",
	Short: "Delete one import, or the whole import store",
	Long: `With an import id prefix, delete that import and its matches.
Without one, permanently delete the SQLite import store. Re-import your
match logs afterwards to rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropImport(cmd, args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DB)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cfg.DB); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files; absent after a clean close.
	_ = os.Remove(cfg.DB + "-wal")
	_ = os.Remove(cfg.DB + "-shm")
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DB)
	return nil
}

func dropImport(cmd *cobra.Command, prefix string) error {
	db, err := storage.Open(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	imp, err := db.GetImportByPrefix(cmd.Context(), prefix)
	if err != nil {
		return fmt.Errorf("find import: %w", err)
	}
	if imp == nil {
		return fmt.Errorf("no import found with prefix %q", prefix)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete import %s (%s, %d matches).\n", imp.ID, imp.Source, imp.RowCount)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DeleteImport(cmd.Context(), imp.ID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted import %s\n", imp.ID)
	return nil
}
