package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/config"
	"github.com/pable/go-cs-teams/internal/dataset"
	"github.com/pable/go-cs-teams/internal/engine"
	"github.com/pable/go-cs-teams/internal/loader"
	"github.com/pable/go-cs-teams/internal/logger"
	"github.com/pable/go-cs-teams/internal/model"
	"github.com/pable/go-cs-teams/internal/normalize"
	"github.com/pable/go-cs-teams/internal/storage"
)

var (
	cfgFile string
	vcfg    = config.New()
	cfg     *config.Config
	log     = zerolog.Nop()

	// criteria is shared by every command that filters by team/map/event.
	criteria model.FilterCriteria
)

var rootCmd = &cobra.Command{
	Use:   "csteams",
	Short: "CS2 team match analytics",
	Long: `Load a team match log (.xlsx or .csv) and compute per-team summaries,
trends, map and opponent breakdowns, and dataset-wide leaderboards.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./csteams.yaml or ~/.csteams/csteams.yaml)")
	pf.String("data", "", "match log to read (.xlsx, .csv); defaults to the latest import")
	pf.String("sheet", "", "worksheet to read from an .xlsx file (default first sheet)")
	pf.String("db", "", "path to SQLite import store (default "+config.DefaultDB+")")
	pf.String("log-level", "", "log level: debug, info, warn, error")

	for key, flag := range map[string]string{
		"data":      "data",
		"sheet":     "sheet",
		"db":        "db",
		"log_level": "log-level",
	} {
		if err := vcfg.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(leadersCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(importsCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(vcfg, cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	l, err := logger.New(os.Stderr, cfg.LogLevel, true)
	if err != nil {
		return err
	}
	log = l
	log.Debug().Str("db", cfg.DB).Str("data", cfg.Data).Msg("configuration loaded")
	return nil
}

// addCriteriaFlags registers the --team/--map/--event filter flags.
func addCriteriaFlags(cmd *cobra.Command, teamRequired bool) {
	cmd.Flags().StringVarP(&criteria.Team, "team", "t", "", "team to analyze")
	cmd.Flags().StringVarP(&criteria.Map, "map", "m", "", "only matches on this map")
	cmd.Flags().StringVarP(&criteria.Event, "event", "e", "", "only matches at this event")
	if teamRequired {
		_ = cmd.MarkFlagRequired("team")
	}
}

func newNormalizer() *normalize.Normalizer {
	return normalize.New(cfg.AliasTable())
}

// loadDataset reads --data when set, otherwise the latest stored import.
func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	norm := newNormalizer()
	if cfg.Data != "" {
		ds, _, err := loader.Load(ctx, cfg.Data, loader.Options{
			Sheet:      cfg.Sheet,
			Normalizer: norm,
			Logger:     log,
		})
		return ds, err
	}

	db, err := storage.Open(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	imp, err := db.LatestImport(ctx)
	if errors.Is(err, storage.ErrNoImports) {
		return nil, errors.New("no data: pass --data <file> or run 'csteams import <file>' first")
	}
	if err != nil {
		return nil, fmt.Errorf("find latest import: %w", err)
	}
	recs, err := db.LoadMatches(ctx, imp.ID)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	// Re-apply the current alias table; it may have changed since the import.
	for i := range recs {
		recs[i] = norm.Canonical(recs[i])
	}
	log.Debug().Str("import", imp.ID).Int("records", len(recs)).Msg("using stored import")
	return dataset.New(recs, norm), nil
}

func loadEngine(ctx context.Context) (*engine.Engine, error) {
	ds, err := loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return engine.New(ds, engine.Options{
		LeaderboardSize: cfg.LeaderboardSize,
		OpponentLimit:   cfg.OpponentLimit,
	}), nil
}
