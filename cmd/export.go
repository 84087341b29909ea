package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/aggregator"
	"github.com/pable/go-cs-teams/internal/model"
)

var exportOut string

// simTeamStats is the team JSON schema read by cs2-pro-match-simulator.
// Rates are fractions in [0,1].
type simTeamStats struct {
	Team            string                 `json:"team"`
	CurrentRank     *float64               `json:"current_rank,omitempty"`
	Maps            map[string]simMapStats `json:"maps"`
	GeneratedAt     string                 `json:"generated_at"`
	LatestMatchDate string                 `json:"latest_match_date"`
	MatchCount      int                    `json:"match_count"`
	Event           string                 `json:"event,omitempty"`
}

type simMapStats struct {
	MapWinPct     float64 `json:"map_win_pct"`
	CTRoundWinPct float64 `json:"ct_round_win_pct"`
	TRoundWinPct  float64 `json:"t_round_win_pct"`
	Matches       int     `json:"matches"`
}

// sidePrior stands in for a side rate when a map has no percentage data.
const sidePrior = 0.50

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a team's per-map stats as simulator-compatible JSON",
	Long: `Compute a team's per-map win rate and mean CT/T round-win share and write
them in the team JSON format expected by cs2-pro-match-simulator.
Maps with no side percentages fall back to 0.50.

Example:
  csteams export --team Astralis --out astralis.json
  csteams export --team "3DMAX" --event "Bucharest 2025"`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&criteria.Team, "team", "t", "", "team to export")
	exportCmd.Flags().StringVarP(&criteria.Event, "event", "e", "", "only matches at this event")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	_ = exportCmd.MarkFlagRequired("team")
}

func runExport(cmd *cobra.Command, _ []string) error {
	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	c := eng.Dataset().Canonical(model.FilterCriteria{Team: criteria.Team, Event: criteria.Event})
	p, err := eng.Panel(c)
	if err != nil {
		return err
	}
	if p.Summary.GamesPlayed == 0 {
		return fmt.Errorf("no matches found for %q", c.Team)
	}

	maps := make(map[string]simMapStats, len(p.Breakdown.Maps))
	for _, ms := range p.Breakdown.Maps {
		perMap := c
		perMap.Map = ms.Map
		sum, err := eng.ComputeSummary(perMap)
		if err != nil {
			return fmt.Errorf("summarize %s: %w", ms.Map, err)
		}
		maps[ms.Map] = simMapStats{
			MapWinPct:     fraction(model.Some(float64(ms.Wins) / float64(ms.Matches) * 100)),
			CTRoundWinPct: fraction(sum.AvgCTPct),
			TRoundWinPct:  fraction(sum.AvgTRPct),
			Matches:       ms.Matches,
		}
	}

	out := simTeamStats{
		Team:            c.Team,
		Maps:            maps,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		LatestMatchDate: p.Trend.Points[p.Trend.Len()-1].Date.Format("2006-01-02"),
		MatchCount:      p.Summary.GamesPlayed,
		Event:           c.Event,
	}
	if p.Summary.CurrentRank.Valid {
		rank := p.Summary.CurrentRank.Value
		out.CurrentRank = &rank
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

// fraction converts a percentage to a rounded [0,1] rate, or the prior.
func fraction(pct model.Opt) float64 {
	return aggregator.Round(pct.Or(sidePrior*100)/100, 2)
}
