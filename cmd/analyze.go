package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-teams/internal/aggregator"
	"github.com/pable/go-cs-teams/internal/engine"
	"github.com/pable/go-cs-teams/internal/model"
)

const analyzeSystemPrompt = `You are a Counter-Strike 2 team analyst. You are given structured results
computed from a professional match log and a question from the user.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- null means there was no data for that metric; say so instead of guessing.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise: focus on patterns a coach or analyst could act on.

Metrics glossary:
- current_rank: world ranking in the team's most recent match. Lower is better.
- avg_opponent_rank: mean ranking of opponents faced. Lower means tougher schedule.
- tr_pct / ct_pct: mean share of rounds won on the Terrorist / Counter-Terrorist side.
- pct_short_maps: share of maps that ended in 19 rounds or fewer (one-sided).
- pct_long_maps: share of maps with 22 or more rounds (close or overtime).
- cumulative_win_rate: win rate over all matches up to that date.
- rolling_avg_rounds: average total rounds over the last three matches.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeTeamCmd = &cobra.Command{
	Use:   "team <team> <question>",
	Short: "Analyze a team's panel with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeTeam,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzeTeamCmd.Flags().StringVarP(&criteria.Map, "map", "m", "", "only matches on this map")
	analyzeTeamCmd.Flags().StringVarP(&criteria.Event, "event", "e", "", "only matches at this event")

	analyzeCmd.AddCommand(analyzeTeamCmd)
}

func runAnalyzeTeam(cmd *cobra.Command, args []string) error {
	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	c := criteria
	c.Team = args[0]
	p, err := eng.Panel(c)
	if err != nil {
		return err
	}
	if p.Summary.GamesPlayed == 0 {
		return fmt.Errorf("no matches found for %q (after filters)", p.Criteria.Team)
	}

	contextJSON, err := buildTeamContext(p)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelID, contextJSON, args[1])
}

// optJSON renders an absent value as null.
func optJSON(o model.Opt) any {
	if !o.Valid {
		return nil
	}
	return o.Value
}

// buildTeamContext serialises a team panel into compact JSON.
func buildTeamContext(p engine.Panel) (string, error) {
	type mapEntry struct {
		Map             string `json:"map"`
		Matches         int    `json:"matches"`
		Wins            int    `json:"wins"`
		WinRatePct      int    `json:"win_rate_pct"`
		AvgOpponentRank any    `json:"avg_opponent_rank"`
	}
	maps := make([]mapEntry, 0, len(p.Breakdown.Maps))
	for _, m := range p.Breakdown.Maps {
		maps = append(maps, mapEntry{m.Map, m.Matches, m.Wins, m.WinRatePct, optJSON(m.AvgOpponentRank)})
	}

	buckets := make(map[string]int, len(p.Breakdown.Distribution))
	for _, b := range p.Breakdown.Distribution {
		buckets[b.Bucket.String()] = b.Count
	}

	type trendEntry struct {
		Date              string  `json:"date"`
		CumulativeWinRate float64 `json:"cumulative_win_rate"`
		RollingAvgRounds  float64 `json:"rolling_avg_rounds"`
	}
	trend := make([]trendEntry, 0, p.Trend.Len())
	for _, pt := range p.Trend.Points {
		trend = append(trend, trendEntry{
			Date:              pt.Date.Format("2006-01-02"),
			CumulativeWinRate: aggregator.Round(pt.CumulativeWinRate, 2),
			RollingAvgRounds:  aggregator.Round(pt.RollingAvgTotalRounds, 2),
		})
	}

	m := p.Summary
	doc := map[string]any{
		"subject": "team",
		"team":    p.Criteria.Team,
		"filters": map[string]string{"map": p.Criteria.Map, "event": p.Criteria.Event},
		"summary": map[string]any{
			"games_played":      m.GamesPlayed,
			"current_rank":      optJSON(m.CurrentRank),
			"win_rate_pct":      optJSON(m.WinRatePct),
			"avg_opponent_rank": optJSON(m.AvgOpponentRank),
			"avg_rounds_won":    optJSON(m.AvgRoundsWon),
			"tr_pct":            optJSON(m.AvgTRPct),
			"ct_pct":            optJSON(m.AvgCTPct),
			"pct_short_maps":    optJSON(m.PctShortMatches),
			"pct_long_maps":     optJSON(m.PctLongMatches),
		},
		"maps":               maps,
		"round_distribution": buckets,
		"opponents":          p.Opponents,
		"trend":              trend,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
