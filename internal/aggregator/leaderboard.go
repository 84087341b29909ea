package aggregator

import "github.com/pable/go-cs-teams/internal/model"

// LeaderboardSize is the default number of teams per leaderboard.
const LeaderboardSize = 5

// TopTeamsBy ranks teams by the mean of f over all their records, highest
// first, ties in first-encountered order. Teams with no value for f are
// left out.
func TopTeamsBy(records []model.MatchRecord, f Field, n int) []model.TeamRate {
	groups := groupBy(records, func(r model.MatchRecord) string { return r.Team })
	rates := make([]model.TeamRate, 0, len(groups))
	for _, g := range groups {
		mean, count := Mean(g.records, f)
		if count == 0 {
			continue
		}
		rates = append(rates, model.TeamRate{Team: g.key, Rate: mean, Matches: count})
	}
	return topN(rates, func(t model.TeamRate) float64 { return t.Rate }, n)
}

// Leaderboards ranks the most defensive (CT %) and most offensive (TR %)
// teams across the whole dataset.
func Leaderboards(records []model.MatchRecord, n int) model.Leaderboards {
	return model.Leaderboards{
		Defensive: TopTeamsBy(records, CTPct, n),
		Offensive: TopTeamsBy(records, TRPct, n),
	}
}
