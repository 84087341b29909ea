package aggregator

import (
	"slices"
	"strings"

	"github.com/pable/go-cs-teams/internal/model"
)

// OpponentLimit is the number of opponents kept by the opponent breakdown.
const OpponentLimit = 5

// MapStats groups records by map, sorted by map name.
func MapStats(records []model.MatchRecord) []model.MapStat {
	groups := groupBy(records, func(r model.MatchRecord) string { return r.Map })
	out := make([]model.MapStat, 0, len(groups))
	for _, g := range groups {
		wins := countWins(g.records)
		out = append(out, model.MapStat{
			Map:             g.key,
			Matches:         len(g.records),
			Wins:            wins,
			WinRatePct:      int(Round(pct(wins, len(g.records)), 0)),
			AvgOpponentRank: meanOpt(g.records, RankOpponent),
		})
	}
	slices.SortStableFunc(out, func(a, b model.MapStat) int {
		return strings.Compare(a.Map, b.Map)
	})
	return out
}

// BucketOf classifies a total round count. Bins are right-inclusive and
// cover every non-negative total.
func BucketOf(totalRounds int) model.RoundBucket {
	switch {
	case totalRounds <= 19:
		return model.BucketShort
	case totalRounds <= 24:
		return model.BucketRegular
	case totalRounds <= 29:
		return model.BucketClose
	default:
		return model.BucketOvertime
	}
}

// RoundDistribution counts records per round bucket. All buckets are
// returned in order, including empty ones, so counts always sum to
// len(records).
func RoundDistribution(records []model.MatchRecord) []model.BucketCount {
	counts := make([]model.BucketCount, len(model.RoundBuckets))
	for i, b := range model.RoundBuckets {
		counts[i].Bucket = b
	}
	for _, r := range records {
		counts[BucketOf(r.TotalRounds())].Count++
	}
	return counts
}

// BreakdownByMap bundles MapStats and RoundDistribution.
func BreakdownByMap(records []model.MatchRecord) model.MapBreakdown {
	return model.MapBreakdown{
		Maps:         MapStats(records),
		Distribution: RoundDistribution(records),
	}
}

// Opponents groups records by opponent, most-played first (ties keep first
// encounter order), keeping at most limit groups. limit <= 0 keeps all.
func Opponents(records []model.MatchRecord, limit int) []model.OpponentStat {
	groups := groupBy(records, func(r model.MatchRecord) string { return r.Opponent })
	out := make([]model.OpponentStat, 0, len(groups))
	for _, g := range groups {
		wins := countWins(g.records)
		out = append(out, model.OpponentStat{
			Opponent: g.key,
			Matches:  len(g.records),
			Wins:     wins,
			WinPct:   Round(pct(wins, len(g.records)), 1),
		})
	}
	return topN(out, func(o model.OpponentStat) float64 { return float64(o.Matches) }, limit)
}
