// Package aggregator computes summary metrics, trends, grouped breakdowns and
// leaderboards over slices of normalized match records. Every function is
// pure: inputs are never modified and results share no memory with them.
package aggregator

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-cs-teams/internal/model"
)

// Field extracts an optional numeric value from a record.
type Field func(model.MatchRecord) model.Opt

func RankTeam(r model.MatchRecord) model.Opt     { return r.RankTeam }
func RankOpponent(r model.MatchRecord) model.Opt { return r.RankOpponent }
func TRPct(r model.MatchRecord) model.Opt        { return r.TRPct }
func CTPct(r model.MatchRecord) model.Opt        { return r.CTPct }

// Round rounds v to the given number of decimals, ties to even.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}

// SortByDate returns a copy of records stably sorted by date ascending.
// Same-day records keep their relative order.
func SortByDate(records []model.MatchRecord) []model.MatchRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b model.MatchRecord) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// Mean averages the present values of f over records.
func Mean(records []model.MatchRecord, f Field) (float64, int) {
	vals := make([]float64, 0, len(records))
	for _, r := range records {
		if v := f(r); v.Valid {
			vals = append(vals, v.Value)
		}
	}
	if len(vals) == 0 {
		return 0, 0
	}
	return stat.Mean(vals, nil), len(vals)
}

// meanOpt is Mean as an Opt, absent when no record has a value.
func meanOpt(records []model.MatchRecord, f Field) model.Opt {
	m, n := Mean(records, f)
	if n == 0 {
		return model.None()
	}
	return model.Some(m)
}

func pct(part, whole int) float64 {
	return float64(part) / float64(whole) * 100
}

// group is a set of records sharing a key, in first-encountered order.
type group struct {
	key     string
	records []model.MatchRecord
}

func groupBy(records []model.MatchRecord, key func(model.MatchRecord) string) []group {
	index := make(map[string]int)
	var groups []group
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}

func countWins(records []model.MatchRecord) int {
	n := 0
	for _, r := range records {
		if r.Won {
			n++
		}
	}
	return n
}

// topN stable-sorts by descending score and keeps at most n (n <= 0 keeps all).
func topN[T any](items []T, score func(T) float64, n int) []T {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(score(b), score(a))
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}
