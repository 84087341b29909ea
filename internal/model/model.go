package model

import (
	"strconv"
	"time"
)

// Sentinel is rendered in place of any statistic that has no data behind it.
const Sentinel = "-"

// Opt is a float64 that may be absent. Absent values are excluded from
// averages and never treated as zero.
type Opt struct {
	Value float64
	Valid bool
}

// Some returns a present Opt holding v.
func Some(v float64) Opt { return Opt{Value: v, Valid: true} }

// None returns an absent Opt.
func None() Opt { return Opt{} }

// Or returns the value, or def when absent.
func (o Opt) Or(def float64) float64 {
	if !o.Valid {
		return def
	}
	return o.Value
}

// String formats the value with the shortest exact representation, or the
// sentinel when absent.
func (o Opt) String() string {
	if !o.Valid {
		return Sentinel
	}
	return strconv.FormatFloat(o.Value, 'f', -1, 64)
}

// Format formats the value with a fixed number of decimals, or the sentinel.
func (o Opt) Format(decimals int) string {
	if !o.Valid {
		return Sentinel
	}
	return strconv.FormatFloat(o.Value, 'f', decimals, 64)
}

// ---- Normalized match log ----

// MatchRecord is one played map of one match, seen from Team's side.
type MatchRecord struct {
	Date     time.Time
	Team     string
	Opponent string
	Map      string
	Event    string // "" when absent

	RoundsTeam     int
	RoundsOpponent int

	RankTeam     Opt
	RankOpponent Opt

	TRPct Opt // % of T-side rounds won, [0,100]
	CTPct Opt // % of CT-side rounds won, [0,100]

	Won bool
}

// TotalRounds is the number of rounds played on the map.
func (r MatchRecord) TotalRounds() int {
	return r.RoundsTeam + r.RoundsOpponent
}

// HasEvent reports whether the record carries an event name.
func (r MatchRecord) HasEvent() bool {
	return r.Event != ""
}

// FilterCriteria selects a team's records, optionally narrowed to one map
// and/or one event. Empty Map or Event means "any".
type FilterCriteria struct {
	Team  string
	Map   string
	Event string
}

// ---- Summary ----

// Metrics is the scalar summary of a filtered subset.
type Metrics struct {
	GamesPlayed     int
	CurrentRank     Opt
	AvgOpponentRank Opt
	AvgTRPct        Opt
	AvgCTPct        Opt
	PctShortMatches Opt // total rounds <= 19
	PctLongMatches  Opt // total rounds >= 22
	AvgRoundsWon    Opt
	WinRatePct      Opt
}

// SidePercentages renders the average side win percentages as one string.
func (m Metrics) SidePercentages() string {
	return "TR: " + m.AvgTRPct.String() + "% | CT: " + m.AvgCTPct.String() + "%"
}

// ---- Trend ----

// TrendPoint is one record's position in the date-ordered trend.
type TrendPoint struct {
	Date                  time.Time
	CumulativeWinRate     float64 // expanding win %, records [0..i]
	RollingAvgTotalRounds float64 // mean total rounds over the last <=3 records
}

// TimeSeries holds one point per record after a stable date sort.
type TimeSeries struct {
	Points []TrendPoint
}

func (ts TimeSeries) Len() int { return len(ts.Points) }

// Dates returns the index of the series.
func (ts TimeSeries) Dates() []time.Time {
	out := make([]time.Time, len(ts.Points))
	for i, p := range ts.Points {
		out[i] = p.Date
	}
	return out
}

// CumulativeWinRate returns the expanding win-rate series.
func (ts TimeSeries) CumulativeWinRate() []float64 {
	out := make([]float64, len(ts.Points))
	for i, p := range ts.Points {
		out[i] = p.CumulativeWinRate
	}
	return out
}

// RollingAvgTotalRounds returns the rolling total-rounds series.
func (ts TimeSeries) RollingAvgTotalRounds() []float64 {
	out := make([]float64, len(ts.Points))
	for i, p := range ts.Points {
		out[i] = p.RollingAvgTotalRounds
	}
	return out
}

// ---- Breakdowns ----

// MapStat aggregates a team's results on one map.
type MapStat struct {
	Map             string
	Matches         int
	Wins            int
	WinRatePct      int
	AvgOpponentRank Opt // difficulty: lower means stronger opposition
}

// OpponentStat aggregates a team's results against one opponent.
type OpponentStat struct {
	Opponent string
	Matches  int
	Wins     int
	WinPct   float64
}

// RoundBucket classifies a map by its total rounds played.
type RoundBucket int

const (
	BucketShort    RoundBucket = iota // <= 19
	BucketRegular                     // 20-24
	BucketClose                       // 25-29
	BucketOvertime                    // 30+
)

// RoundBuckets lists every bucket in display order.
var RoundBuckets = []RoundBucket{BucketShort, BucketRegular, BucketClose, BucketOvertime}

func (b RoundBucket) String() string {
	switch b {
	case BucketShort:
		return "≤19"
	case BucketRegular:
		return "20–24"
	case BucketClose:
		return "25–29"
	case BucketOvertime:
		return "30+"
	default:
		return "?"
	}
}

// BucketCount is the number of records falling into one round bucket.
type BucketCount struct {
	Bucket RoundBucket
	Count  int
}

// MapBreakdown is the per-map view of a filtered subset.
type MapBreakdown struct {
	Maps         []MapStat
	Distribution []BucketCount
}

// ---- Leaderboards ----

// TeamRate is one leaderboard row.
type TeamRate struct {
	Team    string
	Rate    float64
	Matches int // records that contributed a value
}

// Leaderboards holds the dataset-wide side rankings.
type Leaderboards struct {
	Defensive []TeamRate // by mean CT %
	Offensive []TeamRate // by mean TR %
}
