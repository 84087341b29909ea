package aggregator

import (
	"math"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/pable/go-cs-teams/internal/model"
)

func day(d int) time.Time {
	return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

// rec builds a record for team "Astralis" with a score split of total rounds.
func rec(d int, opponent, mapName string, roundsFor, roundsAgainst int, won bool) model.MatchRecord {
	return model.MatchRecord{
		Date:           day(d),
		Team:           "Astralis",
		Opponent:       opponent,
		Map:            mapName,
		RoundsTeam:     roundsFor,
		RoundsOpponent: roundsAgainst,
		Won:            won,
	}
}

// randomSubset builds a reproducible pseudo-random subset.
func randomSubset(seed int64, n int) []model.MatchRecord {
	rng := rand.New(rand.NewSource(seed))
	maps := []string{"Mirage", "Nuke", "Inferno", "Ancient", "Anubis"}
	opps := []string{"Big", "3Dmax", "FURIA", "Vitality", "MOUZ", "G2", "Spirit"}
	out := make([]model.MatchRecord, n)
	for i := range out {
		r := rec(rng.Intn(30), opps[rng.Intn(len(opps))], maps[rng.Intn(len(maps))],
			rng.Intn(20), rng.Intn(20), rng.Intn(2) == 1)
		if rng.Intn(4) > 0 {
			r.RankOpponent = model.Some(float64(1 + rng.Intn(40)))
		}
		if rng.Intn(3) > 0 {
			r.TRPct = model.Some(float64(rng.Intn(101)))
			r.CTPct = model.Some(float64(rng.Intn(101)))
		}
		out[i] = r
	}
	return out
}

// closeTo compares float slices within a tolerance.
func closeTo(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func teamNames(rs []model.TeamRate) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.Team)
	}
	return out
}

// ---- Summary tests ----

func TestSummarize_AstralisExample(t *testing.T) {
	a := rec(0, "Big", "Mirage", 13, 7, true)
	a.RankTeam, a.RankOpponent = model.Some(1), model.Some(3)
	b := rec(1, "3Dmax", "Nuke", 11, 13, false)
	b.RankTeam, b.RankOpponent = model.Some(1), model.Some(5)

	m := Summarize([]model.MatchRecord{a, b})
	if m.GamesPlayed != 2 {
		t.Errorf("GamesPlayed: got %d, want 2", m.GamesPlayed)
	}
	for name, c := range map[string]struct{ got, want model.Opt }{
		"WinRatePct":      {m.WinRatePct, model.Some(50)},
		"AvgOpponentRank": {m.AvgOpponentRank, model.Some(4)},
		"PctShortMatches": {m.PctShortMatches, model.Some(0)},
		"PctLongMatches":  {m.PctLongMatches, model.Some(50)},
		"AvgRoundsWon":    {m.AvgRoundsWon, model.Some(12)},
		"CurrentRank":     {m.CurrentRank, model.Some(1)},
	} {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", name, c.got, c.want)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	m := Summarize(nil)
	if m.GamesPlayed != 0 {
		t.Errorf("GamesPlayed: got %d, want 0", m.GamesPlayed)
	}
	for name, o := range map[string]model.Opt{
		"current_rank":      m.CurrentRank,
		"avg_opponent_rank": m.AvgOpponentRank,
		"avg_tr":            m.AvgTRPct,
		"avg_ct":            m.AvgCTPct,
		"le19":              m.PctShortMatches,
		"ge22":              m.PctLongMatches,
		"avg_rounds_won":    m.AvgRoundsWon,
		"win_rate":          m.WinRatePct,
	} {
		if o.Valid || o.String() != model.Sentinel {
			t.Errorf("%s: got %v, want absent", name, o)
		}
	}
	if got := m.SidePercentages(); got != "TR: -% | CT: -%" {
		t.Errorf("SidePercentages: got %q", got)
	}
}

func TestSummarize_MissingValuesExcludedNotZero(t *testing.T) {
	a := rec(0, "Big", "Mirage", 13, 3, true)
	a.RankOpponent = model.Some(10)
	a.TRPct = model.Some(60)
	b := rec(1, "Big", "Mirage", 13, 3, true) // no rank, no percentages

	m := Summarize([]model.MatchRecord{a, b})
	if m.AvgOpponentRank != model.Some(10) {
		t.Errorf("AvgOpponentRank: got %v, want 10", m.AvgOpponentRank)
	}
	if m.AvgTRPct != model.Some(60) {
		t.Errorf("AvgTRPct: got %v, want 60", m.AvgTRPct)
	}
	if m.AvgCTPct.Valid {
		t.Errorf("AvgCTPct: got %v, want absent", m.AvgCTPct)
	}
	if m.CurrentRank.Valid {
		t.Errorf("CurrentRank: latest record has no rank, got %v", m.CurrentRank)
	}
	if m.PctShortMatches != model.Some(100) {
		t.Errorf("PctShortMatches: got %v, want 100", m.PctShortMatches)
	}
}

func TestSummarize_CurrentRankIsLatestByDate(t *testing.T) {
	older := rec(5, "Big", "Mirage", 13, 10, true)
	older.RankTeam = model.Some(9)
	newer := rec(8, "Big", "Nuke", 13, 10, true)
	newer.RankTeam = model.Some(4)
	sameDayLast := rec(8, "FURIA", "Nuke", 13, 10, true)
	sameDayLast.RankTeam = model.Some(3)

	if got := Summarize([]model.MatchRecord{newer, older}).CurrentRank; got != model.Some(4) {
		t.Errorf("CurrentRank: got %v, want 4", got)
	}
	// same date: stable sort, last position wins
	if got := Summarize([]model.MatchRecord{newer, older, sameDayLast}).CurrentRank; got != model.Some(3) {
		t.Errorf("CurrentRank same day: got %v, want 3", got)
	}
}

func TestSummarize_Rounding(t *testing.T) {
	recs := []model.MatchRecord{
		rec(0, "Big", "Mirage", 13, 5, true),
		rec(1, "Big", "Mirage", 5, 13, false),
		rec(2, "Big", "Mirage", 7, 13, false),
	}
	m := Summarize(recs)
	if m.WinRatePct != model.Some(33.33) {
		t.Errorf("WinRatePct: got %v, want 33.33", m.WinRatePct)
	}
	if m.PctShortMatches != model.Some(66.67) {
		t.Errorf("PctShortMatches: got %v, want 66.67", m.PctShortMatches)
	}
	if m.AvgRoundsWon != model.Some(8.33) {
		t.Errorf("AvgRoundsWon: got %v, want 8.33", m.AvgRoundsWon)
	}
	if got := m.WinRatePct.Format(2); got != "33.33" {
		t.Errorf("Format(2): got %q", got)
	}
}

// ---- Trend tests ----

func TestTrend_Empty(t *testing.T) {
	if n := Trend(nil).Len(); n != 0 {
		t.Errorf("Len: got %d, want 0", n)
	}
}

func TestTrend_ExpandingAndRolling(t *testing.T) {
	recs := []model.MatchRecord{
		rec(3, "Big", "Nuke", 13, 11, false),  // total 24
		rec(1, "Big", "Mirage", 13, 3, true),  // total 16
		rec(2, "Big", "Mirage", 16, 14, true), // total 30
		rec(4, "Big", "Mirage", 4, 13, false), // total 17
	}
	ts := Trend(recs)
	if ts.Len() != 4 {
		t.Fatalf("Len: got %d, want 4", ts.Len())
	}

	if got, want := ts.Dates(), []time.Time{day(1), day(2), day(3), day(4)}; !slices.EqualFunc(got, want, time.Time.Equal) {
		t.Errorf("Dates: got %v, want %v", got, want)
	}
	if got := ts.CumulativeWinRate(); !closeTo(got, []float64{100, 100, 200.0 / 3, 50}) {
		t.Errorf("CumulativeWinRate: got %v", got)
	}
	if got := ts.RollingAvgTotalRounds(); !closeTo(got, []float64{16, 23, 70.0 / 3, 71.0 / 3}) {
		t.Errorf("RollingAvgTotalRounds: got %v", got)
	}
}

func TestTrend_Properties(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		recs := randomSubset(seed, 1+int(seed)*3)
		ts := Trend(recs)
		m := Summarize(recs)
		sorted := SortByDate(recs)

		if ts.Len() != len(recs) {
			t.Fatalf("seed %d: Len got %d, want %d", seed, ts.Len(), len(recs))
		}
		last := ts.Points[ts.Len()-1]
		if got := Round(last.CumulativeWinRate, 2); got != m.WinRatePct.Value {
			t.Errorf("seed %d: last cumulative win rate %v != summary %v", seed, got, m.WinRatePct.Value)
		}
		if got, want := ts.Points[0].RollingAvgTotalRounds, float64(sorted[0].TotalRounds()); got != want {
			t.Errorf("seed %d: first rolling value %v != first total %v", seed, got, want)
		}
	}
}

func TestSortByDate_DoesNotMutate(t *testing.T) {
	recs := []model.MatchRecord{rec(2, "Big", "Nuke", 1, 1, true), rec(1, "Big", "Nuke", 1, 1, true)}
	_ = SortByDate(recs)
	if !recs[0].Date.Equal(day(2)) {
		t.Errorf("input reordered: first date %v", recs[0].Date)
	}
}

// ---- Grouping tests ----

func TestMapStats(t *testing.T) {
	recs := []model.MatchRecord{
		rec(0, "Big", "Nuke", 13, 5, true),
		rec(1, "Big", "Mirage", 13, 5, true),
		rec(2, "FURIA", "Nuke", 5, 13, false),
		rec(3, "G2", "Nuke", 13, 11, true),
	}
	recs[0].RankOpponent = model.Some(10)
	recs[2].RankOpponent = model.Some(4)

	got := MapStats(recs)
	want := []model.MapStat{
		{Map: "Mirage", Matches: 1, Wins: 1, WinRatePct: 100, AvgOpponentRank: model.None()},
		{Map: "Nuke", Matches: 3, Wins: 2, WinRatePct: 67, AvgOpponentRank: model.Some(7)},
	}
	if !slices.Equal(got, want) {
		t.Errorf("MapStats:\n got %+v\nwant %+v", got, want)
	}
	if n := len(MapStats(nil)); n != 0 {
		t.Errorf("MapStats(nil): got %d entries", n)
	}
}

func TestMapStats_WinRateRoundsHalfToEven(t *testing.T) {
	var recs []model.MatchRecord
	for i := 0; i < 8; i++ {
		recs = append(recs, rec(i, "Big", "Anubis", 13, 5, i < 1)) // 1/8 = 12.5%
	}
	if got := MapStats(recs)[0].WinRatePct; got != 12 {
		t.Errorf("WinRatePct: got %d, want 12", got)
	}
}

func TestBucketOf(t *testing.T) {
	cases := map[int]model.RoundBucket{
		0: model.BucketShort, 16: model.BucketShort, 19: model.BucketShort,
		20: model.BucketRegular, 24: model.BucketRegular,
		25: model.BucketClose, 29: model.BucketClose,
		30: model.BucketOvertime, 54: model.BucketOvertime, 120: model.BucketOvertime,
	}
	for total, want := range cases {
		if got := BucketOf(total); got != want {
			t.Errorf("BucketOf(%d): got %v, want %v", total, got, want)
		}
	}
}

func TestRoundDistribution_IsTotalPartition(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		recs := randomSubset(seed, int(seed)*4)
		dist := RoundDistribution(recs)
		if len(dist) != 4 {
			t.Fatalf("seed %d: got %d buckets, want 4", seed, len(dist))
		}
		sum := 0
		for i, c := range dist {
			if c.Bucket != model.RoundBuckets[i] {
				t.Errorf("seed %d: bucket %d is %v, want %v", seed, i, c.Bucket, model.RoundBuckets[i])
			}
			sum += c.Count
		}
		if games := Summarize(recs).GamesPlayed; sum != games {
			t.Errorf("seed %d: bucket counts sum to %d, want %d", seed, sum, games)
		}
	}
}

func TestOpponents_TopFiveSortedByMatches(t *testing.T) {
	opps := []string{"A", "B", "B", "C", "D", "D", "D", "E", "F", "F", "G"}
	var recs []model.MatchRecord
	for i, o := range opps {
		recs = append(recs, rec(i, o, "Mirage", 13, 5, i%2 == 0))
	}

	got := Opponents(recs, OpponentLimit)
	var names []string
	for _, g := range got {
		names = append(names, g.Opponent)
	}
	// ties (B/F at 2, A/C/E/G at 1) keep first-encountered order
	if want := []string{"D", "B", "F", "A", "C"}; !slices.Equal(names, want) {
		t.Fatalf("opponents: got %v, want %v", names, want)
	}
	if want := (model.OpponentStat{Opponent: "D", Matches: 3, Wins: 2, WinPct: 66.7}); got[0] != want {
		t.Errorf("top opponent: got %+v, want %+v", got[0], want)
	}
}

func TestOpponents_RandomNeverExceedsLimit(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		got := Opponents(randomSubset(seed, 50), OpponentLimit)
		if len(got) > OpponentLimit {
			t.Errorf("seed %d: %d opponents, limit %d", seed, len(got), OpponentLimit)
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].Matches < got[i].Matches {
				t.Errorf("seed %d: not sorted at %d: %+v", seed, i, got)
			}
		}
	}
	if n := len(Opponents(nil, OpponentLimit)); n != 0 {
		t.Errorf("Opponents(nil): got %d entries", n)
	}
}

// ---- Leaderboard tests ----

func TestLeaderboards(t *testing.T) {
	mk := func(team string, ct, tr model.Opt) model.MatchRecord {
		return model.MatchRecord{Date: day(0), Team: team, Opponent: "X", Map: "Nuke", CTPct: ct, TRPct: tr}
	}
	recs := []model.MatchRecord{
		mk("Big", model.Some(60), model.Some(40)),
		mk("3Dmax", model.Some(50), model.Some(70)),
		mk("Big", model.Some(40), model.Some(40)), // Big CT mean 50
		mk("FURIA", model.Some(70), model.None()),
		mk("Spirit", model.Some(30), model.Some(55)),
		mk("MOUZ", model.Some(20), model.Some(45)),
		mk("G2", model.Some(10), model.Some(35)),
		mk("Ghosts", model.None(), model.None()),
	}

	lb := Leaderboards(recs, LeaderboardSize)
	// Big and 3Dmax tie at 50 CT: Big was seen first
	if got, want := teamNames(lb.Defensive), []string{"FURIA", "Big", "3Dmax", "Spirit", "MOUZ"}; !slices.Equal(got, want) {
		t.Errorf("Defensive: got %v, want %v", got, want)
	}
	if got, want := teamNames(lb.Offensive), []string{"3Dmax", "Spirit", "MOUZ", "Big", "G2"}; !slices.Equal(got, want) {
		t.Errorf("Offensive: got %v, want %v", got, want)
	}
	if want := (model.TeamRate{Team: "Big", Rate: 50, Matches: 2}); len(lb.Defensive) < 2 || lb.Defensive[1] != want {
		t.Errorf("Defensive[1]: got %+v, want %+v", lb.Defensive, want)
	}
}

func TestTopTeamsBy_AliasVariantsFormOneGroup(t *testing.T) {
	// records arrive already normalized; one canonical name means one group
	recs := []model.MatchRecord{
		{Team: "3Dmax", CTPct: model.Some(40)},
		{Team: "3Dmax", CTPct: model.Some(60)},
	}
	got := TopTeamsBy(recs, CTPct, 0)
	if len(got) != 1 || got[0].Rate != 50 {
		t.Errorf("TopTeamsBy: got %+v, want one 3Dmax entry at 50", got)
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		v      float64
		places int
		want   float64
	}{
		{2.5, 0, 2},
		{3.5, 0, 4},
		{100.0 / 3, 1, 33.3},
		{200.0 / 3, 2, 66.67},
	}
	for _, c := range cases {
		if got := Round(c.v, c.places); got != c.want {
			t.Errorf("Round(%v, %d): got %v, want %v", c.v, c.places, got, c.want)
		}
	}
}
