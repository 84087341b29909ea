package aggregator

import "github.com/pable/go-cs-teams/internal/model"

const (
	shortMatchMax = 19 // total rounds at or below: a stomp
	longMatchMin  = 22 // total rounds at or above: a close map
)

// Summarize computes the scalar metrics of a filtered subset. An empty subset
// yields GamesPlayed 0 and every other metric absent.
func Summarize(records []model.MatchRecord) model.Metrics {
	m := model.Metrics{GamesPlayed: len(records)}
	if len(records) == 0 {
		return m
	}

	sorted := SortByDate(records)
	m.CurrentRank = sorted[len(sorted)-1].RankTeam

	m.AvgOpponentRank = round2(meanOpt(records, RankOpponent))
	m.AvgTRPct = round2(meanOpt(records, TRPct))
	m.AvgCTPct = round2(meanOpt(records, CTPct))

	var short, long, roundsWon int
	for _, r := range records {
		total := r.TotalRounds()
		if total <= shortMatchMax {
			short++
		}
		if total >= longMatchMin {
			long++
		}
		roundsWon += r.RoundsTeam
	}
	n := len(records)
	m.PctShortMatches = model.Some(Round(pct(short, n), 2))
	m.PctLongMatches = model.Some(Round(pct(long, n), 2))
	m.AvgRoundsWon = model.Some(Round(float64(roundsWon)/float64(n), 2))
	m.WinRatePct = model.Some(Round(pct(countWins(records), n), 2))
	return m
}

func round2(o model.Opt) model.Opt {
	if !o.Valid {
		return o
	}
	return model.Some(Round(o.Value, 2))
}
