package aggregator

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-cs-teams/internal/model"
)

// RollingWindow is the number of records averaged by the rolling series.
const RollingWindow = 3

// Trend sorts records by date (stable) and computes, per record, the
// expanding win percentage and the rolling mean of total rounds over the
// current and up to RollingWindow-1 preceding records.
func Trend(records []model.MatchRecord) model.TimeSeries {
	sorted := SortByDate(records)
	points := make([]model.TrendPoint, len(sorted))
	totals := make([]float64, len(sorted))

	wins := 0
	for i, r := range sorted {
		if r.Won {
			wins++
		}
		totals[i] = float64(r.TotalRounds())
		lo := max(0, i-RollingWindow+1)
		points[i] = model.TrendPoint{
			Date:                  r.Date,
			CumulativeWinRate:     pct(wins, i+1),
			RollingAvgTotalRounds: stat.Mean(totals[lo:i+1], nil),
		}
	}
	return model.TimeSeries{Points: points}
}
