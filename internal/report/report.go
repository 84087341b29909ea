package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-cs-teams/internal/engine"
	"github.com/pable/go-cs-teams/internal/model"
	"github.com/pable/go-cs-teams/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func criteriaLabel(c model.FilterCriteria) string {
	label := c.Team
	if c.Map != "" {
		label += " on " + c.Map
	}
	if c.Event != "" {
		label += " @ " + c.Event
	}
	return label
}

func pctOf(o model.Opt) string {
	if !o.Valid {
		return model.Sentinel
	}
	return o.Format(2) + "%"
}

// PrintList prints one name per line under a heading.
func PrintList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "%s (%d)\n", title, len(items))
	for _, it := range items {
		fmt.Fprintf(w, "  %s\n", it)
	}
}

// PrintMetrics prints the scalar metrics as aligned key/value lines.
func PrintMetrics(w io.Writer, c model.FilterCriteria, m model.Metrics) {
	fmt.Fprintf(w, "\n=== %s ===\n\n", criteriaLabel(c))
	fmt.Fprintf(w, "  Games played      : %d\n", m.GamesPlayed)
	fmt.Fprintf(w, "  Current rank      : %s\n", m.CurrentRank)
	fmt.Fprintf(w, "  Win rate          : %s\n", pctOf(m.WinRatePct))
	fmt.Fprintf(w, "  Avg opponent rank : %s\n", m.AvgOpponentRank)
	fmt.Fprintf(w, "  Avg rounds won    : %s\n", m.AvgRoundsWon)
	fmt.Fprintf(w, "  Sides             : %s\n", m.SidePercentages())
	fmt.Fprintf(w, "  Maps ≤19 rounds   : %s\n", pctOf(m.PctShortMatches))
	fmt.Fprintf(w, "  Maps ≥22 rounds   : %s\n", pctOf(m.PctLongMatches))
}

// PrintTrend prints the cumulative win rate and rolling rounds per match.
func PrintTrend(w io.Writer, ts model.TimeSeries) {
	if ts.Len() == 0 {
		fmt.Fprintln(w, "(no matches)")
		return
	}
	table := newTable(w)
	table.Header("#", "DATE", "CUM WIN%", "ROLLING ROUNDS")
	for i, p := range ts.Points {
		table.Append(
			strconv.Itoa(i+1),
			p.Date.Format("2006-01-02"),
			fmt.Sprintf("%.1f", p.CumulativeWinRate),
			fmt.Sprintf("%.1f", p.RollingAvgTotalRounds),
		)
	}
	table.Render()
}

// PrintMapBreakdown prints the per-map table followed by the round-count
// distribution.
func PrintMapBreakdown(w io.Writer, bd model.MapBreakdown) {
	if len(bd.Maps) == 0 {
		fmt.Fprintln(w, "(no matches)")
	} else {
		table := newTable(w)
		table.Header("MAP", "MATCHES", "WINS", "WIN%", "AVG OPP RANK")
		for _, m := range bd.Maps {
			table.Append(
				m.Map,
				strconv.Itoa(m.Matches),
				strconv.Itoa(m.Wins),
				strconv.Itoa(m.WinRatePct)+"%",
				m.AvgOpponentRank.Format(1),
			)
		}
		table.Render()
	}

	fmt.Fprintln(w)
	dist := newTable(w)
	dist.Header("ROUNDS", "MAPS")
	for _, b := range bd.Distribution {
		dist.Append(b.Bucket.String(), strconv.Itoa(b.Count))
	}
	dist.Render()
}

// PrintOpponents prints the most-played opponents.
func PrintOpponents(w io.Writer, opps []model.OpponentStat) {
	if len(opps) == 0 {
		fmt.Fprintln(w, "(no opponents)")
		return
	}
	table := newTable(w)
	table.Header("OPPONENT", "MATCHES", "WINS", "WIN%")
	for _, o := range opps {
		table.Append(o.Opponent, strconv.Itoa(o.Matches), strconv.Itoa(o.Wins), fmt.Sprintf("%.1f%%", o.WinPct))
	}
	table.Render()
}

// PrintLeaderboards prints the defensive (CT) and offensive (TR) boards.
func PrintLeaderboards(w io.Writer, lb model.Leaderboards) {
	printBoard(w, "Most defensive (CT round win %)", lb.Defensive)
	fmt.Fprintln(w)
	printBoard(w, "Most offensive (TR round win %)", lb.Offensive)
}

func printBoard(w io.Writer, title string, rates []model.TeamRate) {
	fmt.Fprintf(w, "--- %s ---\n\n", title)
	table := newTable(w)
	table.Header("#", "TEAM", "RATE", "MATCHES")
	for i, r := range rates {
		table.Append(strconv.Itoa(i+1), r.Team, fmt.Sprintf("%.2f%%", r.Rate), strconv.Itoa(r.Matches))
	}
	table.Render()
}

// PrintPanel prints every section of one team panel.
func PrintPanel(w io.Writer, p engine.Panel) {
	PrintMetrics(w, p.Criteria, p.Summary)
	fmt.Fprintf(w, "\n--- Maps ---\n\n")
	PrintMapBreakdown(w, p.Breakdown)
	fmt.Fprintf(w, "\n--- Opponents ---\n\n")
	PrintOpponents(w, p.Opponents)
	fmt.Fprintf(w, "\n--- Trend ---\n\n")
	PrintTrend(w, p.Trend)
}

// PrintComparison prints two panels' metrics side by side, then their map
// records.
func PrintComparison(w io.Writer, cmp engine.Comparison) {
	l, r := cmp.Left.Summary, cmp.Right.Summary
	table := newTable(w)
	table.Header("METRIC", criteriaLabel(cmp.Left.Criteria), criteriaLabel(cmp.Right.Criteria))
	table.Append("Games played", strconv.Itoa(l.GamesPlayed), strconv.Itoa(r.GamesPlayed))
	table.Append("Current rank", l.CurrentRank.String(), r.CurrentRank.String())
	table.Append("Win rate", pctOf(l.WinRatePct), pctOf(r.WinRatePct))
	table.Append("Avg opponent rank", l.AvgOpponentRank.String(), r.AvgOpponentRank.String())
	table.Append("Avg rounds won", l.AvgRoundsWon.String(), r.AvgRoundsWon.String())
	table.Append("TR round win", pctOf(l.AvgTRPct), pctOf(r.AvgTRPct))
	table.Append("CT round win", pctOf(l.AvgCTPct), pctOf(r.AvgCTPct))
	table.Append("Maps ≤19 rounds", pctOf(l.PctShortMatches), pctOf(r.PctShortMatches))
	table.Append("Maps ≥22 rounds", pctOf(l.PctLongMatches), pctOf(r.PctLongMatches))
	table.Render()

	for _, p := range []engine.Panel{cmp.Left, cmp.Right} {
		fmt.Fprintf(w, "\n--- %s: maps ---\n\n", criteriaLabel(p.Criteria))
		PrintMapBreakdown(w, p.Breakdown)
	}
}

// PrintImports lists stored imports with their age relative to now.
func PrintImports(w io.Writer, imps []storage.Import, now time.Time) {
	table := newTable(w)
	table.Header("ID", "SOURCE", "SHEET", "ROWS", "IMPORTED")
	for _, imp := range imps {
		sheet := imp.Sheet
		if sheet == "" {
			sheet = model.Sentinel
		}
		table.Append(
			imp.ID[:8],
			imp.Source,
			sheet,
			humanize.Comma(int64(imp.RowCount)),
			humanize.RelTime(imp.ImportedAt, now, "ago", "from now"),
		)
	}
	table.Render()
}

// PrintRows prints a raw query result.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)
	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%s rows)\n", humanize.Comma(int64(len(rows))))
}
