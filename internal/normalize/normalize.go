// Package normalize turns raw, loosely-typed match-log rows into canonical
// model.MatchRecord values.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-cs-teams/internal/model"
)

// RawRow holds the unparsed cells of one match-log row, by logical column.
type RawRow struct {
	Line int // 1-based source row, for diagnostics

	Date     string
	Team     string
	Opponent string
	Map      string
	Event    string

	RoundsTeam     string
	RoundsOpponent string
	RankTeam       string
	RankOpponent   string
	TRPct          string
	CTPct          string
	Won            string
}

// MaxRounds bounds a single side's round count; larger values are invalid.
const MaxRounds = 1000

// dateLayouts are tried in order. US month-first wins over day-first for
// slash dates, matching how the source spreadsheets were exported.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"02.01.2006",
}

// Normalizer applies one alias table to rows and records. It holds no
// mutable state and is safe for concurrent use.
type Normalizer struct {
	aliases AliasTable
}

// New returns a Normalizer resolving team names through aliases.
func New(aliases AliasTable) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// TeamName returns the canonical spelling of a team name.
func (n *Normalizer) TeamName(name string) string {
	return n.aliases.Resolve(name)
}

// Normalize converts one raw row. Data-quality problems in numeric cells are
// reported as warnings; an unparsable date, a blank team or a self-match is a
// *RowError.
func (n *Normalizer) Normalize(row RawRow) (model.MatchRecord, []Warning, error) {
	var warns []Warning
	warn := func(field, value, reason string) {
		warns = append(warns, Warning{Line: row.Line, Field: field, Value: value, Reason: reason})
	}

	date, ok := parseDate(row.Date)
	if !ok {
		return model.MatchRecord{}, nil, &RowError{Line: row.Line, Field: "date", Value: row.Date, Err: ErrBadDate}
	}

	rec := model.MatchRecord{
		Date:     date,
		Team:     n.TeamName(row.Team),
		Opponent: n.TeamName(row.Opponent),
		Map:      strings.TrimSpace(row.Map),
		Event:    cleanText(row.Event),
	}
	if rec.Team == "" {
		return model.MatchRecord{}, nil, &RowError{Line: row.Line, Field: "team", Value: row.Team, Err: ErrMissingName}
	}
	if rec.Opponent != "" && rec.Team == rec.Opponent {
		return model.MatchRecord{}, nil, &RowError{Line: row.Line, Field: "opponent", Value: row.Opponent, Err: ErrSelfMatch}
	}

	rec.RoundsTeam = parseRounds(row.RoundsTeam, "rounds_team", warn)
	rec.RoundsOpponent = parseRounds(row.RoundsOpponent, "rounds_opponent", warn)

	rec.RankTeam = parseOpt(row.RankTeam, "rank_team", 0, math.Inf(1), warn)
	rec.RankOpponent = parseOpt(row.RankOpponent, "rank_opponent", 0, math.Inf(1), warn)
	rec.TRPct = parseOpt(row.TRPct, "tr_pct", 0, 100, warn)
	rec.CTPct = parseOpt(row.CTPct, "ct_pct", 0, 100, warn)

	won, ok := parseWon(row.Won)
	if !ok {
		warn("won", row.Won, "not a win flag, treated as loss")
	}
	rec.Won = won

	return rec, warns, nil
}

// Canonical re-applies name resolution and trimming to an existing record.
// On a record produced by Normalize with the same table it is a no-op.
func (n *Normalizer) Canonical(rec model.MatchRecord) model.MatchRecord {
	rec.Team = n.TeamName(rec.Team)
	rec.Opponent = n.TeamName(rec.Opponent)
	rec.Map = strings.TrimSpace(rec.Map)
	rec.Event = cleanText(rec.Event)
	rec.Date = calendarDate(rec.Date)
	rec.RoundsTeam = clampRounds(rec.RoundsTeam)
	rec.RoundsOpponent = clampRounds(rec.RoundsOpponent)
	return rec
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(t), true
		}
	}
	// Raw xlsx cells carry dates as serial day numbers.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return calendarDate(t), true
		}
	}
	return time.Time{}, false
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isBlank reports cells that mean "no value" rather than "bad value".
func isBlank(s string) bool {
	switch strings.ToLower(s) {
	case "", "-", "nan", "n/a", "na", "null", "none":
		return true
	}
	return false
}

func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if isBlank(s) {
		return ""
	}
	return s
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func clampRounds(r int) int {
	if r < 0 || r > MaxRounds {
		return 0
	}
	return r
}

func parseRounds(s, field string, warn func(field, value, reason string)) int {
	s = strings.TrimSpace(s)
	if isBlank(s) {
		if s != "" {
			warn(field, s, "missing round count, coerced to 0")
		}
		return 0
	}
	v, ok := parseNumber(s)
	if !ok || v < 0 || v > MaxRounds {
		warn(field, s, "invalid round count, coerced to 0")
		return 0
	}
	return int(math.Round(v))
}

func parseOpt(s, field string, lo, hi float64, warn func(field, value, reason string)) model.Opt {
	s = strings.TrimSpace(s)
	if isBlank(s) {
		return model.None()
	}
	v, ok := parseNumber(s)
	if !ok || v < lo || v > hi {
		warn(field, s, "invalid value, treated as absent")
		return model.None()
	}
	return model.Some(v)
}

func parseWon(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1.0", "true", "t", "yes", "y", "sim", "s", "w", "win", "won":
		return true, true
	case "0", "0.0", "false", "f", "no", "n", "não", "nao", "l", "loss", "lost":
		return false, true
	}
	return false, false
}
