// Package loader reads a match log from an .xlsx or .csv file, normalizes
// every row and produces an immutable dataset. A load either fully succeeds
// or returns a *LoadError; there is no partial dataset.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/pable/go-cs-teams/internal/dataset"
	"github.com/pable/go-cs-teams/internal/model"
	"github.com/pable/go-cs-teams/internal/normalize"
)

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrNoRows            = errors.New("no header row")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// LoadError is fatal: the source could not be turned into a dataset.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Options configures a load.
type Options struct {
	Sheet      string // xlsx only; default is the first sheet
	Normalizer *normalize.Normalizer
	Logger     zerolog.Logger
}

// column maps one logical field to the header spellings it accepts.
type column struct {
	name    string
	headers []string
	set     func(*normalize.RawRow, string)
}

var columns = []column{
	{"date", []string{"date"}, func(r *normalize.RawRow, v string) { r.Date = v }},
	{"team", []string{"team"}, func(r *normalize.RawRow, v string) { r.Team = v }},
	{"opponent", []string{"opponent"}, func(r *normalize.RawRow, v string) { r.Opponent = v }},
	{"map", []string{"map"}, func(r *normalize.RawRow, v string) { r.Map = v }},
	{"event", []string{"event"}, func(r *normalize.RawRow, v string) { r.Event = v }},
	{"rounds_team", []string{"rounds_team"}, func(r *normalize.RawRow, v string) { r.RoundsTeam = v }},
	{"rounds_opponent", []string{"rounds_opponent"}, func(r *normalize.RawRow, v string) { r.RoundsOpponent = v }},
	{"rank_team", []string{"rank_team"}, func(r *normalize.RawRow, v string) { r.RankTeam = v }},
	{"rank_opponent", []string{"rank_opponent"}, func(r *normalize.RawRow, v string) { r.RankOpponent = v }},
	{"tr_pct", []string{"tr_team_porcent", "tr_pct"}, func(r *normalize.RawRow, v string) { r.TRPct = v }},
	{"ct_pct", []string{"ct_team_porcent", "ct_pct"}, func(r *normalize.RawRow, v string) { r.CTPct = v }},
	{"won", []string{"venceu", "won", "win"}, func(r *normalize.RawRow, v string) { r.Won = v }},
}

// RequiredColumns lists the logical columns every source must provide.
func RequiredColumns() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.name
	}
	return out
}

// Load reads path (by extension: .xlsx, .xlsm, .csv, .tsv) into a dataset.
func Load(ctx context.Context, path string, opts Options) (*dataset.Dataset, []normalize.Warning, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path, opts.Sheet)
	case ".csv":
		rows, err = readDelimited(path, ',')
	case ".tsv":
		rows, err = readDelimited(path, '\t')
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, nil, &LoadError{Source: path, Err: err}
	}
	return LoadRows(ctx, path, rows, opts)
}

// LoadRows builds a dataset from a header row followed by data rows.
func LoadRows(ctx context.Context, source string, rows [][]string, opts Options) (*dataset.Dataset, []normalize.Warning, error) {
	norm := opts.Normalizer
	if norm == nil {
		norm = normalize.New(normalize.AliasTable{})
	}
	log := opts.Logger.With().Str("source", source).Logger()

	if len(rows) == 0 {
		return nil, nil, &LoadError{Source: source, Err: ErrNoRows}
	}
	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, nil, &LoadError{Source: source, Err: err}
	}

	records := make([]model.MatchRecord, 0, len(rows)-1)
	var warnings []normalize.Warning
	for i, cells := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, nil, &LoadError{Source: source, Err: err}
		}
		if blankRow(cells) {
			continue
		}
		raw := normalize.RawRow{Line: i + 2}
		for ci, col := range columns {
			if pos := index[ci]; pos < len(cells) {
				col.set(&raw, cells[pos])
			}
		}
		rec, warns, err := norm.Normalize(raw)
		if err != nil {
			return nil, nil, &LoadError{Source: source, Err: err}
		}
		for _, w := range warns {
			log.Debug().Int("row", w.Line).Str("field", w.Field).Str("value", w.Value).Msg(w.Reason)
		}
		warnings = append(warnings, warns...)
		records = append(records, rec)
	}

	if len(warnings) > 0 {
		log.Warn().Int("cells", len(warnings)).Msg("malformed cells coerced or dropped")
	}
	ds := dataset.New(records, norm)
	log.Info().Int("records", ds.Len()).Int("teams", len(ds.Teams())).Msg("match log loaded")
	return ds, warnings, nil
}

// headerIndex returns, per entry of columns, the cell position of its header.
func headerIndex(header []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	index := make([]int, len(columns))
	var missing []string
	for ci, col := range columns {
		index[ci] = -1
		for _, h := range col.headers {
			if p, ok := pos[h]; ok {
				index[ci] = p
				break
			}
		}
		if index[ci] < 0 {
			missing = append(missing, col.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoRows
		}
		sheet = sheets[0]
	}
	// Raw values keep dates as serial numbers and percentages unformatted.
	return f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
