package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/pable/go-cs-teams/internal/model"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const (
	dateLayout = "2006-01-02"
	// Fixed width so imported_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNoImports is returned when the store holds no import yet.
var ErrNoImports = errors.New("no imports stored")

// Import describes one stored load of a match log.
type Import struct {
	ID         string
	Source     string
	Sheet      string
	RowCount   int
	ImportedAt time.Time
}

var importColumns = []string{"id", "source", "sheet", "row_count", "imported_at"}

var matchColumns = []string{
	"import_id", "seq", "match_date", "team", "opponent", "map_name", "event",
	"rounds_team", "rounds_opponent", "rank_team", "rank_opponent", "tr_pct", "ct_pct", "won",
}

// SaveImport stores records under a new import id in one transaction. Record
// order is kept in seq so LoadMatches returns the dataset order.
func (db *DB) SaveImport(ctx context.Context, source, sheet string, records []model.MatchRecord) (Import, error) {
	imp := Import{
		ID:         uuid.NewString(),
		Source:     source,
		Sheet:      sheet,
		RowCount:   len(records),
		ImportedAt: time.Now().UTC(),
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, err
	}
	defer tx.Rollback()

	query, args, err := sqlBuilder.Insert("imports").Columns(importColumns...).
		Values(imp.ID, imp.Source, imp.Sheet, imp.RowCount, imp.ImportedAt.Format(timeLayout)).
		ToSql()
	if err != nil {
		return Import{}, err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return Import{}, fmt.Errorf("insert import: %w", err)
	}

	placeholders := make([]any, len(matchColumns))
	query, _, err = sqlBuilder.Insert("matches").Columns(matchColumns...).Values(placeholders...).ToSql()
	if err != nil {
		return Import{}, err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return Import{}, err
	}
	defer stmt.Close()

	for i, r := range records {
		_, err = stmt.ExecContext(ctx,
			imp.ID, i, r.Date.Format(dateLayout), r.Team, r.Opponent, r.Map, nullString(r.Event),
			r.RoundsTeam, r.RoundsOpponent,
			nullFloat(r.RankTeam), nullFloat(r.RankOpponent), nullFloat(r.TRPct), nullFloat(r.CTPct),
			boolInt(r.Won),
		)
		if err != nil {
			return Import{}, fmt.Errorf("insert match %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Import{}, err
	}
	db.log.Info().Str("import", imp.ID).Int("records", imp.RowCount).Msg("import saved")
	return imp, nil
}

// ListImports returns all imports, newest first.
func (db *DB) ListImports(ctx context.Context) ([]Import, error) {
	query, args, err := sqlBuilder.Select(importColumns...).From("imports").
		OrderBy("imported_at DESC", "rowid DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Import
	for rows.Next() {
		imp, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

// LatestImport returns the most recent import or ErrNoImports.
func (db *DB) LatestImport(ctx context.Context) (Import, error) {
	query, args, err := sqlBuilder.Select(importColumns...).From("imports").
		OrderBy("imported_at DESC", "rowid DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return Import{}, err
	}
	imp, err := scanImport(db.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, ErrNoImports
	}
	return imp, err
}

// GetImportByPrefix finds the first import whose id starts with prefix.
func (db *DB) GetImportByPrefix(ctx context.Context, prefix string) (*Import, error) {
	query, args, err := sqlBuilder.Select(importColumns...).From("imports").
		Where(squirrel.Like{"id": prefix + "%"}).
		OrderBy("imported_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	imp, err := scanImport(db.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

// DeleteImport removes an import and its matches.
func (db *DB) DeleteImport(ctx context.Context, id string) error {
	query, args, err := sqlBuilder.Delete("imports").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete import: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("import %s not found", id)
	}
	return nil
}

// LoadMatches returns the records of one import in their original order.
// NULL ranks and percentages come back absent.
func (db *DB) LoadMatches(ctx context.Context, importID string) ([]model.MatchRecord, error) {
	query, args, err := sqlBuilder.Select(matchColumns[2:]...).From("matches").
		Where(squirrel.Eq{"import_id": importID}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MatchRecord{}
	for rows.Next() {
		var (
			r            model.MatchRecord
			date         string
			event        sql.NullString
			rankT, rankO sql.NullFloat64
			trPct, ctPct sql.NullFloat64
			wonInt       int
		)
		if err := rows.Scan(&date, &r.Team, &r.Opponent, &r.Map, &event,
			&r.RoundsTeam, &r.RoundsOpponent, &rankT, &rankO, &trPct, &ctPct, &wonInt); err != nil {
			return nil, err
		}
		r.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		r.Event = event.String
		r.RankTeam = optOf(rankT)
		r.RankOpponent = optOf(rankO)
		r.TRPct = optOf(trPct)
		r.CTPct = optOf(ctPct)
		r.Won = wonInt != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary read query and returns its column names and
// rows rendered as strings. NULL renders as "NULL".
func (db *DB) QueryRaw(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch v := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(v)
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImport(s rowScanner) (Import, error) {
	var (
		imp Import
		at  string
	)
	if err := s.Scan(&imp.ID, &imp.Source, &imp.Sheet, &imp.RowCount, &at); err != nil {
		return Import{}, err
	}
	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return Import{}, fmt.Errorf("parse imported_at %q: %w", at, err)
	}
	imp.ImportedAt = t
	return imp, nil
}

func nullFloat(o model.Opt) sql.NullFloat64 {
	return sql.NullFloat64{Float64: o.Value, Valid: o.Valid}
}

func optOf(n sql.NullFloat64) model.Opt {
	if !n.Valid {
		return model.None()
	}
	return model.Some(n.Float64)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
