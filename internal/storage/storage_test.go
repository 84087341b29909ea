package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pable/go-cs-teams/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "matches.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecords() []model.MatchRecord {
	return []model.MatchRecord{
		{
			Date: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), Team: "Astralis", Opponent: "Big",
			Map: "Mirage", Event: "Bucharest", RoundsTeam: 13, RoundsOpponent: 9,
			RankTeam: model.Some(4), RankOpponent: model.Some(11),
			TRPct: model.Some(50), CTPct: model.Some(58.33), Won: true,
		},
		{
			Date: time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC), Team: "Big", Opponent: "Astralis",
			Map: "Nuke", RoundsTeam: 10, RoundsOpponent: 13,
		},
	}
}

func TestSaveAndLoadMatches(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	recs := sampleRecords()

	imp, err := db.SaveImport(ctx, "matches.xlsx", "Partidas", recs)
	if err != nil {
		t.Fatalf("SaveImport: %v", err)
	}
	if imp.RowCount != 2 || imp.ID == "" {
		t.Fatalf("unexpected import %+v", imp)
	}

	got, err := db.LoadMatches(ctx, imp.ID)
	if err != nil {
		t.Fatalf("LoadMatches: %v", err)
	}
	if len(got) != len(recs) {
		t.Fatalf("expected %d records, got %d", len(recs), len(got))
	}
	for i := range recs {
		if got[i] != recs[i] {
			t.Errorf("record %d round-trip mismatch:\n got  %+v\n want %+v", i, got[i], recs[i])
		}
	}
	// Absent values stay absent rather than becoming zero.
	if got[1].RankTeam.Valid || got[1].CTPct.Valid || got[1].HasEvent() {
		t.Errorf("expected absent fields on second record, got %+v", got[1])
	}
}

func TestLatestImport(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.LatestImport(ctx); !errors.Is(err, ErrNoImports) {
		t.Fatalf("expected ErrNoImports on empty store, got %v", err)
	}

	first, _ := db.SaveImport(ctx, "a.csv", "", sampleRecords())
	second, _ := db.SaveImport(ctx, "b.csv", "", sampleRecords()[:1])

	latest, err := db.LatestImport(ctx)
	if err != nil {
		t.Fatalf("LatestImport: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("expected latest %s, got %s", second.ID, latest.ID)
	}

	list, err := db.ListImports(ctx)
	if err != nil {
		t.Fatalf("ListImports: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("expected newest first, got %+v", list)
	}
}

func TestGetImportByPrefixAndDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	imp, _ := db.SaveImport(ctx, "a.csv", "", sampleRecords())

	found, err := db.GetImportByPrefix(ctx, imp.ID[:8])
	if err != nil {
		t.Fatalf("GetImportByPrefix: %v", err)
	}
	if found == nil || found.ID != imp.ID {
		t.Fatalf("expected to find %s, got %+v", imp.ID, found)
	}

	missing, err := db.GetImportByPrefix(ctx, "zzzz")
	if err != nil || missing != nil {
		t.Errorf("expected nil for unknown prefix, got %+v, %v", missing, err)
	}

	if err := db.DeleteImport(ctx, imp.ID); err != nil {
		t.Fatalf("DeleteImport: %v", err)
	}
	recs, err := db.LoadMatches(ctx, imp.ID)
	if err != nil {
		t.Fatalf("LoadMatches: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected matches to cascade, got %d", len(recs))
	}
	if err := db.DeleteImport(ctx, imp.ID); err == nil {
		t.Error("expected error deleting a missing import")
	}
}

func TestQueryRaw(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	imp, _ := db.SaveImport(ctx, "a.csv", "", sampleRecords())

	cols, rows, err := db.QueryRaw(ctx, "SELECT team, event, rank_team FROM matches WHERE import_id = '"+imp.ID+"' ORDER BY seq")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[0] != "team" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Astralis" || rows[0][1] != "Bucharest" || rows[0][2] != "4" {
		t.Errorf("unexpected first row %v", rows[0])
	}
	if rows[1][1] != "NULL" || rows[1][2] != "NULL" {
		t.Errorf("expected NULLs in second row, got %v", rows[1])
	}

	if _, _, err := db.QueryRaw(ctx, "SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.db")
	db, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	imp, err := db.SaveImport(context.Background(), "a.csv", "", sampleRecords())
	if err != nil {
		t.Fatalf("SaveImport: %v", err)
	}
	db.Close()

	db, err = Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	latest, err := db.LatestImport(context.Background())
	if err != nil || latest.ID != imp.ID {
		t.Errorf("expected %s after reopen, got %+v, %v", imp.ID, latest, err)
	}
}
