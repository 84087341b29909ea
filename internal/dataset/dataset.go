// Package dataset holds the immutable, ordered match log and the equality
// filter used to select a team's records from it.
package dataset

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pable/go-cs-teams/internal/model"
	"github.com/pable/go-cs-teams/internal/normalize"
)

// ErrMissingTeam is returned for criteria without a team.
var ErrMissingTeam = errors.New("team is required")

// InvalidCriteriaError reports criteria that cannot select anything, as
// opposed to valid criteria that match zero records.
type InvalidCriteriaError struct {
	Criteria model.FilterCriteria
	Err      error
}

func (e *InvalidCriteriaError) Error() string {
	return fmt.Sprintf("invalid criteria %+v: %v", e.Criteria, e.Err)
}

func (e *InvalidCriteriaError) Unwrap() error { return e.Err }

// Dataset is an ordered, read-only sequence of normalized records. It is
// safe for concurrent use; every accessor returns a fresh copy.
type Dataset struct {
	records []model.MatchRecord
	norm    *normalize.Normalizer
}

// New copies records into a Dataset. norm canonicalizes team names in filter
// criteria and may be nil, in which case names are only trimmed.
func New(records []model.MatchRecord, norm *normalize.Normalizer) *Dataset {
	if norm == nil {
		norm = normalize.New(normalize.AliasTable{})
	}
	return &Dataset{records: slices.Clone(records), norm: norm}
}

// Len is the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the i-th record by value.
func (d *Dataset) At(i int) model.MatchRecord { return d.records[i] }

// Records returns a copy of every record in load order.
func (d *Dataset) Records() []model.MatchRecord {
	return slices.Clone(d.records)
}

// Teams returns the sorted distinct team names.
func (d *Dataset) Teams() []string {
	return d.distinct(func(r model.MatchRecord) string { return r.Team })
}

// Maps returns the sorted distinct maps.
func (d *Dataset) Maps() []string {
	return d.distinct(func(r model.MatchRecord) string { return r.Map })
}

// Events returns the sorted distinct events, excluding absent ones.
func (d *Dataset) Events() []string {
	return d.distinct(func(r model.MatchRecord) string { return r.Event })
}

func (d *Dataset) distinct(key func(model.MatchRecord) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range d.records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Canonical returns criteria with the team resolved through the dataset's
// alias table and map/event trimmed.
func (d *Dataset) Canonical(c model.FilterCriteria) model.FilterCriteria {
	return model.FilterCriteria{
		Team:  d.norm.TeamName(c.Team),
		Map:   strings.TrimSpace(c.Map),
		Event: strings.TrimSpace(c.Event),
	}
}

// Filter returns the records matching c in dataset order. A criteria without
// a team yields an *InvalidCriteriaError; a team with no records yields an
// empty, non-nil subset.
func (d *Dataset) Filter(c model.FilterCriteria) ([]model.MatchRecord, error) {
	c = d.Canonical(c)
	if c.Team == "" {
		return nil, &InvalidCriteriaError{Criteria: c, Err: ErrMissingTeam}
	}
	out := []model.MatchRecord{}
	for _, r := range d.records {
		if Matches(r, c) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Matches reports whether r satisfies already-canonical criteria.
func Matches(r model.MatchRecord, c model.FilterCriteria) bool {
	if r.Team != c.Team {
		return false
	}
	if c.Map != "" && r.Map != c.Map {
		return false
	}
	if c.Event != "" && r.Event != c.Event {
		return false
	}
	return true
}
