// Package engine is the query interface over a loaded dataset. Every method
// is a pure, synchronous computation; an Engine is safe for concurrent use.
package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-cs-teams/internal/aggregator"
	"github.com/pable/go-cs-teams/internal/dataset"
	"github.com/pable/go-cs-teams/internal/model"
)

// Options tunes result sizes. Zero values fall back to the package defaults.
type Options struct {
	LeaderboardSize int
	OpponentLimit   int
}

// Engine answers queries against one immutable dataset.
type Engine struct {
	ds   *dataset.Dataset
	opts Options
}

// New returns an Engine over ds.
func New(ds *dataset.Dataset, opts Options) *Engine {
	if opts.LeaderboardSize <= 0 {
		opts.LeaderboardSize = aggregator.LeaderboardSize
	}
	if opts.OpponentLimit <= 0 {
		opts.OpponentLimit = aggregator.OpponentLimit
	}
	return &Engine{ds: ds, opts: opts}
}

// Dataset returns the underlying dataset.
func (e *Engine) Dataset() *dataset.Dataset { return e.ds }

func (e *Engine) ListTeams() []string  { return e.ds.Teams() }
func (e *Engine) ListMaps() []string   { return e.ds.Maps() }
func (e *Engine) ListEvents() []string { return e.ds.Events() }

// ComputeSummary returns the scalar metrics for the records matching c.
// Invalid criteria yield all-absent metrics together with the error.
func (e *Engine) ComputeSummary(c model.FilterCriteria) (model.Metrics, error) {
	recs, err := e.ds.Filter(c)
	return aggregator.Summarize(recs), err
}

// ComputeTimeSeries returns the win-rate and rounds trend for c.
func (e *Engine) ComputeTimeSeries(c model.FilterCriteria) (model.TimeSeries, error) {
	recs, err := e.ds.Filter(c)
	return aggregator.Trend(recs), err
}

// ComputeMapBreakdown returns per-map stats and the round-count distribution.
func (e *Engine) ComputeMapBreakdown(c model.FilterCriteria) (model.MapBreakdown, error) {
	recs, err := e.ds.Filter(c)
	return aggregator.BreakdownByMap(recs), err
}

// ComputeOpponentBreakdown returns the most-played opponents for c.
func (e *Engine) ComputeOpponentBreakdown(c model.FilterCriteria) ([]model.OpponentStat, error) {
	recs, err := e.ds.Filter(c)
	return aggregator.Opponents(recs, e.opts.OpponentLimit), err
}

// ComputeLeaderboards ranks every team in the dataset, ignoring any filter.
func (e *Engine) ComputeLeaderboards() model.Leaderboards {
	return aggregator.Leaderboards(e.ds.Records(), e.opts.LeaderboardSize)
}

// Panel is every per-criteria result for one team view.
type Panel struct {
	Criteria  model.FilterCriteria
	Summary   model.Metrics
	Trend     model.TimeSeries
	Breakdown model.MapBreakdown
	Opponents []model.OpponentStat
}

// Panel filters once and computes every aggregate over the same subset.
func (e *Engine) Panel(c model.FilterCriteria) (Panel, error) {
	c = e.ds.Canonical(c)
	recs, err := e.ds.Filter(c)
	return Panel{
		Criteria:  c,
		Summary:   aggregator.Summarize(recs),
		Trend:     aggregator.Trend(recs),
		Breakdown: aggregator.BreakdownByMap(recs),
		Opponents: aggregator.Opponents(recs, e.opts.OpponentLimit),
	}, err
}

// Comparison is two independent panels shown side by side.
type Comparison struct {
	Left  Panel
	Right Panel
}

// Compare computes both panels concurrently. Each side is filled in even
// when the other side's criteria are invalid; the first error is returned.
func (e *Engine) Compare(ctx context.Context, left, right model.FilterCriteria) (Comparison, error) {
	var cmp Comparison
	if err := ctx.Err(); err != nil {
		return cmp, err
	}
	var g errgroup.Group
	g.Go(func() error {
		p, err := e.Panel(left)
		cmp.Left = p
		return err
	})
	g.Go(func() error {
		p, err := e.Panel(right)
		cmp.Right = p
		return err
	})
	err := g.Wait()
	return cmp, err
}
