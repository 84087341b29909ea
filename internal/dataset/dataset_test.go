package dataset

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cs-teams/internal/model"
	"github.com/pable/go-cs-teams/internal/normalize"
)

func day(d int) time.Time {
	return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC)
}

func fixture() *Dataset {
	recs := []model.MatchRecord{
		{Date: day(1), Team: "Astralis", Opponent: "Big", Map: "Mirage", Event: "Bucharest"},
		{Date: day(2), Team: "Big", Opponent: "Astralis", Map: "Mirage", Event: "Bucharest"},
		{Date: day(3), Team: "Astralis", Opponent: "3Dmax", Map: "Nuke"},
		{Date: day(4), Team: "Astralis", Opponent: "Big", Map: "Mirage", Event: "Katowice"},
		{Date: day(5), Team: "3Dmax", Opponent: "Astralis", Map: "Ancient", Event: "Katowice"},
	}
	return New(recs, normalize.New(normalize.MustAliasTable(normalize.DefaultAliases())))
}

func TestListings(t *testing.T) {
	ds := fixture()
	assert.Equal(t, []string{"3Dmax", "Astralis", "Big"}, ds.Teams())
	assert.Equal(t, []string{"Ancient", "Mirage", "Nuke"}, ds.Maps())
	assert.Equal(t, []string{"Bucharest", "Katowice"}, ds.Events(), "absent events are not listed")
}

func TestFilterPreservesOrder(t *testing.T) {
	ds := fixture()
	got, err := ds.Filter(model.FilterCriteria{Team: "Astralis"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []time.Time{day(1), day(3), day(4)},
		[]time.Time{got[0].Date, got[1].Date, got[2].Date})
}

func TestFilterMapAndEvent(t *testing.T) {
	ds := fixture()

	got, err := ds.Filter(model.FilterCriteria{Team: "Astralis", Map: "Mirage"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = ds.Filter(model.FilterCriteria{Team: "Astralis", Map: "Mirage", Event: "Katowice"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, day(4), got[0].Date)

	got, err = ds.Filter(model.FilterCriteria{Team: "Astralis", Event: "katowice"})
	require.NoError(t, err)
	assert.Empty(t, got, "event matching is exact")
}

func TestFilterCanonicalizesTeam(t *testing.T) {
	ds := fixture()
	got, err := ds.Filter(model.FilterCriteria{Team: " BIG "})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMissingTeamIsDistinctFromNoMatches(t *testing.T) {
	ds := fixture()

	_, err := ds.Filter(model.FilterCriteria{Map: "Mirage"})
	var invalid *InvalidCriteriaError
	require.ErrorAs(t, err, &invalid)
	assert.True(t, errors.Is(err, ErrMissingTeam))

	got, err := ds.Filter(model.FilterCriteria{Team: "NoSuchTeam"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDatasetIsNotAliased(t *testing.T) {
	recs := []model.MatchRecord{{Date: day(1), Team: "Astralis", Opponent: "Big", Map: "Mirage"}}
	ds := New(recs, nil)
	recs[0].Team = "changed"

	out := ds.Records()
	out[0].Map = "changed"

	assert.Equal(t, "Astralis", ds.At(0).Team)
	assert.Equal(t, "Mirage", ds.At(0).Map)
}

func TestConcurrentFilters(t *testing.T) {
	ds := fixture()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(team string) {
			defer wg.Done()
			got, err := ds.Filter(model.FilterCriteria{Team: team})
			assert.NoError(t, err)
			for _, r := range got {
				assert.Equal(t, team, r.Team)
			}
		}([]string{"Astralis", "Big", "3Dmax"}[i%3])
	}
	wg.Wait()
}
