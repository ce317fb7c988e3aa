package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(Dataset{})

	assert.Equal(t, int64(0), agg.Metrics.TotalDurationSeconds)
	assert.Equal(t, 0, agg.Metrics.TaskCount)
	assert.Equal(t, 0.0, agg.Metrics.MeanDurationSeconds)
	assert.Empty(t, agg.UserTotals)
	require.Len(t, agg.HourHistogram, 24)
}

func TestAggregateMetricsMatchFilteredSum(t *testing.T) {
	ds := sampleDataset()
	criteria := FilterCriteria{Users: []string{"alice"}}
	filtered := Filter(ds, criteria)
	agg := Aggregate(filtered)

	var want int64
	for _, rec := range filtered {
		want += rec.DurationSeconds
	}
	assert.Equal(t, want, agg.Metrics.TotalDurationSeconds)
	assert.Equal(t, len(filtered), agg.Metrics.TaskCount)
	assert.InDelta(t, float64(want)/float64(len(filtered)), agg.Metrics.MeanDurationSeconds, 0.001)
}

func TestAggregateUserTotals(t *testing.T) {
	agg := Aggregate(sampleDataset())

	require.Len(t, agg.UserTotals, 3)
	// Sorted by user
	assert.Equal(t, "alice", agg.UserTotals[0].User)
	assert.Equal(t, int64(900), agg.UserTotals[0].TotalDurationSeconds)
	assert.Equal(t, 2, agg.UserTotals[0].TaskCount)
	assert.Equal(t, "bob", agg.UserTotals[1].User)
	assert.Equal(t, "carol", agg.UserTotals[2].User)
}

func TestAggregateTaskTypeCounts(t *testing.T) {
	agg := Aggregate(sampleDataset())

	require.Len(t, agg.TaskTypeCounts, 3)
	assert.Equal(t, TaskTypeCount{TaskType: "editing", Count: 1}, agg.TaskTypeCounts[0])
	assert.Equal(t, TaskTypeCount{TaskType: "review", Count: 2}, agg.TaskTypeCounts[1])
	assert.Equal(t, TaskTypeCount{TaskType: "translate", Count: 1}, agg.TaskTypeCounts[2])
}

func TestAggregateHourHistogram(t *testing.T) {
	agg := Aggregate(sampleDataset())

	require.Len(t, agg.HourHistogram, 24)
	// 09:00 and 09:15 land in hour 9
	assert.Equal(t, 2, agg.HourHistogram[9].TaskCount)
	assert.Equal(t, int64(1800), agg.HourHistogram[9].TotalDurationSeconds)
	assert.Equal(t, 1, agg.HourHistogram[14].TaskCount)
	assert.Equal(t, 1, agg.HourHistogram[23].TaskCount)
	assert.Equal(t, 0, agg.HourHistogram[0].TaskCount)
}

func TestAggregateDayTotals(t *testing.T) {
	agg := Aggregate(sampleDataset())

	require.Len(t, agg.DayTotals, 4)
	assert.Equal(t, "2025-03-01", agg.DayTotals[0].Date)
	assert.Equal(t, int64(600), agg.DayTotals[0].TotalDurationSeconds)
	assert.Equal(t, "2025-03-05", agg.DayTotals[3].Date)
}

func TestAggregateProjectTotals(t *testing.T) {
	agg := Aggregate(sampleDataset())

	require.Len(t, agg.ProjectTotals, 2)
	assert.Equal(t, "alpha", agg.ProjectTotals[0].Project)
	assert.Equal(t, int64(1500), agg.ProjectTotals[0].TotalDurationSeconds)
	assert.Equal(t, "beta", agg.ProjectTotals[1].Project)
	assert.Equal(t, int64(1500), agg.ProjectTotals[1].TotalDurationSeconds)
}

func TestCollectFacets(t *testing.T) {
	facets := CollectFacets(sampleDataset())

	assert.Equal(t, []string{"alice", "bob", "carol"}, facets.Users)
	assert.Equal(t, []string{"de", "en", "fr"}, facets.Locales)
	assert.Equal(t, []string{"alpha", "beta"}, facets.Projects)
	require.NotNil(t, facets.DateMin)
	require.NotNil(t, facets.DateMax)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), *facets.DateMin)
	assert.Equal(t, time.Date(2025, 3, 5, 9, 15, 0, 0, time.UTC), *facets.DateMax)
}

func TestCollectFacetsEmpty(t *testing.T) {
	facets := CollectFacets(Dataset{})
	assert.Empty(t, facets.Users)
	assert.Nil(t, facets.DateMin)
	assert.Nil(t, facets.DateMax)
}

func TestCombine(t *testing.T) {
	a := &FileResult{SourceFile: "a.csv", Records: []TaskRecord{
		{User: "alice", SourceFile: "a.csv"},
		{User: "bob", SourceFile: "a.csv"},
	}}
	b := &FileResult{SourceFile: "b.csv", Records: []TaskRecord{
		{User: "carol", SourceFile: "b.csv"},
	}}

	ds := Combine([]*FileResult{a, b})

	// Disjoint files: combined length is the sum of valid rows
	require.Len(t, ds, 3)
	// File-then-row order preserved
	assert.Equal(t, "alice", ds[0].User)
	assert.Equal(t, "bob", ds[1].User)
	assert.Equal(t, "carol", ds[2].User)
}

func TestCombineEmpty(t *testing.T) {
	assert.Empty(t, Combine(nil))
	assert.Empty(t, Combine([]*FileResult{{SourceFile: "empty.csv"}}))
}
