package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleDataset() Dataset {
	return Dataset{
		{User: "alice", Locale: "en", Project: "alpha", TaskType: "review", Timestamp: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), DurationSeconds: 600, SourceFile: "a.csv"},
		{User: "bob", Locale: "de", Project: "alpha", TaskType: "translate", Timestamp: time.Date(2025, 3, 2, 14, 0, 0, 0, time.UTC), DurationSeconds: 900, SourceFile: "a.csv"},
		{User: "alice", Locale: "en", Project: "beta", TaskType: "review", Timestamp: time.Date(2025, 3, 3, 23, 30, 0, 0, time.UTC), DurationSeconds: 300, SourceFile: "b.csv"},
		{User: "carol", Locale: "fr", Project: "beta", TaskType: "editing", Timestamp: time.Date(2025, 3, 5, 9, 15, 0, 0, time.UTC), DurationSeconds: 1200, SourceFile: "b.csv"},
	}
}

func TestFilterEmptyCriteriaReturnsAll(t *testing.T) {
	ds := sampleDataset()
	filtered := Filter(ds, FilterCriteria{})

	require.Len(t, filtered, len(ds))
	for i := range ds {
		assert.Equal(t, ds[i], filtered[i])
	}
}

func TestFilterByUser(t *testing.T) {
	filtered := Filter(sampleDataset(), FilterCriteria{Users: []string{"alice"}})

	require.Len(t, filtered, 2)
	assert.Equal(t, "alpha", filtered[0].Project)
	assert.Equal(t, "beta", filtered[1].Project)
}

func TestFilterByMultipleDimensions(t *testing.T) {
	criteria := FilterCriteria{
		Users:   []string{"alice", "bob"},
		Locales: []string{"en"},
	}
	filtered := Filter(sampleDataset(), criteria)

	require.Len(t, filtered, 2)
	for _, rec := range filtered {
		assert.Equal(t, "alice", rec.User)
	}
}

func TestFilterByDateRange(t *testing.T) {
	from := day(2025, 3, 2)
	to := day(2025, 3, 3)
	filtered := Filter(sampleDataset(), FilterCriteria{DateFrom: &from, DateTo: &to})

	require.Len(t, filtered, 2)
	assert.Equal(t, "bob", filtered[0].User)
	assert.Equal(t, "alice", filtered[1].User)
}

func TestFilterDateRangeIsInclusiveOnCalendarDays(t *testing.T) {
	// Record at 23:30 on the last day of the range stays in
	from := day(2025, 3, 3)
	to := day(2025, 3, 3)
	filtered := Filter(sampleDataset(), FilterCriteria{DateFrom: &from, DateTo: &to})

	require.Len(t, filtered, 1)
	assert.Equal(t, int64(300), filtered[0].DurationSeconds)
}

func TestFilterExcludesOutsideDateRange(t *testing.T) {
	from := day(2025, 4, 1)
	filtered := Filter(sampleDataset(), FilterCriteria{DateFrom: &from})
	assert.Empty(t, filtered)

	to := day(2025, 2, 1)
	filtered = Filter(sampleDataset(), FilterCriteria{DateTo: &to})
	assert.Empty(t, filtered)
}

func TestFilterPreservesOrder(t *testing.T) {
	criteria := FilterCriteria{Projects: []string{"alpha", "beta"}}
	filtered := Filter(sampleDataset(), criteria)

	require.Len(t, filtered, 4)
	for i := 1; i < len(filtered); i++ {
		assert.False(t, filtered[i].Timestamp.Before(filtered[i-1].Timestamp))
	}
}

func TestFilterNoMatch(t *testing.T) {
	filtered := Filter(sampleDataset(), FilterCriteria{Users: []string{"nobody"}})
	assert.Empty(t, filtered)
}
