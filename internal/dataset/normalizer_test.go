package dataset

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestNormalizeCanonicalHeader(t *testing.T) {
	csv := "user,locale,project,task_type,timestamp,duration_seconds\n" +
		"alice,en,alpha,review,2025-03-01T09:30:00Z,1200\n" +
		"bob,de,beta,translate,2025-03-02 14:00:00,900\n"

	result, err := testNormalizer().Normalize([]byte(csv), "march.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, result.RowsRead)
	assert.Equal(t, 2, result.RowsKept)
	assert.Equal(t, 0, result.RowsDropped)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, "alice", first.User)
	assert.Equal(t, "en", first.Locale)
	assert.Equal(t, "alpha", first.Project)
	assert.Equal(t, "review", first.TaskType)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, int64(1200), first.DurationSeconds)
	assert.Equal(t, "march.csv", first.SourceFile)
}

func TestNormalizeHeaderAliases(t *testing.T) {
	// Column names from the original tracker export
	csv := "user_first_name,user_locale,task,started_at,minutes\n" +
		"carol,fr,editing,2025-04-05 08:15:00,30\n"

	result, err := testNormalizer().Normalize([]byte(csv), "tracker.csv")
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "carol", rec.User)
	assert.Equal(t, "fr", rec.Locale)
	assert.Equal(t, "editing", rec.TaskType)
	// minutes column scales to seconds
	assert.Equal(t, int64(1800), rec.DurationSeconds)
}

func TestNormalizeHoursScale(t *testing.T) {
	csv := "name,date,hours\nerin,2025-05-01,0.5\n"

	result, err := testNormalizer().Normalize([]byte(csv), "hours.csv")
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, int64(1800), result.Records[0].DurationSeconds)
}

func TestNormalizeBOMHeader(t *testing.T) {
	csv := "\ufeff" + "user,timestamp,duration_seconds\ndave,2025-01-01,60\n"

	result, err := testNormalizer().Normalize([]byte(csv), "bom.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowsKept)
}

func TestNormalizeUnixTimestamp(t *testing.T) {
	csv := "user,timestamp,duration_seconds\nalice,1740000000,60\n"

	result, err := testNormalizer().Normalize([]byte(csv), "unix.csv")
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, time.Unix(1740000000, 0).UTC(), result.Records[0].Timestamp)
}

func TestNormalizeDropsBadRows(t *testing.T) {
	csv := "user,timestamp,duration_seconds\n" +
		"alice,2025-03-01,300\n" +
		"bob,not-a-date,300\n" +
		"carol,2025-03-02,-5\n" +
		"dave,2025-03-03,abc\n" +
		"erin,,300\n"

	result, err := testNormalizer().Normalize([]byte(csv), "dirty.csv")
	require.NoError(t, err)

	assert.Equal(t, 5, result.RowsRead)
	assert.Equal(t, 1, result.RowsKept)
	assert.Equal(t, 4, result.RowsDropped)
	assert.Equal(t, 1, result.DropReasons[DropBadTimestamp])
	assert.Equal(t, 2, result.DropReasons[DropBadDuration])
	assert.Equal(t, 1, result.DropReasons[DropShortRow])

	require.Len(t, result.Records, 1)
	assert.Equal(t, "alice", result.Records[0].User)
}

func TestNormalizeShortRows(t *testing.T) {
	csv := "user,locale,timestamp,duration_seconds\n" +
		"alice,en,2025-03-01,300\n" +
		"bob\n"

	result, err := testNormalizer().Normalize([]byte(csv), "short.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowsKept)
	assert.Equal(t, 1, result.DropReasons[DropShortRow])
}

func TestNormalizeNoHeader(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"unrelated columns", "foo,bar,baz\n1,2,3\n"},
		{"missing duration", "user,timestamp\nalice,2025-03-01\n"},
		{"missing user", "timestamp,duration_seconds\n2025-03-01,60\n"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testNormalizer().Normalize([]byte(tt.csv), "bad.csv")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoHeader)
		})
	}
}

func TestNormalizeThousandsSeparator(t *testing.T) {
	csv := "user,timestamp,duration_seconds\nalice,2025-03-01,\"1,200\"\n"

	result, err := testNormalizer().Normalize([]byte(csv), "sep.csv")
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, int64(1200), result.Records[0].DurationSeconds)
}
