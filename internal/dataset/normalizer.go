package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrNoHeader is returned when a file has no recognizable header row.
// The minimum recognizable header carries a user, timestamp and duration column.
var ErrNoHeader = errors.New("no recognizable header row")

// Drop reasons reported per file
const (
	DropShortRow     = "short_row"
	DropBadTimestamp = "bad_timestamp"
	DropBadDuration  = "bad_duration"
)

// column identifies a canonical TaskRecord column during header mapping
type column int

const (
	colUser column = iota
	colLocale
	colProject
	colTaskType
	colTimestamp
	colDuration
)

// columnAliases maps lowercased header names to canonical columns.
// Uploaded files come from several trackers, so each column tolerates the
// naming variants seen in the wild.
var columnAliases = map[string]column{
	"user":            colUser,
	"user_first_name": colUser,
	"first_name":      colUser,
	"username":        colUser,
	"name":            colUser,
	"assignee":        colUser,

	"locale":      colLocale,
	"user_locale": colLocale,
	"language":    colLocale,
	"lang":        colLocale,

	"project":      colProject,
	"project_name": colProject,
	"workspace":    colProject,
	"client":       colProject,

	"task":      colTaskType,
	"task_type": colTaskType,
	"type":      colTaskType,
	"category":  colTaskType,
	"activity":  colTaskType,

	"started_at": colTimestamp,
	"timestamp":  colTimestamp,
	"start_time": colTimestamp,
	"date":       colTimestamp,
	"created_at": colTimestamp,

	"duration_seconds":   colDuration,
	"seconds":            colDuration,
	"duration":           colDuration,
	"minutes":            colDuration,
	"time_spent_minutes": colDuration,
	"hours":              colDuration,
}

// durationScale returns the factor converting a duration header's unit to seconds
func durationScale(header string) float64 {
	switch header {
	case "minutes", "time_spent_minutes":
		return 60
	case "hours":
		return 3600
	default:
		return 1
	}
}

// timestampLayouts are tried in order during coercion
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// FileResult holds the normalized rows of one uploaded file together with
// its ingest accounting.
type FileResult struct {
	SourceFile  string           `json:"source_file"`
	Records     []TaskRecord     `json:"-"`
	RowsRead    int              `json:"rows_read"`
	RowsKept    int              `json:"rows_kept"`
	RowsDropped int              `json:"rows_dropped"`
	DropReasons map[string]int   `json:"drop_reasons,omitempty"`
}

// Normalizer parses raw CSV files into the uniform TaskRecord schema
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer with the given logger
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger.With(slog.String("component", "normalizer"))}
}

// Normalize parses one CSV file into normalized records. Rows with an
// unparseable timestamp or a negative or non-numeric duration are dropped
// and counted, never defaulted. The whole file fails only when no
// recognizable header is found.
func (n *Normalizer) Normalize(raw []byte, filename string) (*FileResult, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoHeader)
	}

	mapping, scale, err := mapHeader(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	result := &FileResult{
		SourceFile:  filename,
		DropReasons: make(map[string]int),
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed CSV line: a row-level failure, not a file failure
			result.RowsRead++
			result.drop(DropShortRow)
			continue
		}
		result.RowsRead++

		record, reason := buildRecord(row, mapping, scale, filename)
		if reason != "" {
			result.drop(reason)
			continue
		}
		result.Records = append(result.Records, record)
		result.RowsKept++
	}

	n.logger.Info("file normalized",
		slog.String("file", filename),
		slog.Int("rows_read", result.RowsRead),
		slog.Int("rows_kept", result.RowsKept),
		slog.Int("rows_dropped", result.RowsDropped))

	return result, nil
}

// drop records one dropped row under the given reason
func (r *FileResult) drop(reason string) {
	r.RowsDropped++
	r.DropReasons[reason]++
}

// mapHeader maps header cells to canonical columns via the alias table.
// Returns the column index mapping and the duration unit scale.
func mapHeader(header []string) (map[column]int, float64, error) {
	mapping := make(map[column]int)
	scale := 1.0

	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		col, ok := columnAliases[name]
		if !ok {
			continue
		}
		// First alias wins when a file carries both, e.g. date and started_at
		if _, seen := mapping[col]; seen {
			continue
		}
		mapping[col] = i
		if col == colDuration {
			scale = durationScale(name)
		}
	}

	for _, required := range []column{colUser, colTimestamp, colDuration} {
		if _, ok := mapping[required]; !ok {
			return nil, 0, ErrNoHeader
		}
	}
	return mapping, scale, nil
}

// buildRecord coerces one data row. A non-empty reason means the row is dropped.
func buildRecord(row []string, mapping map[column]int, scale float64, filename string) (TaskRecord, string) {
	cell := func(col column) string {
		idx, ok := mapping[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	tsText := cell(colTimestamp)
	durText := cell(colDuration)
	if tsText == "" || durText == "" {
		return TaskRecord{}, DropShortRow
	}

	ts, ok := parseTimestamp(tsText)
	if !ok {
		return TaskRecord{}, DropBadTimestamp
	}

	seconds, ok := parseDuration(durText, scale)
	if !ok {
		return TaskRecord{}, DropBadDuration
	}

	return TaskRecord{
		User:            cell(colUser),
		Locale:          cell(colLocale),
		Project:         cell(colProject),
		TaskType:        cell(colTaskType),
		Timestamp:       ts,
		DurationSeconds: seconds,
		SourceFile:      filename,
	}, ""
}

// parseTimestamp tries the known layouts, then unix seconds
func parseTimestamp(text string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return ts.UTC(), true
		}
	}
	// Unix seconds; the lower bound rejects bare years and row indices
	if unix, err := strconv.ParseInt(text, 10, 64); err == nil && unix >= 1_000_000_000 {
		return time.Unix(unix, 0).UTC(), true
	}
	return time.Time{}, false
}

// parseDuration converts the cell to non-negative whole seconds
func parseDuration(text string, scale float64) (int64, bool) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, false
	}
	return int64(math.Round(value * scale)), true
}
