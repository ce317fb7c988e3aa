package dataset

import (
	"strconv"
	"time"
)

// TaskRecord is one normalized row of task-time data.
// Timestamp is always parseable and DurationSeconds non-negative; rows that
// fail either invariant are dropped during normalization, never defaulted.
type TaskRecord struct {
	User            string    `json:"user"`
	Locale          string    `json:"locale"`
	Project         string    `json:"project"`
	TaskType        string    `json:"task_type"`
	Timestamp       time.Time `json:"timestamp"`
	DurationSeconds int64     `json:"duration_seconds"`
	SourceFile      string    `json:"source_file"`
}

// Columns is the canonical column order for exports, matching the
// TaskRecord field order.
var Columns = []string{
	"user", "locale", "project", "task_type", "timestamp", "duration_seconds", "source_file",
}

// Row renders the record in export column order
func (r TaskRecord) Row() []string {
	return []string{
		r.User,
		r.Locale,
		r.Project,
		r.TaskType,
		r.Timestamp.Format(time.RFC3339),
		strconv.FormatInt(r.DurationSeconds, 10),
		r.SourceFile,
	}
}

// Dataset is the combined in-memory collection of TaskRecords for the
// current session. Insertion order is file-then-row order.
type Dataset []TaskRecord

// FilterCriteria narrows a Dataset view. Empty slices and nil dates mean
// unbounded. Dates bound whole calendar days, inclusive on both ends.
type FilterCriteria struct {
	Users    []string   `json:"users,omitempty"`
	Locales  []string   `json:"locales,omitempty"`
	Projects []string   `json:"projects,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}

// IsEmpty reports whether the criteria constrain nothing
func (c FilterCriteria) IsEmpty() bool {
	return len(c.Users) == 0 && len(c.Locales) == 0 && len(c.Projects) == 0 &&
		c.DateFrom == nil && c.DateTo == nil
}
