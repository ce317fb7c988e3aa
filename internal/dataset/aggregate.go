package dataset

import (
	"sort"
	"time"
)

// Metrics are the headline numbers shown above the charts
type Metrics struct {
	TotalDurationSeconds int64   `json:"total_duration_seconds"`
	TaskCount            int     `json:"task_count"`
	MeanDurationSeconds  float64 `json:"mean_duration_seconds"`
}

// UserTotal is one bar of the per-user chart
type UserTotal struct {
	User                 string `json:"user"`
	TotalDurationSeconds int64  `json:"total_duration_seconds"`
	TaskCount            int    `json:"task_count"`
}

// TaskTypeCount is one slice of the task-type breakdown
type TaskTypeCount struct {
	TaskType string `json:"task_type"`
	Count    int    `json:"count"`
}

// HourBucket is one bucket of the hour-of-day histogram
type HourBucket struct {
	Hour                 int   `json:"hour"`
	TaskCount            int   `json:"task_count"`
	TotalDurationSeconds int64 `json:"total_duration_seconds"`
}

// DayTotal is one cell of the calendar heatmap
type DayTotal struct {
	Date                 string `json:"date"`
	TaskCount            int    `json:"task_count"`
	TotalDurationSeconds int64  `json:"total_duration_seconds"`
}

// ProjectTotal is one row of the per-project breakdown
type ProjectTotal struct {
	Project              string `json:"project"`
	TotalDurationSeconds int64  `json:"total_duration_seconds"`
	TaskCount            int    `json:"task_count"`
}

// Aggregates holds every chart view computed from one filtered subsequence
type Aggregates struct {
	Metrics        Metrics         `json:"metrics"`
	UserTotals     []UserTotal     `json:"user_totals"`
	TaskTypeCounts []TaskTypeCount `json:"task_type_counts"`
	HourHistogram  []HourBucket    `json:"hour_histogram"`
	DayTotals      []DayTotal      `json:"day_totals"`
	ProjectTotals  []ProjectTotal  `json:"project_totals"`
}

// Facets lists the distinct values available for each filter control,
// plus the date bounds of the dataset.
type Facets struct {
	Users    []string   `json:"users"`
	Locales  []string   `json:"locales"`
	Projects []string   `json:"projects"`
	DateMin  *time.Time `json:"date_min,omitempty"`
	DateMax  *time.Time `json:"date_max,omitempty"`
}

// Aggregate computes every view in a single pass over the records.
// Grouped outputs are sorted by key for stable chart ordering.
func Aggregate(records Dataset) Aggregates {
	userTotals := make(map[string]*UserTotal)
	typeCounts := make(map[string]int)
	dayTotals := make(map[string]*DayTotal)
	projectTotals := make(map[string]*ProjectTotal)
	hours := make([]HourBucket, 24)
	for i := range hours {
		hours[i].Hour = i
	}

	var total int64
	for _, rec := range records {
		total += rec.DurationSeconds

		ut := userTotals[rec.User]
		if ut == nil {
			ut = &UserTotal{User: rec.User}
			userTotals[rec.User] = ut
		}
		ut.TotalDurationSeconds += rec.DurationSeconds
		ut.TaskCount++

		typeCounts[rec.TaskType]++

		hour := rec.Timestamp.Hour()
		hours[hour].TaskCount++
		hours[hour].TotalDurationSeconds += rec.DurationSeconds

		day := rec.Timestamp.Format("2006-01-02")
		dt := dayTotals[day]
		if dt == nil {
			dt = &DayTotal{Date: day}
			dayTotals[day] = dt
		}
		dt.TaskCount++
		dt.TotalDurationSeconds += rec.DurationSeconds

		pt := projectTotals[rec.Project]
		if pt == nil {
			pt = &ProjectTotal{Project: rec.Project}
			projectTotals[rec.Project] = pt
		}
		pt.TotalDurationSeconds += rec.DurationSeconds
		pt.TaskCount++
	}

	agg := Aggregates{
		Metrics: Metrics{
			TotalDurationSeconds: total,
			TaskCount:            len(records),
		},
		HourHistogram: hours,
	}
	if len(records) > 0 {
		agg.Metrics.MeanDurationSeconds = float64(total) / float64(len(records))
	}

	for _, ut := range userTotals {
		agg.UserTotals = append(agg.UserTotals, *ut)
	}
	sort.Slice(agg.UserTotals, func(i, j int) bool {
		return agg.UserTotals[i].User < agg.UserTotals[j].User
	})

	for taskType, count := range typeCounts {
		agg.TaskTypeCounts = append(agg.TaskTypeCounts, TaskTypeCount{TaskType: taskType, Count: count})
	}
	sort.Slice(agg.TaskTypeCounts, func(i, j int) bool {
		return agg.TaskTypeCounts[i].TaskType < agg.TaskTypeCounts[j].TaskType
	})

	for _, dt := range dayTotals {
		agg.DayTotals = append(agg.DayTotals, *dt)
	}
	sort.Slice(agg.DayTotals, func(i, j int) bool {
		return agg.DayTotals[i].Date < agg.DayTotals[j].Date
	})

	for _, pt := range projectTotals {
		agg.ProjectTotals = append(agg.ProjectTotals, *pt)
	}
	sort.Slice(agg.ProjectTotals, func(i, j int) bool {
		return agg.ProjectTotals[i].Project < agg.ProjectTotals[j].Project
	})

	return agg
}

// CollectFacets gathers distinct filter values and date bounds from the
// full dataset, not the filtered view, so cleared filters stay selectable.
func CollectFacets(ds Dataset) Facets {
	users := make(map[string]struct{})
	locales := make(map[string]struct{})
	projects := make(map[string]struct{})

	var facets Facets
	for _, rec := range ds {
		users[rec.User] = struct{}{}
		if rec.Locale != "" {
			locales[rec.Locale] = struct{}{}
		}
		if rec.Project != "" {
			projects[rec.Project] = struct{}{}
		}
		ts := rec.Timestamp
		if facets.DateMin == nil || ts.Before(*facets.DateMin) {
			t := ts
			facets.DateMin = &t
		}
		if facets.DateMax == nil || ts.After(*facets.DateMax) {
			t := ts
			facets.DateMax = &t
		}
	}

	facets.Users = sortedKeys(users)
	facets.Locales = sortedKeys(locales)
	facets.Projects = sortedKeys(projects)
	return facets
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
