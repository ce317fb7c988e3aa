package summary

import (
	"fmt"
	"strings"
	"time"

	"tasklens/internal/dataset"
)

// BuildPrompt renders the aggregated view into the plain-text block sent
// to the text-generation API. The prompt carries numbers only, never raw
// records.
func BuildPrompt(agg dataset.Aggregates, criteria dataset.FilterCriteria) string {
	var b strings.Builder

	b.WriteString("You are summarizing a task-time dashboard for a project manager. ")
	b.WriteString("Write a short prose summary (3-5 sentences) of the data below. ")
	b.WriteString("Mention notable users, busy days and the overall workload. Do not repeat every number.\n\n")

	if !criteria.IsEmpty() {
		b.WriteString("Active filters:\n")
		if len(criteria.Users) > 0 {
			fmt.Fprintf(&b, "- users: %s\n", strings.Join(criteria.Users, ", "))
		}
		if len(criteria.Locales) > 0 {
			fmt.Fprintf(&b, "- locales: %s\n", strings.Join(criteria.Locales, ", "))
		}
		if len(criteria.Projects) > 0 {
			fmt.Fprintf(&b, "- projects: %s\n", strings.Join(criteria.Projects, ", "))
		}
		if criteria.DateFrom != nil {
			fmt.Fprintf(&b, "- from: %s\n", criteria.DateFrom.Format("2006-01-02"))
		}
		if criteria.DateTo != nil {
			fmt.Fprintf(&b, "- to: %s\n", criteria.DateTo.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	m := agg.Metrics
	fmt.Fprintf(&b, "Totals: %d tasks, %s tracked, %s per task on average.\n\n",
		m.TaskCount, formatDuration(m.TotalDurationSeconds), formatDuration(int64(m.MeanDurationSeconds)))

	if len(agg.UserTotals) > 0 {
		b.WriteString("Time per user:\n")
		for _, ut := range agg.UserTotals {
			fmt.Fprintf(&b, "- %s: %s over %d tasks\n", ut.User, formatDuration(ut.TotalDurationSeconds), ut.TaskCount)
		}
		b.WriteString("\n")
	}

	if len(agg.TaskTypeCounts) > 0 {
		b.WriteString("Task types:\n")
		for _, tc := range agg.TaskTypeCounts {
			fmt.Fprintf(&b, "- %s: %d\n", tc.TaskType, tc.Count)
		}
		b.WriteString("\n")
	}

	if len(agg.DayTotals) > 0 {
		b.WriteString("Daily totals:\n")
		for _, dt := range agg.DayTotals {
			fmt.Fprintf(&b, "- %s: %s over %d tasks\n", dt.Date, formatDuration(dt.TotalDurationSeconds), dt.TaskCount)
		}
	}

	return b.String()
}

// formatDuration renders seconds as a compact human-readable duration
func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", seconds)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) - hours*60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}
