package dataset

import "time"

// Filter returns the subsequence of ds matching the criteria, preserving
// insertion order. Empty criteria return the dataset unchanged.
func Filter(ds Dataset, criteria FilterCriteria) Dataset {
	if criteria.IsEmpty() {
		return ds
	}

	users := toSet(criteria.Users)
	locales := toSet(criteria.Locales)
	projects := toSet(criteria.Projects)

	out := make(Dataset, 0, len(ds))
	for _, rec := range ds {
		if users != nil && !users[rec.User] {
			continue
		}
		if locales != nil && !locales[rec.Locale] {
			continue
		}
		if projects != nil && !projects[rec.Project] {
			continue
		}
		if !inDateRange(rec.Timestamp, criteria.DateFrom, criteria.DateTo) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// toSet returns nil for an empty list so the predicate is unbounded
func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// inDateRange checks the record's calendar day against the inclusive bounds
func inDateRange(ts time.Time, from, to *time.Time) bool {
	day := ts.Truncate(24 * time.Hour)
	if from != nil && day.Before(from.Truncate(24*time.Hour)) {
		return false
	}
	if to != nil && day.After(to.Truncate(24*time.Hour)) {
		return false
	}
	return true
}
