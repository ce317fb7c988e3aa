package http

import (
	"net/http"
	"time"

	"tasklens/internal/dataset"
	apierrors "tasklens/internal/errors"
)

// dateLayout is the calendar-day format accepted by the from/to parameters
const dateLayout = "2006-01-02"

// parseCriteria reads filter criteria from query parameters. Repeated
// user/locale/project parameters OR together within a dimension; from and
// to are inclusive calendar days.
func parseCriteria(r *http.Request) (dataset.FilterCriteria, error) {
	q := r.URL.Query()

	criteria := dataset.FilterCriteria{
		Users:    q["user"],
		Locales:  q["locale"],
		Projects: q["project"],
	}

	if from := q.Get("from"); from != "" {
		t, err := time.ParseInLocation(dateLayout, from, time.UTC)
		if err != nil {
			return dataset.FilterCriteria{}, apierrors.ErrValidation("from", "must be a date in YYYY-MM-DD format")
		}
		criteria.DateFrom = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.ParseInLocation(dateLayout, to, time.UTC)
		if err != nil {
			return dataset.FilterCriteria{}, apierrors.ErrValidation("to", "must be a date in YYYY-MM-DD format")
		}
		criteria.DateTo = &t
	}
	if criteria.DateFrom != nil && criteria.DateTo != nil && criteria.DateTo.Before(*criteria.DateFrom) {
		return dataset.FilterCriteria{}, apierrors.ErrValidation("to", "must not be before from")
	}

	return criteria, nil
}
