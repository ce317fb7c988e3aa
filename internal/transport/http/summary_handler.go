package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"tasklens/internal/dataset"
	apierrors "tasklens/internal/errors"
	"tasklens/internal/services"
	"tasklens/internal/summary"
)

// SummaryRequest is the POST /api/summary body. Filters mirror the query
// parameters of the data routes; dates are inclusive calendar days.
type SummaryRequest struct {
	Users    []string `json:"users" validate:"omitempty,dive,min=1"`
	Locales  []string `json:"locales" validate:"omitempty,dive,min=1"`
	Projects []string `json:"projects" validate:"omitempty,dive,min=1"`
	From     string   `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string   `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// SummaryHandler drives the blocking summary call against the
// text-generation API
type SummaryHandler struct {
	service      SessionServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(service SessionServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SummaryHandler {
	return &SummaryHandler{
		service:      service,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "summary_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the summary routes
func (h *SummaryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Generate)
	return r
}

// Generate handles POST /api/summary. The request blocks until the
// upstream API answers; upstream failures surface verbatim in the
// problem details with no retry.
func (h *SummaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}

	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, validationProblem(err))
		return
	}

	criteria, err := req.criteria()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "summary requested",
		slog.Int("users", len(criteria.Users)),
		slog.Int("locales", len(criteria.Locales)),
		slog.Int("projects", len(criteria.Projects)))

	text, err := h.service.Summarize(r.Context(), criteria)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "summary failed",
			slog.String("error", err.Error()))

		switch {
		case errors.Is(err, services.ErrNoData):
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound,
				"NO_DATA", "No files have been uploaded yet"))
		case errors.Is(err, summary.ErrNotConfigured):
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusServiceUnavailable,
				"SERVICE_UNAVAILABLE", "Summary generation is not configured"))
		default:
			h.errorHandler.HandleError(w, r, apierrors.SummaryError(err))
		}
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"summary": text,
	})
}

// criteria converts the request body to filter criteria
func (req *SummaryRequest) criteria() (dataset.FilterCriteria, error) {
	criteria := dataset.FilterCriteria{
		Users:    req.Users,
		Locales:  req.Locales,
		Projects: req.Projects,
	}
	if req.From != "" {
		t, err := time.ParseInLocation(dateLayout, req.From, time.UTC)
		if err != nil {
			return dataset.FilterCriteria{}, apierrors.ErrValidation("from", "must be a date in YYYY-MM-DD format")
		}
		criteria.DateFrom = &t
	}
	if req.To != "" {
		t, err := time.ParseInLocation(dateLayout, req.To, time.UTC)
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

// validationProblem flattens validator errors into one API error
func validationProblem(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.InvalidRequestWithError(err)
	}
	fields := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: fe.Tag(),
		})
	}
	return apierrors.NewValidationErrors(fields)
}
