package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tasklens/internal/errors"
	"tasklens/internal/services"
)

// DataHandler serves filtered records, aggregates and facet listings
type DataHandler struct {
	service      SessionServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service SessionServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data query routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/records", h.GetRecords)
	r.Get("/aggregates", h.GetAggregates)
	r.Get("/facets", h.GetFacets)

	return r
}

// GetRecords handles GET /api/records
func (h *DataHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records, err := h.service.Records(r.Context(), criteria)
	if err != nil {
		h.handleDataError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   records,
		"count":  len(records),
	})
}

// GetAggregates handles GET /api/aggregates
func (h *DataHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	aggregates, err := h.service.Aggregates(r.Context(), criteria)
	if err != nil {
		h.handleDataError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   aggregates,
	})
}

// GetFacets handles GET /api/facets
func (h *DataHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.service.Facets(r.Context())
	if err != nil {
		h.handleDataError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   facets,
	})
}

func (h *DataHandler) handleDataError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "data query failed",
		slog.String("error", err.Error()))

	if errors.Is(err, services.ErrNoData) {
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound,
			"NO_DATA", "No files have been uploaded yet"))
		return
	}
	h.errorHandler.HandleError(w, r, err)
}
