package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "tasklens/internal/errors"
	"tasklens/internal/services"
)

// ExportHandler streams the filtered dataset as CSV or XLSX
type ExportHandler struct {
	service      SessionServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service SessionServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Export)
	return r
}

// Export handles GET /api/export?format=csv|xlsx. The body is staged in
// memory so a failed export still yields a proper problem response.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var buf bytes.Buffer
	var contentType, extension string

	switch format {
	case "csv":
		err = h.service.ExportCSV(r.Context(), &buf, criteria)
		contentType = "text/csv; charset=utf-8"
		extension = "csv"
	case "xlsx":
		err = h.service.ExportXLSX(r.Context(), &buf, criteria)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		extension = "xlsx"
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "Format must be csv or xlsx"))
		return
	}

	if err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))

		if errors.Is(err, services.ErrNoData) {
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound,
				"NO_DATA", "No files have been uploaded yet"))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("task_records_%s.%s", time.Now().UTC().Format("20060102_150405"), extension)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
