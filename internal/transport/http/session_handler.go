package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tasklens/internal/dataset"
	apierrors "tasklens/internal/errors"
	"tasklens/internal/services"
)

// SessionHandler manages the uploaded-file inventory of the session
type SessionHandler struct {
	service      SessionServiceInterface
	maxBytes     int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service SessionServiceInterface, maxBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SessionHandler {
	return &SessionHandler{
		service:      service,
		maxBytes:     maxBytes,
		logger:       logger.With(slog.String("component", "session_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the file inventory routes
func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListFiles)
	r.Post("/", h.UploadFile)
	r.Delete("/", h.Reset)
	r.Delete("/{filename}", h.RemoveFile)

	return r
}

// ListFiles handles GET /api/files
func (h *SessionHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files := h.service.Files(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   files,
		"count":  len(files),
	})
}

// UploadReport is the per-file outcome of a multipart upload
type UploadReport struct {
	SourceFile string              `json:"source_file"`
	Status     string              `json:"status"`
	Result     *dataset.FileResult `json:"result,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// UploadFile handles POST /api/files. CSVs come in as multipart form
// parts under the "file" field; each part's filename keys replacement
// semantics. A failed part never blocks the others, the response
// reports every part.
func (h *SessionHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusRequestEntityTooLarge,
				"PAYLOAD_TOO_LARGE",
				fmt.Sprintf("Upload exceeds the %d byte limit", h.maxBytes),
			))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Request body must be multipart form data"))
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Missing file field in upload"))
		return
	}

	reports := make([]UploadReport, 0, len(headers))
	ingested := 0
	var firstErr error
	var firstErrFile string

	for _, header := range headers {
		result, err := h.ingestPart(r, header)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "upload failed",
				slog.String("file", header.Filename),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
				firstErrFile = header.Filename
			}
			reports = append(reports, UploadReport{
				SourceFile: header.Filename,
				Status:     "failed",
				Error:      err.Error(),
			})
			continue
		}
		ingested++
		reports = append(reports, UploadReport{
			SourceFile: header.Filename,
			Status:     "ingested",
			Result:     result,
		})
	}

	if ingested == 0 {
		h.errorHandler.HandleError(w, r, mapUploadError(firstErrFile, firstErr))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"data":     reports,
		"ingested": ingested,
		"failed":   len(headers) - ingested,
	})
}

// ingestPart reads one multipart file part into the session
func (h *SessionHandler) ingestPart(r *http.Request, header *multipart.FileHeader) (*dataset.FileResult, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return h.service.UploadFile(r.Context(), header.Filename, data)
}

// RemoveFile handles DELETE /api/files/{filename}
func (h *SessionHandler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	if err := h.service.RemoveFile(r.Context(), filename); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound,
				"FILE_NOT_FOUND", fmt.Sprintf("File '%s' is not in the session", filename)))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"file":   filename,
	})
}

// Reset handles DELETE /api/files
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.service.Reset(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
	})
}

// mapUploadError maps session service upload errors to API errors
func mapUploadError(filename string, err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyUpload):
		return apierrors.ErrValidation("file", fmt.Sprintf("File '%s' is empty", filename))
	case errors.Is(err, services.ErrUploadTooLarge):
		return apierrors.New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			fmt.Sprintf("File '%s' exceeds the size limit", filename))
	case errors.Is(err, services.ErrTooManyFiles):
		return apierrors.New(http.StatusConflict, "TOO_MANY_FILES",
			"The session file limit has been reached")
	default:
		return apierrors.IngestError(filename, err)
	}
}
