package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler reports process liveness and session shape
type HealthHandler struct {
	service           SessionServiceInterface
	version           string
	summaryConfigured bool
	started           time.Time
	logger            *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service SessionServiceInterface, version string, summaryConfigured bool, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service:           service,
		version:           version,
		summaryConfigured: summaryConfigured,
		started:           time.Now(),
		logger:            logger.With(slog.String("component", "health_handler")),
	}
}

// HealthCheck handles GET /api/healthz
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":             "ok",
		"version":            h.version,
		"uptime_seconds":     int64(time.Since(h.started).Seconds()),
		"files":              len(h.service.Files(r.Context())),
		"summary_configured": h.summaryConfigured,
	})
}
