package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklens/internal/config"
)

func testApplication(t *testing.T) *Application {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.IdleTimeout = time.Minute
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Server.RequestTimeout = 30 * time.Second
	cfg.Logging.Level = "error"
	cfg.Summary.BaseURL = "http://localhost:1"
	cfg.Summary.Timeout = time.Second
	cfg.Summary.RPS = 1
	cfg.Summary.Burst = 1
	cfg.Limits.MaxUploadBytes = 1 << 20
	cfg.Limits.MaxFiles = 4

	app := &Application{
		Config: cfg,
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	app.initializeServices()
	app.setupRouter()
	app.createServer()
	return app
}

func TestRouterHealthz(t *testing.T) {
	app := testApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterMetricsEndpoint(t *testing.T) {
	app := testApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	app := testApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nonsense", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordsWithoutUploadIsProblem(t *testing.T) {
	app := testApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestServerConfiguration(t *testing.T) {
	app := testApplication(t)

	require.NotNil(t, app.Server)
	assert.Equal(t, 30*time.Second, app.Server.ReadTimeout)
	assert.Same(t, app.Router, app.Server.Handler)
}
