package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tasklens/internal/config"
	"tasklens/internal/errors"
	"tasklens/internal/infrastructure"
	customMiddleware "tasklens/internal/middleware"
	"tasklens/internal/services"
	"tasklens/internal/summary"
	handlers "tasklens/internal/transport/http"
)

const (
	Version = "1.0.0"
	AppName = "TaskLens - Task Time Dashboard"
)

// Application is the main dependency container
type Application struct {
	Config         *config.Config
	Router         *chi.Mux
	Server         *http.Server
	SessionService *services.SessionService
	SummaryClient  *summary.Client
	Logger         *slog.Logger
}

// NewApplication loads configuration and wires all services
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the summary client and the session service
func (a *Application) initializeServices() {
	a.SummaryClient = summary.NewClient(a.Config.Summary, a.Logger)
	if !a.Config.SummaryConfigured() {
		a.Logger.Warn("Summary API key not configured",
			slog.String("action", "POST /api/summary will answer 503"))
	}

	a.SessionService = services.NewSessionService(a.Config.Limits, a.SummaryClient, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Ordering: RequestID → RealIP → Logger → Recoverer → RateLimiter →
	// CORS → SecurityHeaders → Timeout → Compress
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins:   a.Config.Security.AllowedOrigins,
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			Logger:           a.Logger,
		}))
	}

	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
	r.Use(customMiddleware.Compress(5))

	a.setupAPIRoutes(r)

	// Prometheus scrape endpoint stays outside the API tree
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

// setupAPIRoutes mounts the API handlers
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := errors.NewErrorHandler(a.Logger, false)

	sessionHandler := handlers.NewSessionHandler(a.SessionService, a.Config.Limits.MaxUploadBytes, a.Logger, errorHandler)
	dataHandler := handlers.NewDataHandler(a.SessionService, a.Logger, errorHandler)
	exportHandler := handlers.NewExportHandler(a.SessionService, a.Logger, errorHandler)
	summaryHandler := handlers.NewSummaryHandler(a.SessionService, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.SessionService, Version, a.Config.SummaryConfigured(), a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", healthHandler.HealthCheck)
		r.Mount("/files", sessionHandler.Routes())
		r.Mount("/export", exportHandler.Routes())
		r.Mount("/summary", summaryHandler.Routes())
		r.Mount("/", dataHandler.Routes())
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Server listening",
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	infrastructure.CloseLogFile()

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
