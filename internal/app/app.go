package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"batcli/internal/config"
	apperrors "batcli/internal/errors"
	"batcli/internal/infrastructure"
	customMiddleware "batcli/internal/middleware"
	"batcli/internal/services"
	handlers "batcli/internal/transport/http"
	"batcli/pkg/contracts"
)

// Application wires configuration, telemetry, services and the HTTP server
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Analysis      *services.AnalysisService
	Health        *services.HealthService
	ErrorHandler  *apperrors.ErrorHandler
	Router        *chi.Mux
	Server        *http.Server
}

// NewApplication builds the application from a loaded config. opts carries
// any command-line overrides already applied on top of cfg.
func NewApplication(cfg *config.Config, opts services.AnalysisOptions, logger *slog.Logger, providers *infrastructure.OTelProviders) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	analysis := services.NewAnalysisService(opts, logger, providers.Tracer, metrics)
	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Analysis:      analysis,
		Health:        services.NewHealthService(contracts.Version, analysis, logger),
		ErrorHandler:  apperrors.NewErrorHandler(logger),
	}

	if err := a.setupRouter(); err != nil {
		return nil, err
	}
	a.createServer()
	return a, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders → RateLimit
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler, a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if rl := a.Config.Server.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.ErrorHandler, a.Logger).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	reportHandler := handlers.NewReportHandler(a.Analysis, a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout))

		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Mount("/report", reportHandler.Routes())
		r.Mount("/plots", reportHandler.PlotRoutes())
	})

	// Prometheus metrics endpoint
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
	return nil
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.ServerAddress(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Warmup runs the first analysis so the report endpoints have data. A
// failed run is logged and the server still starts; readiness stays
// not_ready until a refresh succeeds.
func (a *Application) Warmup(ctx context.Context) {
	if _, err := a.Analysis.Run(ctx); err != nil {
		a.Logger.WarnContext(ctx, "initial analysis failed",
			slog.String("error", err.Error()))
	}
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts
// down gracefully
func (a *Application) Run(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Starting server",
		slog.String("version", contracts.Version),
		slog.String("address", a.Server.Addr))

	serveErr := make(chan error, 1)
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Shutdown requested")
	}

	return a.Stop(context.Background())
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	timeout := a.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry",
				slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Server shutdown complete")
	return errors.Join(errs...)
}
