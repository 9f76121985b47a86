package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// ReportSource exposes the latest analysis result
type ReportSource interface {
	Last() (*Result, error)
	Options() AnalysisOptions
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	reports   ReportSource
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual component health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. reports may be nil.
func NewHealthService(version string, reports ReportSource, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("HealthService initialized", slog.String("version", version))
	return &HealthService{
		version:   version,
		reports:   reports,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
	hs.logger.DebugContext(ctx, "HealthCheck: completed", slog.String("status", status.Status))
	return status
}

// ReadinessCheck reports ready once the input files exist and a report has
// been produced
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"data":   hs.checkDataHealth(),
			"report": hs.checkReportHealth(),
		},
	}

	for _, sh := range status.Services {
		if sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}
	hs.logger.DebugContext(ctx, "ReadinessCheck: completed", slog.String("status", status.Status))
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

func (hs *HealthService) checkDataHealth() ServiceHealth {
	if hs.reports == nil {
		return ServiceHealth{Status: "not_ready", Message: "no analysis configured"}
	}
	opts := hs.reports.Options()
	for _, p := range []string{opts.LandingsPath, opts.IntervalsPath} {
		if _, err := os.Stat(p); err != nil {
			return ServiceHealth{Status: "not_ready", Message: "dataset not found: " + p}
		}
	}
	return ServiceHealth{Status: "ready"}
}

func (hs *HealthService) checkReportHealth() ServiceHealth {
	if hs.reports == nil {
		return ServiceHealth{Status: "not_ready", Message: "no analysis configured"}
	}
	res, err := hs.reports.Last()
	if err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	return ServiceHealth{Status: "ready", Message: "run " + res.Report.RunID}
}
