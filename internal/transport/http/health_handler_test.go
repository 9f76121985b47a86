package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "batcli/internal/errors"
	"batcli/internal/services"
	"batcli/internal/shared/testutil"
	"batcli/pkg/contracts/domain"
)

type stubReports struct {
	last *services.Result
	opts services.AnalysisOptions
}

func (s stubReports) Last() (*services.Result, error) {
	if s.last == nil {
		return nil, apperrors.ErrNoReport
	}
	return s.last, nil
}

func (s stubReports) Options() services.AnalysisOptions { return s.opts }

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	landings, intervals := testutil.WriteDatasets(t)
	opts := services.AnalysisOptions{LandingsPath: landings, IntervalsPath: intervals}

	tests := []struct {
		name    string
		reports stubReports
		path    string
		status  int
		want    string
	}{
		{"health", stubReports{opts: opts}, "/health", http.StatusOK, "ok"},
		{"live", stubReports{opts: opts}, "/health/live", http.StatusOK, "alive"},
		{"ready without report", stubReports{opts: opts}, "/health/ready", http.StatusServiceUnavailable, "not_ready"},
		{"ready", stubReports{opts: opts, last: &services.Result{Report: &domain.Report{RunID: "r"}}}, "/health/ready", http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(services.NewHealthService("test", tt.reports, logger), logger)
			r := chi.NewRouter()
			r.Mount("/health", h.Routes())

			rec := serve(r, http.MethodGet, tt.path)
			require.Equal(t, tt.status, rec.Code)

			var body services.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Status)
			assert.Equal(t, "test", body.Version)
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewHealthHandler(services.NewHealthService("test", stubReports{}, logger), logger)

	r := chi.NewRouter()
	r.Get("/version", h.Version)
	rec := serve(r, http.MethodGet, "/version")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"report_format":"v1"`)
}
