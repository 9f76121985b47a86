package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batcli/internal/analytics"
	"batcli/internal/config"
	"batcli/internal/dataprocessing"
	apperrors "batcli/internal/errors"
	"batcli/internal/infrastructure"
	"batcli/internal/services"
	"batcli/internal/shared/testutil"
	"batcli/pkg/contracts/domain"
)

func newTestApp(t *testing.T, landings, intervals string) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	cfg := config.Default()
	cfg.Server.RateLimit.Enabled = false
	cfg.Output.Dir = filepath.Join(t.TempDir(), "reports")
	cfg.Output.PlotWidthIn, cfg.Output.PlotHeightIn = 4, 3

	opts := services.OptionsFromConfig(&cfg)
	opts.LandingsPath = landings
	opts.IntervalsPath = intervals
	opts.Cleaner = dataprocessing.DefaultCleanerConfig()
	opts.TTest = analytics.TTestOptions{EqualVar: true, Alpha: 0.05}

	providers, err := infrastructure.InitializeOTel(
		config.TelemetryConfig{Tracing: "none", Metrics: "prometheus"}, nil, logger)
	require.NoError(t, err)
	t.Cleanup(func() { providers.Shutdown(context.Background()) })

	a, err := NewApplication(&cfg, opts, logger, providers)
	require.NoError(t, err)
	return a
}

func do(t *testing.T, a *Application, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func problemOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestApplication_ReportBeforeWarmup(t *testing.T) {
	landings, intervals := testutil.WriteDatasets(t)
	a := newTestApp(t, landings, intervals)

	rec := do(t, a, http.MethodGet, "/api/report")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apperrors.TypeReportNotReady, problemOf(t, rec)["type"])

	rec = do(t, a, http.MethodGet, "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApplication_Routes(t *testing.T) {
	landings, intervals := testutil.WriteDatasets(t)
	a := newTestApp(t, landings, intervals)
	a.Warmup(context.Background())

	t.Run("report", func(t *testing.T) {
		rec := do(t, a, http.MethodGet, "/api/report")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		var report domain.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.NotEmpty(t, report.RunID)
		assert.Len(t, report.Vigilance, 2)
		assert.Len(t, report.Avoidance, 2)
		assert.Equal(t, 1, report.Clean.RemovedRows)
	})

	t.Run("ttest section carries conclusion", func(t *testing.T) {
		rec := do(t, a, http.MethodGet, "/api/report/ttest")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["conclusion"], "statistically significant")
		assert.Equal(t, "0", body["group1"])
	})

	t.Run("unknown section", func(t *testing.T) {
		rec := do(t, a, http.MethodGet, "/api/report/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("plot", func(t *testing.T) {
		rec := do(t, a, http.MethodGet, "/api/plots/vigilance.png")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
	})

	t.Run("unknown plot", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(t, a, http.MethodGet, "/api/plots/nope.png").Code)
		assert.Equal(t, http.StatusNotFound, do(t, a, http.MethodGet, "/api/plots/vigilance.svg").Code)
	})

	t.Run("refresh", func(t *testing.T) {
		before, err := a.Analysis.Last()
		require.NoError(t, err)

		rec := do(t, a, http.MethodPost, "/api/report/refresh")
		require.Equal(t, http.StatusOK, rec.Code)

		after, err := a.Analysis.Last()
		require.NoError(t, err)
		assert.NotEqual(t, before.Report.RunID, after.Report.RunID)
	})

	t.Run("health", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(t, a, http.MethodGet, "/api/health").Code)
		assert.Equal(t, http.StatusOK, do(t, a, http.MethodGet, "/api/health/ready").Code)
		assert.Equal(t, http.StatusOK, do(t, a, http.MethodGet, "/api/health/live").Code)
		assert.Equal(t, http.StatusOK, do(t, a, http.MethodGet, "/api/version").Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := do(t, a, http.MethodGet, "/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperrors.TypeNotFound, problemOf(t, rec)["type"])
	})

	t.Run("method not allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusMethodNotAllowed, do(t, a, http.MethodDelete, "/api/report").Code)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := do(t, a, http.MethodGet, "/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "batcli_http_requests")
		assert.Contains(t, body, "batcli_analysis_runs")
		assert.Contains(t, body, `route="/api/report/{section}"`)
	})
}

func TestApplication_RefreshMissingFiles(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, filepath.Join(dir, "dataset1.csv"), filepath.Join(dir, "dataset2.csv"))
	a.Warmup(context.Background())

	rec := do(t, a, http.MethodPost, "/api/report/refresh")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := problemOf(t, rec)
	assert.Equal(t, apperrors.TypeDataNotFound, body["type"])
	assert.Len(t, body["missing_files"], 2)
	assert.NotEmpty(t, body["trace_id"])
}

func TestApplication_RunStopsOnCancel(t *testing.T) {
	landings, intervals := testutil.WriteDatasets(t)
	a := newTestApp(t, landings, intervals)
	a.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Run(ctx))
}
