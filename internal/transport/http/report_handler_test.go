package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "batcli/internal/errors"
	"batcli/internal/plots"
	"batcli/internal/services"
	"batcli/internal/shared/testutil"
	"batcli/pkg/contracts/domain"
)

type stubReportService struct {
	last    *services.Result
	lastErr error
	runErr  error
	runs    int
}

func (s *stubReportService) Run(ctx context.Context) (*services.Result, error) {
	s.runs++
	if s.runErr != nil {
		return nil, s.runErr
	}
	return s.last, nil
}

func (s *stubReportService) Last() (*services.Result, error) {
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	return s.last, nil
}

func (s *stubReportService) PlotSpec(name string) (plots.BoxSpec, error) {
	if name != plots.Vigilance {
		return plots.BoxSpec{}, fmt.Errorf("plot %q: %w", name, apperrors.ErrUnknownSection)
	}
	return plots.BoxSpec{Name: name, Title: "t", WidthIn: 2, HeightIn: 2}, nil
}

func newRouter(t *testing.T, svc ReportServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewReportHandler(svc, logger, apperrors.NewErrorHandler(logger))
	r := chi.NewRouter()
	r.Mount("/report", h.Routes())
	r.Mount("/plots", h.PlotRoutes())
	return r
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestReportHandler_Sections(t *testing.T) {
	report := &domain.Report{
		RunID: "run-1",
		Clean: domain.CleanReport{OriginalRows: 6, RemovedRows: 1, RemainingRows: 5},
		Vigilance: []domain.GroupStats{
			{Group: "0", Count: 3, Mean: 3},
			{Group: "1", Count: 2, Mean: 13},
		},
		Habits: domain.HabitTable{GroupColumn: "risk", Groups: []string{"0", "1"}},
		TTest:  domain.TTestResult{Group1: "0", Group2: "1", P: 0.01, Alpha: 0.05, Significant: true},
	}
	router := newRouter(t, &stubReportService{last: &services.Result{Report: report}})

	tests := []struct {
		path  string
		check func(t *testing.T, body []byte)
	}{
		{"/report", func(t *testing.T, body []byte) {
			var got domain.Report
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "run-1", got.RunID)
		}},
		{"/report/clean", func(t *testing.T, body []byte) {
			var got domain.CleanReport
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, 1, got.RemovedRows)
		}},
		{"/report/vigilance", func(t *testing.T, body []byte) {
			var got []domain.GroupStats
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Len(t, got, 2)
		}},
		{"/report/habits", func(t *testing.T, body []byte) {
			assert.Contains(t, string(body), `"group_column":"risk"`)
		}},
		{"/report/avoidance", func(t *testing.T, body []byte) {
			assert.Equal(t, "null", string(body[:4]))
		}},
		{"/report/ttest", func(t *testing.T, body []byte) {
			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, true, got["significant"])
			assert.Contains(t, got["conclusion"], "We reject the null hypothesis")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			tt.check(t, rec.Body.Bytes())
		})
	}
}

func TestReportHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		svc    *stubReportService
		method string
		path   string
		status int
	}{
		{"no report yet", &stubReportService{lastErr: apperrors.ErrNoReport}, http.MethodGet, "/report", http.StatusServiceUnavailable},
		{"no report for section", &stubReportService{lastErr: apperrors.ErrNoReport}, http.MethodGet, "/report/ttest", http.StatusServiceUnavailable},
		{"refresh timeout", &stubReportService{runErr: fmt.Errorf("load: %w", context.DeadlineExceeded)}, http.MethodPost, "/report/refresh", http.StatusGatewayTimeout},
		{"refresh invalid data", &stubReportService{runErr: fmt.Errorf("clean: %w", apperrors.ErrEmptyDataset)}, http.MethodPost, "/report/refresh", http.StatusUnprocessableEntity},
		{"refresh unexpected", &stubReportService{runErr: errors.New("disk on fire")}, http.MethodPost, "/report/refresh", http.StatusInternalServerError},
		{"unknown plot", &stubReportService{}, http.MethodGet, "/plots/other.png", http.StatusNotFound},
		{"plot without report", &stubReportService{lastErr: apperrors.ErrNoReport}, http.MethodGet, "/plots/vigilance.txt", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newRouter(t, tt.svc), tt.method, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			var problem map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, float64(tt.status), problem["status"])
			assert.NotEmpty(t, problem["type"])
		})
	}
}

func TestReportHandler_NotFoundNamesResource(t *testing.T) {
	svc := &stubReportService{last: &services.Result{Report: &domain.Report{RunID: "run-1"}}}
	router := newRouter(t, svc)

	tests := []struct {
		path    string
		details string
	}{
		{"/report/weather", `section "weather"`},
		{"/plots/other.png", `plot "other.png"`},
		{"/plots/vigilance.svg", `plot "vigilance.svg"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.path)
			require.Equal(t, http.StatusNotFound, rec.Code)

			var problem map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, apperrors.TypeNotFound, problem["type"])
			assert.Equal(t, "NOT_FOUND", problem["error_code"])
			assert.Equal(t, tt.details, problem["details"])
		})
	}
}

func TestReportHandler_RefreshRunsAnalysis(t *testing.T) {
	svc := &stubReportService{last: &services.Result{Report: &domain.Report{RunID: "fresh"}}}
	rec := serve(newRouter(t, svc), http.MethodPost, "/report/refresh")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.runs)
	assert.Contains(t, rec.Body.String(), `"run_id":"fresh"`)
}
