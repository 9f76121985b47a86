package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "batcli/internal/errors"
	"batcli/internal/plots"
	"batcli/pkg/contracts/domain"
)

// Report sections served by GET /api/report/{section}
const (
	SectionClean     = "clean"
	SectionVigilance = "vigilance"
	SectionHabits    = "habits"
	SectionAvoidance = "avoidance"
	SectionTTest     = "ttest"
)

// ttestSection adds the verdict sentence to the t-test result
type ttestSection struct {
	domain.TTestResult
	Conclusion string `json:"conclusion"`
}

// ReportHandler serves the latest analysis report and its plots
type ReportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetReport)
	r.Post("/refresh", h.Refresh)
	r.Get("/{section}", h.GetSection)
	return r
}

// PlotRoutes returns the plot routes
func (h *ReportHandler) PlotRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{file}", h.GetPlot)
	return r
}

// GetReport handles GET /api/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Last()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, res.Report)
}

// GetSection handles GET /api/report/{section}
func (h *ReportHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	res, err := h.service.Last()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report := res.Report
	var body interface{}
	switch section {
	case SectionClean:
		body = report.Clean
	case SectionVigilance:
		body = report.Vigilance
	case SectionHabits:
		body = report.Habits
	case SectionAvoidance:
		body = report.Avoidance
	case SectionTTest:
		body = ttestSection{TTestResult: report.TTest, Conclusion: report.TTest.Conclusion()}
	default:
		h.errorHandler.HandleError(w, r, notFound(fmt.Sprintf("section %q", section)))
		return
	}
	render.JSON(w, r, body)
}

// Refresh handles POST /api/report/refresh. On failure the previous report
// stays in place.
func (h *ReportHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Run(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "report refreshed",
		slog.String("run_id", res.Report.RunID))
	render.JSON(w, r, res.Report)
}

// GetPlot handles GET /api/plots/{name}.png
func (h *ReportHandler) GetPlot(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	name, ok := strings.CutSuffix(file, ".png")
	if !ok {
		h.errorHandler.HandleError(w, r, notFound(fmt.Sprintf("plot %q", file)))
		return
	}

	spec, err := h.service.PlotSpec(name)
	if errors.Is(err, apperrors.ErrUnknownSection) {
		err = notFound(fmt.Sprintf("plot %q", file))
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := plots.Render(spec, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write plot",
			slog.String("plot", name),
			slog.String("error", err.Error()))
	}
}

// notFound is a 404 API error naming resource that still matches
// errors.ErrUnknownSection
func notFound(resource string) error {
	return fmt.Errorf("%w: %w", apperrors.NotFoundError(resource), apperrors.ErrUnknownSection)
}
