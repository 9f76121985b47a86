package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"batcli/internal/analytics"
	"batcli/internal/config"
	"batcli/internal/dataprocessing"
	"batcli/internal/dataset"
	apperrors "batcli/internal/errors"
	"batcli/internal/exporter"
	"batcli/internal/infrastructure"
	"batcli/internal/plots"
	"batcli/pkg/contracts/domain"
)

// Pipeline stage names, used as span names and metric labels
const (
	StageLoad      = "load"
	StageClean     = "clean"
	StageFeatures  = "features"
	StageVigilance = "vigilance"
	StageHabits    = "habits"
	StageAvoidance = "avoidance"
	StageTTest     = "ttest"
	StageExport    = "export"
)

// AnalysisOptions configures one analysis pipeline
type AnalysisOptions struct {
	LandingsPath  string
	IntervalsPath string
	Cleaner       dataprocessing.CleanerConfig
	TTest         analytics.TTestOptions
	Output        config.OutputConfig
}

// OptionsFromConfig derives pipeline options from the application config
func OptionsFromConfig(cfg *config.Config) AnalysisOptions {
	return AnalysisOptions{
		LandingsPath:  cfg.Input.LandingsPath,
		IntervalsPath: cfg.Input.IntervalsPath,
		Cleaner: dataprocessing.CleanerConfig{
			TimeLayout: cfg.Input.TimeLayout,
			FillHabit:  cfg.Analysis.FillHabit,
		},
		TTest: analytics.TTestOptions{
			EqualVar: cfg.Analysis.EqualVar,
			Alpha:    cfg.Analysis.Alpha,
		},
		Output: cfg.Output,
	}
}

// Result is one completed run: the report plus the prepared frames the
// plots are drawn from
type Result struct {
	Report    *domain.Report
	Landings  dataframe.DataFrame
	Intervals dataframe.DataFrame
	Loads     []dataset.LoadStatus
}

// AnalysisService runs the analysis pipeline and keeps the latest result
type AnalysisService struct {
	opts    AnalysisOptions
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	cleaner *dataprocessing.Cleaner

	runMu sync.Mutex
	mu    sync.RWMutex
	last  *Result
}

// NewAnalysisService creates the service. A nil tracer uses the global
// provider; nil metrics disables recording.
func NewAnalysisService(opts AnalysisOptions, logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.TracerName)
	}
	logger = infrastructure.WithComponent(logger, "analysis")
	return &AnalysisService{
		opts:    opts,
		logger:  logger,
		tracer:  tracer,
		metrics: metrics,
		cleaner: dataprocessing.NewCleaner(logger, opts.Cleaner),
	}
}

// Options returns the options the service runs with
func (s *AnalysisService) Options() AnalysisOptions {
	return s.opts
}

// Run executes the full pipeline. When dataset files are missing it returns
// a Result carrying only the load statuses together with an error matching
// errors.ErrFileNotFound; later stages do not run. Runs are serialized.
func (s *AnalysisService) Run(ctx context.Context) (*Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	runID := uuid.NewString()
	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, span := s.tracer.Start(ctx, "analysis.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("input.landings", s.opts.LandingsPath),
			attribute.String("input.intervals", s.opts.IntervalsPath),
		),
	)
	defer span.End()

	logger := s.logger.With(slog.String("run_id", runID))
	logger.InfoContext(ctx, "analysis started")
	start := time.Now()

	res, err := s.run(ctx, runID)
	status := "success"
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "analysis completed")
	case errors.Is(err, apperrors.ErrFileNotFound):
		status = "missing_input"
		span.SetStatus(codes.Error, err.Error())
	default:
		status = "failure"
		infrastructure.RecordError(ctx, err)
	}
	s.metrics.RecordRun(ctx, status)

	if err != nil {
		infrastructure.WithError(logger, err).WarnContext(ctx, "analysis stopped",
			slog.String("status", status))
		return res, err
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	logger.InfoContext(ctx, "analysis completed",
		slog.Duration("duration", time.Since(start)),
		slog.Bool("significant", res.Report.TTest.Significant))
	return res, nil
}

func (s *AnalysisService) run(ctx context.Context, runID string) (*Result, error) {
	report := &domain.Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Inputs: domain.Inputs{
			LandingsPath:  s.opts.LandingsPath,
			IntervalsPath: s.opts.IntervalsPath,
		},
	}
	res := &Result{Report: report}

	var pair *dataset.Pair
	err := s.stage(ctx, StageLoad, func(ctx context.Context) error {
		var err error
		pair, err = dataset.LoadPair(ctx, s.opts.LandingsPath, s.opts.IntervalsPath)
		if pair != nil {
			res.Loads = pair.Statuses
		}
		return err
	})
	if err != nil {
		return res, err
	}
	report.Inputs.LandingRows = pair.Landings.Nrow()
	report.Inputs.IntervalRows = pair.Intervals.Nrow()
	s.metrics.RecordRowsLoaded(ctx, dataset.Landings.Name, report.Inputs.LandingRows)
	s.metrics.RecordRowsLoaded(ctx, dataset.Intervals.Name, report.Inputs.IntervalRows)

	landings := pair.Landings
	err = s.stage(ctx, StageClean, func(ctx context.Context) error {
		var err error
		landings, report.Clean, err = s.cleaner.CleanLandings(ctx, landings)
		return err
	})
	if err != nil {
		return res, err
	}
	s.metrics.RecordRowsDropped(ctx, report.Clean.RemovedRows)

	err = s.stage(ctx, StageFeatures, func(ctx context.Context) error {
		var err error
		landings, err = dataprocessing.EngineerFeatures(landings)
		report.Clean.Features = []string{dataset.ColRatPresenceDuration}
		return err
	})
	if err != nil {
		return res, err
	}
	res.Landings = landings

	err = s.stage(ctx, StageVigilance, func(ctx context.Context) error {
		var err error
		report.Vigilance, err = analytics.Vigilance(landings)
		return err
	})
	if err != nil {
		return res, err
	}

	err = s.stage(ctx, StageHabits, func(ctx context.Context) error {
		var err error
		report.Habits, err = analytics.HabitsByRisk(landings)
		return err
	})
	if err != nil {
		return res, err
	}

	err = s.stage(ctx, StageAvoidance, func(ctx context.Context) error {
		intervals, err := dataprocessing.LabelRatPresence(pair.Intervals)
		if err != nil {
			return err
		}
		res.Intervals = intervals
		report.Avoidance, err = analytics.Avoidance(intervals)
		return err
	})
	if err != nil {
		return res, err
	}

	err = s.stage(ctx, StageTTest, func(ctx context.Context) error {
		var err error
		report.TTest, err = analytics.RunTTest(landings, s.opts.TTest)
		return err
	})
	if err != nil {
		return res, err
	}

	return res, nil
}

// stage runs fn inside a span and records its duration
func (s *AnalysisService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, "analysis.stage."+name,
		trace.WithAttributes(attribute.String("stage", name)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)
	s.metrics.RecordStage(ctx, name, duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return fmt.Errorf("%s: %w", name, err)
	}
	span.SetStatus(codes.Ok, "")
	s.logger.DebugContext(ctx, "stage completed",
		slog.String("stage", name),
		slog.Duration("duration", duration))
	return nil
}

// Last returns the most recent successful result
func (s *AnalysisService) Last() (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, apperrors.ErrNoReport
	}
	return s.last, nil
}

// PlotSpec returns the named box plot of the latest result
func (s *AnalysisService) PlotSpec(name string) (plots.BoxSpec, error) {
	res, err := s.Last()
	if err != nil {
		return plots.BoxSpec{}, err
	}
	return res.PlotSpec(name, s.opts.Output)
}

// PlotSpec returns the named box plot of r sized per out
func (r *Result) PlotSpec(name string, out config.OutputConfig) (plots.BoxSpec, error) {
	var (
		spec plots.BoxSpec
		err  error
	)
	switch name {
	case plots.Vigilance:
		spec, err = plots.VigilanceSpec(r.Landings)
	case plots.Avoidance:
		spec, err = plots.AvoidanceSpec(r.Intervals)
	default:
		return plots.BoxSpec{}, fmt.Errorf("plot %q: %w", name, apperrors.ErrUnknownSection)
	}
	if err != nil {
		return spec, err
	}
	if out.PlotWidthIn > 0 {
		spec.WidthIn = out.PlotWidthIn
	}
	if out.PlotHeightIn > 0 {
		spec.HeightIn = out.PlotHeightIn
	}
	return spec, nil
}

// WriteArtifacts writes the enabled outputs of res into the output directory
// and records their paths on the report. The JSON report is written last so
// it lists every artifact.
func (s *AnalysisService) WriteArtifacts(ctx context.Context, res *Result) ([]string, error) {
	out := s.opts.Output
	var paths []string

	err := s.stage(ctx, StageExport, func(ctx context.Context) error {
		var plotPaths []string
		if out.Plots {
			specs := make([]plots.BoxSpec, 0, len(plots.Names))
			for _, name := range plots.Names {
				spec, err := res.PlotSpec(name, out)
				if err != nil {
					return err
				}
				specs = append(specs, spec)
			}
			written, err := plots.SaveAll(out.Dir, specs...)
			if err != nil {
				return err
			}
			plotPaths = written
			paths = append(paths, written...)
		}

		if out.CSV {
			written, err := s.writeCSVs(res)
			if err != nil {
				return err
			}
			paths = append(paths, written...)
		}

		if out.Excel {
			path := filepath.Join(out.Dir, config.WorkbookFile)
			if err := exporter.NewWorkbookWriter(s.logger).Write(path, reportTables(res.Report), plotPaths); err != nil {
				return err
			}
			paths = append(paths, path)
		}

		if out.JSON {
			path := filepath.Join(out.Dir, config.ReportJSONFile)
			res.Report.Artifacts = append(append([]string(nil), paths...), path)
			if err := exporter.WriteReportJSON(path, res.Report); err != nil {
				return err
			}
			paths = append(paths, path)
		}
		res.Report.Artifacts = paths
		return nil
	})
	if err != nil {
		return paths, err
	}

	s.logger.InfoContext(ctx, "artifacts written",
		slog.String("dir", out.Dir),
		slog.Int("count", len(paths)))
	return paths, nil
}

func (s *AnalysisService) writeCSVs(res *Result) ([]string, error) {
	w := exporter.NewCSVWriter(s.opts.Output.Dir, s.logger)
	r := res.Report

	cleaned, err := w.WriteFrame(config.CleanedCSVFile, res.Landings)
	if err != nil {
		return nil, err
	}
	paths := []string{cleaned}

	tables := []struct {
		file  string
		table exporter.Table
	}{
		{config.VigilanceCSVFile, exporter.GroupStatsTable("Vigilance", dataset.ColRisk, r.Vigilance)},
		{config.HabitsCSVFile, exporter.HabitTable("Habits", r.Habits)},
		{config.AvoidanceCSVFile, exporter.GroupStatsTable("Avoidance", dataset.ColRatPresence, r.Avoidance)},
	}
	for _, t := range tables {
		path, err := w.WriteTable(t.file, t.table)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// reportTables lists the workbook sheets in report order
func reportTables(r *domain.Report) []exporter.Table {
	return []exporter.Table{
		exporter.CleanTable("Cleaning", r.Clean),
		exporter.GroupStatsTable("Vigilance", dataset.ColRisk, r.Vigilance),
		exporter.HabitTable("Habits", r.Habits),
		exporter.GroupStatsTable("Avoidance", dataset.ColRatPresence, r.Avoidance),
		exporter.TTestTable("TTest", r.TTest),
	}
}
