package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"batcli/internal/config"
	"batcli/internal/dataset"
	apperrors "batcli/internal/errors"
	"batcli/pkg/contracts/domain"
)

// CleanerConfig holds the cleaning options for the landing dataset
type CleanerConfig struct {
	TimeLayout string // layout of the raw timestamp columns
	FillHabit  string // replacement for missing habit values
}

// DefaultCleanerConfig returns the day-first layout and "unknown" habit fill
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		TimeLayout: config.DefaultTimeLayout,
		FillHabit:  config.DefaultFillHabit,
	}
}

// Cleaner prepares the landing dataset for analysis
type Cleaner struct {
	logger *slog.Logger
	cfg    CleanerConfig
}

// NewCleaner creates a cleaner. Empty config fields take their defaults.
func NewCleaner(logger *slog.Logger, cfg CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultCleanerConfig()
	if cfg.TimeLayout == "" {
		cfg.TimeLayout = def.TimeLayout
	}
	if cfg.FillHabit == "" {
		cfg.FillHabit = def.FillHabit
	}
	return &Cleaner{logger: logger, cfg: cfg}
}

// CleanLandings fills missing habits, parses the four date columns and drops
// every row where any of them fails to parse. Surviving date values are
// rewritten in config.CanonicalTimeLayout.
func (c *Cleaner) CleanLandings(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, domain.CleanReport, error) {
	report := domain.CleanReport{
		OriginalRows: df.Nrow(),
		DateColumns:  append([]string(nil), dataset.DateColumns...),
	}

	required := append([]string{dataset.ColHabit}, dataset.DateColumns...)
	if err := dataset.RequireColumns(df, dataset.Landings.Name, required...); err != nil {
		return df, report, err
	}

	habits, filled := fillMissing(df.Col(dataset.ColHabit), c.cfg.FillHabit)
	df = df.Mutate(habits)
	report.FilledHabits = filled

	valid := make([]bool, df.Nrow())
	for i := range valid {
		valid[i] = true
	}
	for _, col := range dataset.DateColumns {
		canonical, ok := parseDates(df.Col(col), c.cfg.TimeLayout)
		for i := range valid {
			valid[i] = valid[i] && ok[i]
		}
		df = df.Mutate(canonical)
	}
	if df.Err != nil {
		return df, report, fmt.Errorf("clean landings: %w", df.Err)
	}

	keep := make([]int, 0, len(valid))
	for i, ok := range valid {
		if ok {
			keep = append(keep, i)
		}
	}
	report.RemovedRows = report.OriginalRows - len(keep)
	report.RemainingRows = len(keep)

	if len(keep) == 0 {
		return df, report, fmt.Errorf("clean landings: no rows with valid dates: %w", apperrors.ErrEmptyDataset)
	}
	if report.RemovedRows > 0 {
		df = df.Subset(keep)
		if df.Err != nil {
			return df, report, fmt.Errorf("clean landings: %w", df.Err)
		}
	}

	c.logger.InfoContext(ctx, "landings cleaned",
		slog.Int("original_rows", report.OriginalRows),
		slog.Int("removed_rows", report.RemovedRows),
		slog.Int("filled_habits", report.FilledHabits))

	return df, report, nil
}

// fillMissing replaces NaN elements of a text series with value
func fillMissing(s series.Series, value string) (series.Series, int) {
	records := s.Records()
	filled := 0
	for i := range records {
		if s.Elem(i).IsNA() || strings.TrimSpace(records[i]) == "" {
			records[i] = value
			filled++
		}
	}
	return series.New(records, series.String, s.Name), filled
}

// parseDates parses every element with layout. Unparseable or missing
// values become NaN and are flagged false.
func parseDates(s series.Series, layout string) (series.Series, []bool) {
	out := make([]string, s.Len())
	ok := make([]bool, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			out[i] = "NaN"
			continue
		}
		ts, err := time.Parse(layout, strings.TrimSpace(e.String()))
		if err != nil {
			out[i] = "NaN"
			continue
		}
		out[i] = ts.Format(config.CanonicalTimeLayout)
		ok[i] = true
	}
	return series.New(out, series.String, s.Name), ok
}
