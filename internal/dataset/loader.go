package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/sync/errgroup"

	apperrors "batcli/internal/errors"
	"batcli/internal/infrastructure"
)

// LoadStatus records the outcome of loading one dataset file
type LoadStatus struct {
	Dataset string
	Path    string
	Rows    int
	Err     error
}

// Loaded reports whether the file was read successfully
func (s LoadStatus) Loaded() bool { return s.Err == nil }

// Pair holds both analysis datasets. Statuses is ordered landings first.
type Pair struct {
	Landings  dataframe.DataFrame
	Intervals dataframe.DataFrame
	Statuses  []LoadStatus
}

// Load reads the CSV at path and checks it against schema. A path that does
// not exist returns a *errors.MissingFileError.
func Load(ctx context.Context, path string, schema Schema) (dataframe.DataFrame, error) {
	logger := infrastructure.GetLogger().With(slog.String("dataset", schema.Name))

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.WarnContext(ctx, "dataset file not found", slog.String("path", path))
			return dataframe.DataFrame{}, &apperrors.MissingFileError{Path: path}
		}
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	df, err := Read(f, schema)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", path, err)
	}

	logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))
	return df, nil
}

// Read parses CSV from r with the schema's column types
func Read(r io.Reader, schema Schema) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.WithTypes(schema.Types),
		dataframe.NaNValues(NaNMarkers),
	)
	if df.Err != nil {
		return df, fmt.Errorf("parse %s csv: %w", schema.Name, df.Err)
	}
	if df.Nrow() == 0 {
		return df, fmt.Errorf("parse %s csv: %w", schema.Name, apperrors.ErrEmptyDataset)
	}
	if err := schema.Check(df); err != nil {
		return df, err
	}
	return df, nil
}

// LoadPair loads both datasets concurrently. When files are missing the
// returned error joins one MissingFileError per absent file, and the Pair is
// still returned so callers can report which files did load.
func LoadPair(ctx context.Context, landingsPath, intervalsPath string) (*Pair, error) {
	pair := &Pair{
		Statuses: []LoadStatus{
			{Dataset: Landings.Name, Path: landingsPath},
			{Dataset: Intervals.Name, Path: intervalsPath},
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	load := func(idx int, schema Schema, dst *dataframe.DataFrame) {
		g.Go(func() error {
			df, err := Load(gctx, pair.Statuses[idx].Path, schema)
			pair.Statuses[idx].Err = err
			if err != nil {
				if errors.Is(err, apperrors.ErrFileNotFound) {
					return nil
				}
				return err
			}
			pair.Statuses[idx].Rows = df.Nrow()
			*dst = df
			return nil
		})
	}
	load(0, Landings, &pair.Landings)
	load(1, Intervals, &pair.Intervals)

	if err := g.Wait(); err != nil {
		return pair, err
	}

	var missing []error
	for _, st := range pair.Statuses {
		if st.Err != nil {
			missing = append(missing, st.Err)
		}
	}
	if len(missing) > 0 {
		return pair, errors.Join(missing...)
	}
	return pair, nil
}
