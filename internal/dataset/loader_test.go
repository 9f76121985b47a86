package dataset

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "batcli/internal/errors"
	"batcli/internal/shared/testutil"
)

func TestRead_Landings(t *testing.T) {
	df, err := Read(strings.NewReader(testutil.LandingsCSV), Landings)
	require.NoError(t, err)

	assert.Equal(t, testutil.LandingsRows, df.Nrow())
	assert.Equal(t, series.Float, df.Col(ColRisk).Type())
	assert.Equal(t, series.String, df.Col(ColStartTime).Type())
	assert.Equal(t, series.String, df.Col(ColHabit).Type())

	habit := df.Col(ColHabit)
	assert.True(t, habit.Elem(3).IsNA(), "blank habit should read as NaN")
	assert.Equal(t, "rat", habit.Elem(0).String())
}

func TestRead_IntervalsBlankIsNaN(t *testing.T) {
	df, err := Read(strings.NewReader(testutil.IntervalsCSV), Intervals)
	require.NoError(t, err)

	minutes := df.Col(ColRatMinutes)
	assert.Equal(t, series.Float, minutes.Type())
	assert.True(t, minutes.Elem(5).IsNA())
	assert.Equal(t, 5.5, minutes.Elem(3).Float())
}

func TestRead_MissingColumns(t *testing.T) {
	csv := "start_time,habit\n30/12/2017 18:37,rat\n"
	_, err := Read(strings.NewReader(csv), Landings)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingColumn)

	var mc *apperrors.MissingColumnsError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "landings", mc.Dataset)
	assert.Contains(t, mc.Columns, ColRisk)
	assert.Contains(t, mc.Columns, ColBatLandingToFood)
	assert.NotContains(t, mc.Columns, ColHabit)
}

func TestRead_HeaderOnly(t *testing.T) {
	_, err := Read(strings.NewReader("bat_landing_number,rat_minutes\n"), Intervals)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := testutil.WriteFile(t, "dataset2.csv", testutil.IntervalsCSV)

	df, err := Load(context.Background(), path, Intervals)
	require.NoError(t, err)
	assert.Equal(t, testutil.IntervalsRows, df.Nrow())
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")

	_, err := Load(context.Background(), path, Landings)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	assert.Equal(t, []string{path}, apperrors.MissingFiles(err))
}

func TestLoadPair(t *testing.T) {
	landings, intervals := testutil.WriteDatasets(t)

	pair, err := LoadPair(context.Background(), landings, intervals)
	require.NoError(t, err)

	assert.Equal(t, testutil.LandingsRows, pair.Landings.Nrow())
	assert.Equal(t, testutil.IntervalsRows, pair.Intervals.Nrow())
	require.Len(t, pair.Statuses, 2)
	assert.Equal(t, "landings", pair.Statuses[0].Dataset)
	assert.True(t, pair.Statuses[0].Loaded())
	assert.Equal(t, testutil.LandingsRows, pair.Statuses[0].Rows)
	assert.True(t, pair.Statuses[1].Loaded())
}

func TestLoadPair_ReportsEveryMissingFile(t *testing.T) {
	dir := t.TempDir()
	landings := filepath.Join(dir, "dataset1.csv")
	intervals := filepath.Join(dir, "dataset2.csv")

	pair, err := LoadPair(context.Background(), landings, intervals)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	assert.ElementsMatch(t, []string{landings, intervals}, apperrors.MissingFiles(err))

	require.NotNil(t, pair)
	assert.False(t, pair.Statuses[0].Loaded())
	assert.False(t, pair.Statuses[1].Loaded())
}

func TestLoadPair_OneMissing(t *testing.T) {
	landings, _ := testutil.WriteDatasets(t)
	intervals := filepath.Join(t.TempDir(), "nope.csv")

	pair, err := LoadPair(context.Background(), landings, intervals)
	require.Error(t, err)
	assert.Equal(t, []string{intervals}, apperrors.MissingFiles(err))
	assert.True(t, pair.Statuses[0].Loaded())
	assert.False(t, pair.Statuses[1].Loaded())
}

func TestLoadPair_ParseErrorIsFatal(t *testing.T) {
	landings := testutil.WriteFile(t, "bad.csv", "start_time\nx\n")
	_, intervals := testutil.WriteDatasets(t)

	_, err := LoadPair(context.Background(), landings, intervals)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingColumn)
	assert.Empty(t, apperrors.MissingFiles(err))
}
