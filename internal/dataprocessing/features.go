package dataprocessing

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"batcli/internal/config"
	"batcli/internal/dataset"
)

// Rat presence labels for the interval dataset
const (
	LabelNoRat      = "No Rat"
	LabelRatPresent = "Rat Present"
)

// EngineerFeatures adds rat_presence_duration, the seconds between
// rat_period_start and rat_period_end, to a cleaned landing frame. The value
// is negative when the period ends before it starts, and NaN when either end
// cannot be read.
func EngineerFeatures(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := dataset.RequireColumns(df, dataset.Landings.Name, dataset.ColRatPeriodStart, dataset.ColRatPeriodEnd); err != nil {
		return df, err
	}

	start := df.Col(dataset.ColRatPeriodStart)
	end := df.Col(dataset.ColRatPeriodEnd)
	durations := make([]float64, df.Nrow())
	for i := range durations {
		s, errS := time.Parse(config.CanonicalTimeLayout, start.Elem(i).String())
		e, errE := time.Parse(config.CanonicalTimeLayout, end.Elem(i).String())
		if errS != nil || errE != nil {
			durations[i] = math.NaN()
			continue
		}
		durations[i] = e.Sub(s).Seconds()
	}

	out := df.Mutate(series.New(durations, series.Float, dataset.ColRatPresenceDuration))
	if out.Err != nil {
		return df, fmt.Errorf("engineer features: %w", out.Err)
	}
	return out, nil
}

// LabelRatPresence adds rat_presence to the interval frame: "Rat Present"
// when rat_minutes > 0, otherwise "No Rat". Missing minutes count as no rat.
func LabelRatPresence(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := dataset.RequireColumns(df, dataset.Intervals.Name, dataset.ColRatMinutes); err != nil {
		return df, err
	}

	minutes := df.Col(dataset.ColRatMinutes).Float()
	labels := make([]string, len(minutes))
	for i, m := range minutes {
		if !math.IsNaN(m) && m > 0 {
			labels[i] = LabelRatPresent
		} else {
			labels[i] = LabelNoRat
		}
	}

	out := df.Mutate(series.New(labels, series.String, dataset.ColRatPresence))
	if out.Err != nil {
		return df, fmt.Errorf("label rat presence: %w", out.Err)
	}
	return out, nil
}
