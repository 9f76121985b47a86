package dataset

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "batcli/internal/errors"
)

// Landing dataset columns
const (
	ColStartTime              = "start_time"
	ColBatLandingToFood       = "bat_landing_to_food"
	ColHabit                  = "habit"
	ColRatPeriodStart         = "rat_period_start"
	ColRatPeriodEnd           = "rat_period_end"
	ColSecondsAfterRatArrival = "seconds_after_rat_arrival"
	ColRisk                   = "risk"
	ColReward                 = "reward"
	ColMonth                  = "month"
	ColSunsetTime             = "sunset_time"
	ColHoursAfterSunset       = "hours_after_sunset"
	ColSeason                 = "season"

	// ColRatPresenceDuration is derived during feature engineering
	ColRatPresenceDuration = "rat_presence_duration"
)

// Interval dataset columns
const (
	ColTime             = "time"
	ColBatLandingNumber = "bat_landing_number"
	ColFoodAvailability = "food_availability"
	ColRatMinutes       = "rat_minutes"
	ColRatArrivalNumber = "rat_arrival_number"

	// ColRatPresence is derived from ColRatMinutes
	ColRatPresence = "rat_presence"
)

// DateColumns are the landing columns parsed as timestamps during cleaning
var DateColumns = []string{ColStartTime, ColRatPeriodStart, ColRatPeriodEnd, ColSunsetTime}

// NaNMarkers are the cell values read as missing
var NaNMarkers = []string{"", "NA", "N/A", "NaN", "nan", "null", "<nil>"}

// Schema describes the columns a dataset must carry and how to type them.
// Columns not listed in Types keep gota's type detection.
type Schema struct {
	Name     string
	Required []string
	Types    map[string]series.Type
}

// Landings is the per-landing observation dataset (dataset 1)
var Landings = Schema{
	Name: "landings",
	Required: []string{
		ColStartTime, ColBatLandingToFood, ColHabit,
		ColRatPeriodStart, ColRatPeriodEnd, ColRisk, ColSunsetTime,
	},
	Types: map[string]series.Type{
		ColStartTime:              series.String,
		ColBatLandingToFood:       series.Float,
		ColHabit:                  series.String,
		ColRatPeriodStart:         series.String,
		ColRatPeriodEnd:           series.String,
		ColSecondsAfterRatArrival: series.Float,
		ColRisk:                   series.Float,
		ColReward:                 series.Float,
		ColMonth:                  series.Float,
		ColSunsetTime:             series.String,
		ColHoursAfterSunset:       series.Float,
		ColSeason:                 series.Float,
	},
}

// Intervals is the 30-minute aggregated dataset (dataset 2)
var Intervals = Schema{
	Name:     "intervals",
	Required: []string{ColBatLandingNumber, ColRatMinutes},
	Types: map[string]series.Type{
		ColTime:             series.String,
		ColMonth:            series.Float,
		ColHoursAfterSunset: series.Float,
		ColBatLandingNumber: series.Float,
		ColFoodAvailability: series.Float,
		ColRatMinutes:       series.Float,
		ColRatArrivalNumber: series.Float,
	},
}

// Check reports the required columns missing from df
func (s Schema) Check(df dataframe.DataFrame) error {
	return RequireColumns(df, s.Name, s.Required...)
}

// RequireColumns fails with a MissingColumnsError naming every absent column
func RequireColumns(df dataframe.DataFrame, dataset string, columns ...string) error {
	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}

	var missing []string
	for _, col := range columns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &apperrors.MissingColumnsError{Dataset: dataset, Columns: missing}
	}
	return nil
}
