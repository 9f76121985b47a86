package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// LandingsCSV has five valid landings and one with an unparseable
// start_time. One habit is blank. Expected after cleaning:
//
//	risk 0: bat_landing_to_food 0.074, 4, 5 (habits fast, fast, pick)
//	risk 1: bat_landing_to_food 16, 10     (habits rat, unknown)
//	rat_presence_duration: 180, 300, 300, 300, 1200
const LandingsCSV = `start_time,bat_landing_to_food,habit,rat_period_start,rat_period_end,seconds_after_rat_arrival,risk,reward,month,sunset_time,hours_after_sunset,season
30/12/2017 18:37,16,rat,30/12/2017 18:35,30/12/2017 18:38,108,1,0,0,30/12/2017 16:45,1.870833333,0
30/12/2017 19:51,0.074,fast,30/12/2017 19:50,30/12/2017 19:55,17,0,1,0,30/12/2017 16:45,3.100833333,0
30/12/2017 19:51,4,fast,30/12/2017 19:50,30/12/2017 19:55,41,0,1,0,30/12/2017 16:45,3.1075,0
30/12/2017 19:52,10,,30/12/2017 19:50,30/12/2017 19:55,78,1,0,0,30/12/2017 16:45,3.120833333,0
31/12/2017 20:10,5,pick,31/12/2017 20:00,31/12/2017 20:20,600,0,1,0,31/12/2017 16:46,3.4,0
not a date,7,rat,31/12/2017 20:00,31/12/2017 20:20,640,1,0,0,31/12/2017 16:46,3.5,0
`

// LandingsNoMeasureCSV has valid landings in both risk groups but no
// bat_landing_to_food values
const LandingsNoMeasureCSV = `start_time,bat_landing_to_food,habit,rat_period_start,rat_period_end,seconds_after_rat_arrival,risk,reward,month,sunset_time,hours_after_sunset,season
30/12/2017 18:37,,rat,30/12/2017 18:35,30/12/2017 18:38,108,1,0,0,30/12/2017 16:45,1.870833333,0
30/12/2017 19:51,,fast,30/12/2017 19:50,30/12/2017 19:55,17,0,1,0,30/12/2017 16:45,3.100833333,0
`

// IntervalsCSV has four intervals without rats (one with a blank
// rat_minutes) and two with rats. Mean landings: No Rat 15, Rat Present 8.
const IntervalsCSV = `time,month,hours_after_sunset,bat_landing_number,food_availability,rat_minutes,rat_arrival_number
26/12/2017 16:13,0,-0.5,20,4,0,0
26/12/2017 16:43,0,0,28,4,0,0
26/12/2017 17:13,0,0.5,4,4,0,0
26/12/2017 17:43,0,1,10,4,5.5,1
26/12/2017 18:13,0,1.5,6,4,2,1
26/12/2017 18:43,0,2,8,3.5,,0
`

// LandingsRows and IntervalsRows are the raw row counts of the fixtures
const (
	LandingsRows  = 6
	IntervalsRows = 6
)

// WriteFile writes content to name inside a fresh temp dir and returns the path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteDatasets writes both fixtures and returns their paths
func WriteDatasets(t *testing.T) (landings, intervals string) {
	t.Helper()
	dir := t.TempDir()
	landings = filepath.Join(dir, "dataset1.csv")
	intervals = filepath.Join(dir, "dataset2.csv")
	require.NoError(t, os.WriteFile(landings, []byte(LandingsCSV), 0o644))
	require.NoError(t, os.WriteFile(intervals, []byte(IntervalsCSV), 0o644))
	return landings, intervals
}
