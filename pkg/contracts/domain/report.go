package domain

import (
	"strconv"
	"time"
)

// Report is the complete result of one analysis run
type Report struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Inputs      Inputs       `json:"inputs"`
	Clean       CleanReport  `json:"clean"`
	Vigilance   []GroupStats `json:"vigilance"`
	Habits      HabitTable   `json:"habits"`
	Avoidance   []GroupStats `json:"avoidance"`
	TTest       TTestResult  `json:"ttest"`
	Artifacts   []string     `json:"artifacts,omitempty"`
}

// Inputs describes the datasets a run read
type Inputs struct {
	LandingsPath  string `json:"landings_path"`
	IntervalsPath string `json:"intervals_path"`
	LandingRows   int    `json:"landing_rows"`
	IntervalRows  int    `json:"interval_rows"`
}

// CleanReport summarizes the landing dataset cleaning step
type CleanReport struct {
	OriginalRows  int      `json:"original_rows"`
	RemovedRows   int      `json:"removed_rows"`
	RemainingRows int      `json:"remaining_rows"`
	FilledHabits  int      `json:"filled_habits"`
	DateColumns   []string `json:"date_columns"`
	Features      []string `json:"features"`
}

// GroupStats holds descriptive statistics of one measure within one group.
// Count is the number of non-null values.
type GroupStats struct {
	Group  string `json:"group"`
	Count  int    `json:"count"`
	Mean   Number `json:"mean"`
	Median Number `json:"median"`
	Std    Number `json:"std"`
	Min    Number `json:"min"`
	Max    Number `json:"max"`
}

// HabitTable is a habit x group frequency table. Counts in each row line
// up with Groups.
type HabitTable struct {
	GroupColumn string     `json:"group_column"`
	Groups      []string   `json:"groups"`
	Rows        []HabitRow `json:"rows"`
}

// HabitRow is one habit's counts per group
type HabitRow struct {
	Habit  string `json:"habit"`
	Counts []int  `json:"counts"`
}

// Total returns the row's count across all groups
func (r HabitRow) Total() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	return total
}

// TTestResult is the outcome of an independent two-sample t-test
type TTestResult struct {
	Measure     string  `json:"measure"`
	GroupColumn string  `json:"group_column"`
	Group1      string  `json:"group1"`
	Group2      string  `json:"group2"`
	N1          int     `json:"n1"`
	N2          int     `json:"n2"`
	Mean1       Number  `json:"mean1"`
	Mean2       Number  `json:"mean2"`
	T           Number  `json:"t_statistic"`
	P           Number  `json:"p_value"`
	DF          Number  `json:"df"`
	EqualVar    bool    `json:"equal_var"`
	Alpha       float64 `json:"alpha"`
	Significant bool    `json:"significant"`
}

// Conclusion returns the verdict sentence for the test at its alpha
func (t TTestResult) Conclusion() string {
	alpha := strconv.FormatFloat(t.Alpha, 'g', -1, 64)
	if t.Significant {
		return "The result is statistically significant (p < " + alpha + "). We reject the null hypothesis."
	}
	return "The result is not statistically significant (p >= " + alpha + ")."
}
