package exporter

import (
	"batcli/pkg/contracts/domain"
)

// Table is a rectangular header plus rows view of part of a report
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// GroupStatsTable tabulates descriptive statistics keyed by groupColumn
func GroupStatsTable(name, groupColumn string, stats []domain.GroupStats) Table {
	t := Table{
		Name:    name,
		Headers: []string{groupColumn, "count", "mean", "median", "std", "min", "max"},
	}
	for _, s := range stats {
		t.Rows = append(t.Rows, []string{
			s.Group,
			formatInt(s.Count),
			formatNumber(s.Mean),
			formatNumber(s.Median),
			formatNumber(s.Std),
			formatNumber(s.Min),
			formatNumber(s.Max),
		})
	}
	return t
}

// HabitTable tabulates habit counts with one column per group
func HabitTable(name string, h domain.HabitTable) Table {
	t := Table{Name: name, Headers: append([]string{"habit"}, h.Groups...)}
	for _, r := range h.Rows {
		row := make([]string, 0, len(r.Counts)+1)
		row = append(row, r.Habit)
		for _, c := range r.Counts {
			row = append(row, formatInt(c))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// TTestTable tabulates the hypothesis test as key/value rows
func TTestTable(name string, r domain.TTestResult) Table {
	test := "student"
	if !r.EqualVar {
		test = "welch"
	}
	return Table{
		Name:    name,
		Headers: []string{"field", "value"},
		Rows: [][]string{
			{"measure", r.Measure},
			{"group_column", r.GroupColumn},
			{"test", test},
			{"group1", r.Group1},
			{"group2", r.Group2},
			{"n1", formatInt(r.N1)},
			{"n2", formatInt(r.N2)},
			{"mean1", formatNumber(r.Mean1)},
			{"mean2", formatNumber(r.Mean2)},
			{"t_statistic", formatNumber(r.T)},
			{"p_value", formatNumber(r.P)},
			{"df", formatNumber(r.DF)},
			{"alpha", formatNumber(domain.Number(r.Alpha))},
			{"conclusion", r.Conclusion()},
		},
	}
}

// CleanTable tabulates the cleaning summary
func CleanTable(name string, c domain.CleanReport) Table {
	return Table{
		Name:    name,
		Headers: []string{"field", "value"},
		Rows: [][]string{
			{"original_rows", formatInt(c.OriginalRows)},
			{"removed_rows", formatInt(c.RemovedRows)},
			{"remaining_rows", formatInt(c.RemainingRows)},
			{"filled_habits", formatInt(c.FilledHabits)},
		},
	}
}
