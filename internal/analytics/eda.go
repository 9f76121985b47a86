package analytics

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"

	"batcli/internal/dataset"
	apperrors "batcli/internal/errors"
	"batcli/pkg/contracts/domain"
)

// Vigilance describes bat_landing_to_food for each risk group
func Vigilance(landings dataframe.DataFrame) ([]domain.GroupStats, error) {
	groups, err := GroupValues(landings, dataset.ColRisk, dataset.ColBatLandingToFood)
	if err != nil {
		return nil, fmt.Errorf("vigilance: %w", err)
	}
	if err := requireGroups(groups, "vigilance"); err != nil {
		return nil, err
	}
	return DescribeGroups(groups), nil
}

// Avoidance describes bat_landing_number for each rat_presence label. The
// interval frame must already carry the rat_presence column.
func Avoidance(intervals dataframe.DataFrame) ([]domain.GroupStats, error) {
	groups, err := GroupValues(intervals, dataset.ColRatPresence, dataset.ColBatLandingNumber)
	if err != nil {
		return nil, fmt.Errorf("avoidance: %w", err)
	}
	if err := requireGroups(groups, "avoidance"); err != nil {
		return nil, err
	}
	return DescribeGroups(groups), nil
}

// HabitsByRisk cross-tabulates habit against risk. Absent combinations count
// zero. Rows are ordered by their counts in each risk group, descending, in
// group order, and then by habit name.
func HabitsByRisk(landings dataframe.DataFrame) (domain.HabitTable, error) {
	table := domain.HabitTable{GroupColumn: dataset.ColRisk}
	if err := dataset.RequireColumns(landings, dataset.Landings.Name, dataset.ColHabit, dataset.ColRisk); err != nil {
		return table, fmt.Errorf("habits: %w", err)
	}

	habits, habitOK := keyStrings(landings.Col(dataset.ColHabit))
	risks, riskOK := keyStrings(landings.Col(dataset.ColRisk))

	counts := make(map[string]map[string]int)
	seenRisk := make(map[string]bool)
	for i := range habits {
		if !habitOK[i] || !riskOK[i] {
			continue
		}
		if counts[habits[i]] == nil {
			counts[habits[i]] = make(map[string]int)
		}
		counts[habits[i]][risks[i]]++
		seenRisk[risks[i]] = true
	}

	for r := range seenRisk {
		table.Groups = append(table.Groups, r)
	}
	sort.Slice(table.Groups, func(i, j int) bool { return lessKey(table.Groups[i], table.Groups[j]) })

	for habit, byRisk := range counts {
		row := domain.HabitRow{Habit: habit, Counts: make([]int, len(table.Groups))}
		for j, r := range table.Groups {
			row.Counts[j] = byRisk[r]
		}
		table.Rows = append(table.Rows, row)
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		a, b := table.Rows[i], table.Rows[j]
		for k := range a.Counts {
			if a.Counts[k] != b.Counts[k] {
				return a.Counts[k] > b.Counts[k]
			}
		}
		return a.Habit < b.Habit
	})

	if len(table.Rows) == 0 {
		return table, fmt.Errorf("habits: no rows: %w", apperrors.ErrEmptyDataset)
	}
	return table, nil
}
