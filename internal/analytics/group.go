package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"batcli/internal/dataset"
	apperrors "batcli/internal/errors"
)

// Group is the non-missing values of one measure for one group key
type Group struct {
	Key    string
	Values []float64
}

// GroupValues splits the value column of df by the key column. Rows with a
// missing key are ignored; missing values are dropped but the group is kept,
// so a group may have no values.
func GroupValues(df dataframe.DataFrame, key, value string) ([]Group, error) {
	if err := dataset.RequireColumns(df, "frame", key, value); err != nil {
		return nil, err
	}

	keys, present := keyStrings(df.Col(key))
	values := df.Col(value).Float()

	index := make(map[string]int)
	var groups []Group
	for i, k := range keys {
		if !present[i] {
			continue
		}
		idx, ok := index[k]
		if !ok {
			idx = len(groups)
			index[k] = idx
			groups = append(groups, Group{Key: k})
		}
		if v := values[i]; !math.IsNaN(v) {
			groups[idx].Values = append(groups[idx].Values, v)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return lessKey(groups[i].Key, groups[j].Key)
	})
	return groups, nil
}

// keyStrings formats each element of s as a group key. Numeric keys use the
// shortest representation so 1.0 groups as "1".
func keyStrings(s series.Series) ([]string, []bool) {
	keys := make([]string, s.Len())
	present := make([]bool, s.Len())

	switch s.Type() {
	case series.Float, series.Int:
		for i, v := range s.Float() {
			if math.IsNaN(v) {
				continue
			}
			keys[i] = strconv.FormatFloat(v, 'f', -1, 64)
			present[i] = true
		}
	default:
		for i := 0; i < s.Len(); i++ {
			e := s.Elem(i)
			if e.IsNA() {
				continue
			}
			keys[i] = e.String()
			present[i] = true
		}
	}
	return keys, present
}

// lessKey orders numeric keys numerically and before text keys, and text
// keys lexically
func lessKey(a, b string) bool {
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return x < y
	case errA == nil || errB == nil:
		return errA == nil
	default:
		return a < b
	}
}

// Lookup returns the values of the group with key, or nil
func Lookup(groups []Group, key string) []float64 {
	for _, g := range groups {
		if g.Key == key {
			return g.Values
		}
	}
	return nil
}

func requireGroups(groups []Group, what string) error {
	if len(groups) == 0 {
		return fmt.Errorf("%s: no groups: %w", what, apperrors.ErrEmptyDataset)
	}
	return nil
}
