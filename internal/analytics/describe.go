package analytics

import (
	"math"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"batcli/pkg/contracts/domain"
)

// Describe summarizes values. Std is the sample standard deviation
// (n-1 denominator) and is NaN below two values; every statistic is NaN for
// an empty slice.
func Describe(group string, values []float64) domain.GroupStats {
	values = dropNaN(values)
	nan := domain.Number(math.NaN())
	gs := domain.GroupStats{
		Group:  group,
		Count:  len(values),
		Mean:   nan,
		Median: nan,
		Std:    nan,
		Min:    nan,
		Max:    nan,
	}
	if len(values) == 0 {
		return gs
	}

	gs.Mean = domain.Number(stat.Mean(values, nil))
	gs.Median = domain.Number(series.Floats(values).Median())
	gs.Min = domain.Number(floats.Min(values))
	gs.Max = domain.Number(floats.Max(values))
	if len(values) > 1 {
		gs.Std = domain.Number(stat.StdDev(values, nil))
	}
	return gs
}

// DescribeGroups runs Describe over each group in order
func DescribeGroups(groups []Group) []domain.GroupStats {
	out := make([]domain.GroupStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, Describe(g.Key, g.Values))
	}
	return out
}

func dropNaN(values []float64) []float64 {
	clean := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	return clean
}
