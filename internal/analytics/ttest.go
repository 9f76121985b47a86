package analytics

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"batcli/internal/dataset"
	"batcli/pkg/contracts/domain"
)

// TTestOptions configures RunTTest
type TTestOptions struct {
	EqualVar bool    // pooled-variance Student test; false selects Welch
	Alpha    float64 // significance level
}

// TTest runs an independent two-sample t-test of a against b, two-sided.
// NaN values are omitted. Either sample with fewer than two values yields NaN
// for T, P and DF.
func TTest(a, b []float64, equalVar bool) domain.TTestResult {
	a, b = dropNaN(a), dropNaN(b)
	nan := domain.Number(math.NaN())
	res := domain.TTestResult{
		N1:       len(a),
		N2:       len(b),
		Mean1:    nan,
		Mean2:    nan,
		T:        nan,
		P:        nan,
		DF:       nan,
		EqualVar: equalVar,
	}
	if len(a) > 0 {
		res.Mean1 = domain.Number(stat.Mean(a, nil))
	}
	if len(b) > 0 {
		res.Mean2 = domain.Number(stat.Mean(b, nil))
	}
	if len(a) < 2 || len(b) < 2 {
		return res
	}

	n1, n2 := float64(len(a)), float64(len(b))
	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)

	var se, df float64
	if equalVar {
		df = n1 + n2 - 2
		pooled := ((n1-1)*v1 + (n2-1)*v2) / df
		se = math.Sqrt(pooled * (1/n1 + 1/n2))
	} else {
		q1, q2 := v1/n1, v2/n2
		se = math.Sqrt(q1 + q2)
		df = (q1 + q2) * (q1 + q2) / (q1*q1/(n1-1) + q2*q2/(n2-1))
	}

	t := (m1 - m2) / se
	res.T = domain.Number(t)
	res.DF = domain.Number(df)
	res.P = domain.Number(twoSidedP(t, df))
	return res
}

// twoSidedP returns P(|T| >= |t|) for Student's t with df degrees of freedom
func twoSidedP(t, df float64) float64 {
	if math.IsNaN(t) || math.IsNaN(df) {
		return math.NaN()
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return math.Min(1, 2*dist.Survival(math.Abs(t)))
}

// Verdict reports whether p is below alpha. A NaN p is never significant.
func Verdict(p, alpha float64) bool {
	return !math.IsNaN(p) && p < alpha
}

// RunTTest compares bat_landing_to_food between risk 0 and risk 1
func RunTTest(landings dataframe.DataFrame, opts TTestOptions) (domain.TTestResult, error) {
	groups, err := GroupValues(landings, dataset.ColRisk, dataset.ColBatLandingToFood)
	if err != nil {
		return domain.TTestResult{}, fmt.Errorf("ttest: %w", err)
	}

	res := TTest(Lookup(groups, "0"), Lookup(groups, "1"), opts.EqualVar)
	res.Measure = dataset.ColBatLandingToFood
	res.GroupColumn = dataset.ColRisk
	res.Group1 = "0"
	res.Group2 = "1"
	res.Alpha = opts.Alpha
	res.Significant = Verdict(res.P.Float(), opts.Alpha)
	return res, nil
}
