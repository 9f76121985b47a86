// Package analytics computes the grouped statistics and the hypothesis test
// of the bat foraging analysis.
//
// The functions are pure: they take gota frames or plain float slices and
// return domain report types. Missing values are skipped everywhere, and
// groups come back ordered numerically when every key is a number and
// lexically otherwise.
//
//	vig, err := analytics.Vigilance(landings)
//	habits, err := analytics.HabitsByRisk(landings)
//	ttest, err := analytics.RunTTest(landings, analytics.TTestOptions{EqualVar: true, Alpha: 0.05})
package analytics
