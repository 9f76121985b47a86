// Package shared holds helpers used by more than one batcli package.
//
// The testutil subpackage provides the small landing and interval CSV
// fixtures the pipeline tests share, plus a slog handler that captures
// records for assertions:
//
//	func TestSomething(t *testing.T) {
//	    landings, intervals := testutil.WriteDatasets(t)
//	    logger, logs := testutil.NewTestLogger(t)
//	    // ...
//	    logs.AssertContains(t, slog.LevelInfo, "dataset loaded")
//	}
package shared
