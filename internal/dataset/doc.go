// Package dataset loads the two bat foraging CSV datasets into gota
// dataframes and checks them against their column schemas.
//
// Landings (dataset 1) holds one row per observed bat landing; Intervals
// (dataset 2) holds one row per 30-minute observation window. Missing cells
// are read as NaN. A missing file is reported as errors.MissingFileError and
// is tolerated by callers; any other read failure is fatal.
package dataset
