// Package dataprocessing prepares the loaded datasets for analysis.
//
// A Cleaner fills missing habit labels in the landing observations, parses
// the four timestamp columns and drops every row where one of them fails to
// parse, rewriting the survivors in a canonical layout. EngineerFeatures
// then derives rat_presence_duration in seconds, and LabelRatPresence tags
// each 30-minute interval as "Rat Present" or "No Rat".
//
//	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.DefaultCleanerConfig())
//	landings, report, err := cleaner.CleanLandings(ctx, landings)
//	if err != nil {
//	    return err
//	}
//	landings, err = dataprocessing.EngineerFeatures(landings)
package dataprocessing
