// Package config provides configuration management for batcli.
//
// # Configuration Sources
//
// Configuration is merged from the following sources, later ones winning:
//
//	1. Default values
//	2. A YAML file (--config, BAT_CONFIG, or ./batcli.yaml when present)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern BAT_<SECTION>_<KEY>:
//
//	BAT_INPUT_LANDINGS_PATH=data/dataset1.csv
//	BAT_ANALYSIS_ALPHA=0.01
//	BAT_OUTPUT_DIR=out
//	BAT_LOGGING_LEVEL=debug
//	BAT_SERVER_PORT=9000
//
// # Example File
//
//	input:
//	  landings_path: dataset1.csv
//	  intervals_path: dataset2.csv
//	analysis:
//	  alpha: 0.05
//	  equal_var: true
//	output:
//	  dir: reports
//	  excel: false
//
// The merged result is validated before it is returned; validation failures
// wrap ErrInvalidConfig.
package config
