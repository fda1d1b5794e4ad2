// Package config provides configuration loading for sbaclean.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values (Default)
//	2. A YAML file (--config, or sbaclean.yaml / configs/sbaclean.yaml)
//	3. A .env file in the working directory
//	4. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern SBA_<SECTION>_<KEY>:
//
//	SBA_INPUT_DIR=tmp-etl/sba
//	SBA_INPUT_HEADER_ROW=4
//	SBA_OUTPUT_DELIMITER='|'
//	SBA_PIPELINE_FAIL_FAST=true
//	SBA_LOGGING_LEVEL=debug
//	SBA_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/sbaclean.prom
//
// # YAML
//
//	input:
//	  dir: tmp-etl/sba
//	  header_row: 4
//	output:
//	  delimiter: "|"
//	pipeline:
//	  summary_file: tmp-etl/sba/summary.json
//	validation:
//	  check_columns: true
package config
