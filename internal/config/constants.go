package config

// Application constants
const (
	AppName = "sbaclean"

	// EnvPrefix namespaces environment variables, e.g. SBA_INPUT_DIR
	EnvPrefix = "SBA"

	DefaultInputDir  = "tmp-etl/sba"
	DefaultHeaderRow = 4
	DefaultDelimiter = "|"
	DefaultLogFile   = "logs/sbaclean.log"
)
