package config

import "flag"

// flagFields maps global flag names to config field names.
var flagFields = map[string]string{
	"store":          "store_file",
	"log":            "log_file",
	"schema":         "schema_file",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args.
// Values from earlier layers are used as flag defaults.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet(AppName, flag.ContinueOnError)
	}

	fs.StringVar(&cfg.StoreFile, "store", cfg.StoreFile, "Path to the task store file")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Path to the action log file")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to a JSON Schema for the store file (default: built in)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Diagnostic log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Diagnostic log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in diagnostic logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in diagnostic logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			cfg.setSource(field, SourceFlag)
		}
	})
	return nil
}
