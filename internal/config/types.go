package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultStoreFile = "database/tasks.json"
	DefaultLogFile   = "log/tasks.log"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for taskman.
type Config struct {
	// Paths
	StoreFile  string `toml:"store_file"`
	LogFile    string `toml:"log_file"`
	SchemaFile string `toml:"schema_file"`

	// Diagnostic logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`

	// Files that were read, in load order.
	Files []string `toml:"-"`

	// Warnings collected while loading, such as unknown keys.
	Warnings []string `toml:"-"`

	sources map[string]ConfigSource
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"store_file",
		"log_file",
		"schema_file",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Source reports where the named field's value came from.
func (c *Config) Source(field string) ConfigSource {
	if s, ok := c.sources[field]; ok {
		return s
	}
	return SourceDefault
}

func (c *Config) setSource(field string, source ConfigSource) {
	if c.sources == nil {
		c.sources = make(map[string]ConfigSource)
	}
	c.sources[field] = source
}

func setDefaults(cfg *Config) {
	cfg.StoreFile = DefaultStoreFile
	cfg.LogFile = DefaultLogFile
	cfg.SchemaFile = ""
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
	for _, field := range configFields() {
		cfg.setSource(field, SourceDefault)
	}
}
