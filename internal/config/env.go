package config

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvStore         = "TASKMAN_STORE"
	EnvLog           = "TASKMAN_LOG"
	EnvSchema        = "TASKMAN_SCHEMA"
	EnvLogLevel      = "TASKMAN_LOG_LEVEL"
	EnvLogFormat     = "TASKMAN_LOG_FORMAT"
	EnvLogTimestamps = "TASKMAN_LOG_TIMESTAMPS"
	EnvLogCaller     = "TASKMAN_LOG_CALLER"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	setString := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			cfg.setSource(field, SourceEnv)
		}
	}
	setBool := func(env, field string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = boolFromString(v)
			cfg.setSource(field, SourceEnv)
		}
	}

	setString(EnvStore, "store_file", &cfg.StoreFile)
	setString(EnvLog, "log_file", &cfg.LogFile)
	setString(EnvSchema, "schema_file", &cfg.SchemaFile)
	setString(EnvLogLevel, "log_level", &cfg.LogLevel)
	setString(EnvLogFormat, "log_format", &cfg.LogFormat)
	setBool(EnvLogTimestamps, "log_timestamps", &cfg.LogTimestamps)
	setBool(EnvLogCaller, "log_caller", &cfg.LogCaller)
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
