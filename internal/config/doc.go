// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file ($XDG_CONFIG_HOME/taskman/taskman.toml or OS-specific config directory)
// 3. Project config file (taskman.toml or .taskman.toml in the working directory)
// 4. Environment variables (TASKMAN_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// Example taskman.toml:
//
//	store_file = "database/tasks.json"
//	log_file   = "log/tasks.log"
//	log_level  = "info"
package config
