// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the user config dir and working directory at empty temp dirs
// and clears TASKMAN_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, env := range []string{EnvStore, EnvLog, EnvSchema, EnvLogLevel, EnvLogFormat, EnvLogTimestamps, EnvLogCaller} {
		t.Setenv(env, "")
	}
	wd := t.TempDir()
	t.Chdir(wd)
	// Resolve symlinks (macOS /var -> /private/var) so path comparisons hold.
	if resolved, err := os.Getwd(); err == nil {
		wd = resolved
	}
	return wd
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})
	return fs
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.StoreFile != DefaultStoreFile {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, DefaultStoreFile)
	}
	if cfg.LogFile != DefaultLogFile {
		t.Errorf("LogFile: got %q, want %q", cfg.LogFile, DefaultLogFile)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.SchemaFile != "" {
		t.Errorf("SchemaFile: got %q, want empty", cfg.SchemaFile)
	}
	for _, field := range configFields() {
		if got := cfg.Source(field); got != SourceDefault {
			t.Errorf("Source(%s): got %q, want default", field, got)
		}
	}
}

func TestLoadDefaultsResolvePaths(t *testing.T) {
	wd := isolate(t)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ProjectRoot != wd {
		t.Errorf("ProjectRoot: got %q, want %q", cfg.ProjectRoot, wd)
	}
	if want := filepath.Join(wd, "database", "tasks.json"); cfg.StoreFile != want {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, want)
	}
	if want := filepath.Join(wd, "log", "tasks.log"); cfg.LogFile != want {
		t.Errorf("LogFile: got %q, want %q", cfg.LogFile, want)
	}
	if len(cfg.Files) != 0 {
		t.Errorf("Files: got %v, want none", cfg.Files)
	}
}

func TestLoadPrecedence(t *testing.T) {
	wd := isolate(t)

	userDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), AppName)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	userFile := `store_file = "user.json"
log_file = "user.log"
log_level = "debug"
log_format = "json"
`
	if err := os.WriteFile(filepath.Join(userDir, "taskman.toml"), []byte(userFile), 0644); err != nil {
		t.Fatalf("write user config: %v", err)
	}

	projectFile := `store_file = "project.json"
log_file = "project.log"
`
	if err := os.WriteFile(filepath.Join(wd, "taskman.toml"), []byte(projectFile), 0644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	t.Setenv(EnvLog, "env.log")

	cfg, err := Load(newFlagSet(), []string{"-log-level", "error", "ls"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	checks := []struct {
		field  string
		got    string
		want   string
		source ConfigSource
	}{
		{"store_file", cfg.StoreFile, filepath.Join(wd, "project.json"), SourceProjFile},
		{"log_file", cfg.LogFile, filepath.Join(wd, "env.log"), SourceEnv},
		{"log_level", cfg.LogLevel, "error", SourceFlag},
		{"log_format", cfg.LogFormat, "json", SourceUserFile},
		{"schema_file", cfg.SchemaFile, "", SourceDefault},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.field, c.got, c.want)
		}
		if got := cfg.Source(c.field); got != c.source {
			t.Errorf("Source(%s): got %q, want %q", c.field, got, c.source)
		}
	}

	if len(cfg.Files) != 2 {
		t.Errorf("Files: got %v, want 2 entries", cfg.Files)
	}
}

func TestLoadHiddenProjectFile(t *testing.T) {
	wd := isolate(t)
	if err := os.WriteFile(filepath.Join(wd, ".taskman.toml"), []byte(`log_caller = true`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.LogCaller {
		t.Error("LogCaller: got false, want true")
	}
}

func TestLoadUnknownKeyWarns(t *testing.T) {
	wd := isolate(t)
	if err := os.WriteFile(filepath.Join(wd, "taskman.toml"), []byte("colour = \"blue\"\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "colour") {
		t.Errorf("Warnings: got %v", cfg.Warnings)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	wd := isolate(t)
	if err := os.WriteFile(filepath.Join(wd, "taskman.toml"), []byte("store_file = \n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(newFlagSet(), nil)
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
	if !strings.Contains(err.Error(), "project config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvStore, "/tmp/tasks.json")
	t.Setenv(EnvSchema, "schema.json")
	t.Setenv(EnvLogTimestamps, "yes")

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StoreFile != "/tmp/tasks.json" {
		t.Errorf("StoreFile: got %q", cfg.StoreFile)
	}
	if want := filepath.Join(cfg.ProjectRoot, "schema.json"); cfg.SchemaFile != want {
		t.Errorf("SchemaFile: got %q, want %q", cfg.SchemaFile, want)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if cfg.Source("log_timestamps") != SourceEnv {
		t.Errorf("Source(log_timestamps): got %q", cfg.Source("log_timestamps"))
	}
}

func TestLoadLeavesPositionalArgs(t *testing.T) {
	isolate(t)
	fs := newFlagSet()

	if _, err := Load(fs, []string{"-store", "x.json", "tail", "-n", "5"}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := fs.Args()
	want := []string{"tail", "-n", "5"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Args: got %v, want %v", got, want)
	}
}

func TestLoadRejectsEmptyStore(t *testing.T) {
	isolate(t)
	if _, err := Load(newFlagSet(), []string{"-store", ""}); err == nil {
		t.Error("expected error for empty store path")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TASKMAN_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/tasks.json", filepath.Join(home, "tasks.json")},
		{"$TASKMAN_TEST_DIR/tasks.json", "/data/tasks.json"},
		{"plain/path", "plain/path"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", " yes ", "on"} {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0", "false", "no", "off", "maybe"} {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q) = true, want false", s)
		}
	}
}
