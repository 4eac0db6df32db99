package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nibzard/taskman/internal/config"
	"github.com/nibzard/taskman/internal/loop"
	"github.com/nibzard/taskman/internal/todo"
)

// doctorCommand checks config, the schema, the task file and the log path.
func doctorCommand(cfg *config.Config, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("taskman doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Fprintln(w, "Taskman Doctor")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintf(w, "Project root: %s\n", cfg.ProjectRoot)
	if len(cfg.Files) == 0 {
		fmt.Fprintln(w, "  Config files: none (defaults)")
	}
	for _, f := range cfg.Files {
		fmt.Fprintf(w, "  Config file: %s\n", f)
	}
	for _, warning := range cfg.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if *verbose {
		writeConfigSources(w, cfg)
	}
	fmt.Fprintln(w)

	store := todo.NewStore(cfg.StoreFile, todo.StoreOptions{SchemaPath: cfg.SchemaFile})

	// Schema
	if cfg.SchemaFile == "" {
		fmt.Fprintln(w, "Schema: embedded")
		fmt.Fprintln(w, "  ✅ OK")
	} else {
		fmt.Fprintf(w, "Schema file: %s\n", cfg.SchemaFile)
		if errs := store.Validate([]byte("[]")); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(w, "  ❌ %v\n", e)
			}
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
	}
	fmt.Fprintln(w)

	// Task file
	fmt.Fprintf(w, "Task file: %s\n", cfg.StoreFile)
	if !checkTaskFile(w, store, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Action log
	fmt.Fprintf(w, "Action log: %s\n", cfg.LogFile)
	if !checkLogFile(w, cfg.LogFile) {
		allOK = false
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Taskman may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func writeConfigSources(w io.Writer, cfg *config.Config) {
	values := []struct {
		field string
		value any
	}{
		{"store_file", cfg.StoreFile},
		{"log_file", cfg.LogFile},
		{"schema_file", cfg.SchemaFile},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
	}
	for _, v := range values {
		fmt.Fprintf(w, "  %-15s %-30v (%s)\n", v.field, v.value, cfg.Source(v.field))
	}
}

func checkTaskFile(w io.Writer, store *todo.Store, verbose bool) bool {
	info, err := os.Stat(store.Path())
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first change)")
			return true
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if errs := store.Validate(data); len(errs) > 0 {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range errs {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}

	list, err := store.Load()
	if err != nil {
		fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")
	fmt.Fprintf(w, "  Tasks: %d\n", list.Len())
	if verbose {
		for _, t := range list.Tasks() {
			fmt.Fprintf(w, "    - %s\n", loop.FormatTask(t))
		}
	}
	return true
}

func checkLogFile(w io.Writer, path string) bool {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			fmt.Fprintln(w, "  ❌ Error: path is a directory")
			return false
		}
		fmt.Fprintln(w, "  ✅ OK")
		return true
	}
	if !os.IsNotExist(err) {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}

	// The file is created on first append; its directory must be creatable.
	dir := filepath.Dir(path)
	if dirInfo, err := os.Stat(dir); err == nil && !dirInfo.IsDir() {
		fmt.Fprintf(w, "  ❌ Error: %s is not a directory\n", dir)
		return false
	}
	fmt.Fprintln(w, "  ⚠️  Not found (will be created on first action)")
	return true
}
