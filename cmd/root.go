// Package cmd implements the CLI command structure for taskman.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman/internal/config"
	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/loop"
	"github.com/nibzard/taskman/internal/todo"
	"github.com/nibzard/taskman/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Run executes the taskman CLI on the process standard streams.
func Run(ctx context.Context, args []string) error {
	return RunWithStreams(ctx, args, StdStreams())
}

// RunWithStreams executes the taskman CLI on the given streams.
func RunWithStreams(ctx context.Context, args []string, s Streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskman", flag.ContinueOnError)
	fs.SetOutput(s.Err)
	fs.Usage = func() {
		printUsage(fs, s.Err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, s.Out)
		return nil
	}
	if *showVersion {
		return versionCommand(s.Out)
	}

	logger := logging.NewConsoleFromConfig(s.Err, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	for _, w := range cfg.Warnings {
		logger.Warn("config", "warning", w)
	}
	logger.Debug("config loaded", "files", cfg.Files, "store", cfg.StoreFile, "log", cfg.LogFile)

	// Determine the subcommand
	// If no args or first arg is a flag, use "menu" as default
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	// Execute the subcommand
	switch subcommand {
	case "menu":
		return menuCommand(ctx, cfg, logger, s, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, logger, remainingArgs)
	case "ls":
		return lsCommand(cfg, s.Out, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, s.Out, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, s.Out, remainingArgs)
	case "version":
		return versionCommand(s.Out)
	case "help":
		printUsage(fs, s.Out)
		return nil
	default:
		fmt.Fprintf(s.Err, "Unknown command: %s\n", subcommand)
		printUsage(fs, s.Err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newSession opens the configured store and action log.
func newSession(cfg *config.Config, logger *log.Logger) (*loop.Session, error) {
	store := todo.NewStore(cfg.StoreFile, todo.StoreOptions{SchemaPath: cfg.SchemaFile})
	actions, err := logging.NewActionLog(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	return loop.NewSession(store, actions, logger)
}

// menuCommand runs the numbered menu over the standard streams.
func menuCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, s Streams, args []string) error {
	fs := flag.NewFlagSet("taskman menu", flag.ContinueOnError)
	fs.SetOutput(s.Err)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	session, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	return loop.New(session, s.In, s.Out, s.Err).Run(ctx)
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("taskman tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	session, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, session)
}

// lsCommand prints tasks without recording anything in the action log.
func lsCommand(cfg *config.Config, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("taskman ls", flag.ContinueOnError)
	statusFilter := fs.String("status", "", "Filter by status (done|pending)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) >= 1 && *statusFilter == "" {
		*statusFilter = remaining[0]
		remaining = remaining[1:]
	}
	if len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	match, err := statusMatcher(*statusFilter)
	if err != nil {
		return err
	}

	list, err := todo.NewStore(cfg.StoreFile, todo.StoreOptions{SchemaPath: cfg.SchemaFile}).Load()
	if err != nil {
		return fmt.Errorf("loading task file: %w", err)
	}

	var tasks []todo.Task
	for _, t := range list.Tasks() {
		if match(t) {
			tasks = append(tasks, t)
		}
	}
	printTaskList(w, tasks)
	return nil
}

// statusMatcher returns a filter for the ls status argument.
func statusMatcher(status string) (func(todo.Task) bool, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "all":
		return func(todo.Task) bool { return true }, nil
	case "done":
		return func(t todo.Task) bool { return t.Done }, nil
	case "pending":
		return func(t todo.Task) bool { return !t.Done }, nil
	default:
		return nil, fmt.Errorf("invalid status %q (expected done|pending)", status)
	}
}

// printTaskList prints tasks in list order.
func printTaskList(w io.Writer, tasks []todo.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, loop.FormatTask(t))
	}
}

// tailCommand prints the action log.
func tailCommand(ctx context.Context, cfg *config.Config, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("taskman tail", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n < 0 {
		return fmt.Errorf("-n must not be negative")
	}

	if _, err := os.Stat(cfg.LogFile); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(w, "No action log at %s.\n", cfg.LogFile)
		return nil
	}

	if *follow {
		fmt.Fprintf(w, "Tailing: %s\n", cfg.LogFile)
		fmt.Fprintln(w, "(Ctrl+C to stop)")
		fmt.Fprintln(w)
	}

	return logging.TailLog(ctx, w, cfg.LogFile, *n, *follow)
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskman version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskman - A personal task list with an action log")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskman [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu          Interactive numbered menu (default command)")
	fmt.Fprintln(w, "  tui           Launch terminal UI")
	fmt.Fprintln(w, "  ls [status]   List tasks without logging (status: done|pending)")
	fmt.Fprintln(w, "  tail          Print the action log")
	fmt.Fprintln(w, "  doctor        Check config, task file and log path")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status (done|pending)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options (use with 'doctor' command):")
	fmt.Fprintln(w, "  -v    Show config sources and every task")
}
