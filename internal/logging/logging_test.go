// Package logging provides tests for the action log, console logger and tail output.
package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman/internal/todo"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
}

func TestFormatEntry(t *testing.T) {
	task := todo.Task{ID: 3, Description: "buy milk", Done: true, Creator: "alice"}
	got := FormatEntry(fixedClock(), ActionComplete, task)
	want := "[2024-03-09 14:05:07] Choice: 3, Task: { id: 3, motacongviec: \"buy milk\", trangthai: true, nguoitao: \"alice\" }\n"
	if got != want {
		t.Errorf("FormatEntry:\ngot  %q\nwant %q", got, want)
	}
}

func TestNewActionLog(t *testing.T) {
	t.Run("empty path returns error", func(t *testing.T) {
		_, err := NewActionLog("")
		if err == nil {
			t.Fatal("expected error for empty path, got nil")
		}
		if !strings.Contains(err.Error(), "empty") {
			t.Errorf("expected empty path error, got %v", err)
		}
	})

	t.Run("does not create the file eagerly", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.log")
		if _, err := NewActionLog(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("log file should not exist yet, stat err = %v", err)
		}
	})
}

func TestActionLogAppend(t *testing.T) {
	t.Run("creates directory and file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log", "nested", "tasks.log")
		al, err := NewActionLog(path)
		if err != nil {
			t.Fatalf("NewActionLog failed: %v", err)
		}
		al.SetClock(fixedClock)

		if err := al.Append(ActionAdd, todo.Task{ID: 0, Description: "a", Creator: "x"}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log: %v", err)
		}
		want := "[2024-03-09 14:05:07] Choice: 1, Task: { id: 0, motacongviec: \"a\", trangthai: false, nguoitao: \"x\" }\n"
		if string(data) != want {
			t.Errorf("log contents:\ngot  %q\nwant %q", data, want)
		}
	})

	t.Run("appends without truncating", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.log")
		if err := os.WriteFile(path, []byte("existing line\n"), 0644); err != nil {
			t.Fatalf("seed log: %v", err)
		}
		al, err := NewActionLog(path)
		if err != nil {
			t.Fatalf("NewActionLog failed: %v", err)
		}
		al.SetClock(fixedClock)

		for i, action := range []Action{ActionList, ActionList} {
			task := todo.Task{ID: uint32(i), Description: "t", Creator: "c"}
			if err := al.Append(action, task); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log: %v", err)
		}
		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
		}
		if lines[0] != "existing line" {
			t.Errorf("first line overwritten: %q", lines[0])
		}
		if !strings.Contains(lines[2], "Choice: 4, Task: { id: 1,") {
			t.Errorf("unexpected last line: %q", lines[2])
		}
	})

	t.Run("unwritable path returns error", func(t *testing.T) {
		dir := t.TempDir()
		// A directory where the file should be.
		path := filepath.Join(dir, "tasks.log")
		if err := os.Mkdir(path, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		al, err := NewActionLog(path)
		if err != nil {
			t.Fatalf("NewActionLog failed: %v", err)
		}
		if err := al.Append(ActionAdd, todo.Task{}); err == nil {
			t.Error("expected error appending to a directory")
		}
	})
}

func TestActionString(t *testing.T) {
	tests := map[Action]string{
		ActionAdd:      "add",
		ActionDelete:   "delete",
		ActionComplete: "complete",
		ActionList:     "list",
		Action("9"):    "9",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("Action(%q).String() = %q, want %q", string(a), got, want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]log.Level{
		"debug":   log.DebugLevel,
		"DEBUG":   log.DebugLevel,
		"info":    log.InfoLevel,
		"":        log.WarnLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"err":     log.ErrorLevel,
		"fatal":   log.FatalLevel,
		"unknown": log.WarnLevel,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseLogFormatter(t *testing.T) {
	cases := map[string]log.Formatter{
		"json":   log.JSONFormatter,
		"logfmt": log.LogfmtFormatter,
		"text":   log.TextFormatter,
		"":       log.TextFormatter,
	}
	for in, want := range cases {
		if got := ParseLogFormatter(in); got != want {
			t.Errorf("ParseLogFormatter(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleFromConfig(&buf, "info", "logfmt", false, false)

	logger.Debug("hidden")
	logger.Info("saved tasks", "count", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered: %q", out)
	}
	if !strings.Contains(out, "saved tasks") || !strings.Contains(out, "count=2") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic or write anywhere.
	Discard().Error("dropped")
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.log")
	content := "line1\nline2\nline3\nline4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	t.Run("all lines", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, path, 0, false); err != nil {
			t.Fatalf("TailLog failed: %v", err)
		}
		if buf.String() != content {
			t.Errorf("got %q, want %q", buf.String(), content)
		}
	})

	t.Run("last n lines", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, path, 2, false); err != nil {
			t.Fatalf("TailLog failed: %v", err)
		}
		if buf.String() != "line3\nline4\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("n larger than file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, path, 10, false); err != nil {
			t.Fatalf("TailLog failed: %v", err)
		}
		if buf.String() != content {
			t.Errorf("got %q, want %q", buf.String(), content)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		err := TailLog(context.Background(), &buf, filepath.Join(t.TempDir(), "nope.log"), 0, false)
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("follow stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, path, 1, true); err != nil {
			t.Fatalf("TailLog failed: %v", err)
		}
		if buf.String() != "line4\n" {
			t.Errorf("got %q", buf.String())
		}
	})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTailLogFollowPicksUpAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.log")
	if err := os.WriteFile(path, []byte("first\n"), 0644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- TailLog(ctx, &out, path, 0, true)
	}()

	al, err := NewActionLog(path)
	if err != nil {
		t.Fatalf("NewActionLog failed: %v", err)
	}
	al.SetClock(fixedClock)
	if err := al.Append(ActionAdd, todo.Task{ID: 1, Description: "later", Creator: "x"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "later") {
		if time.Now().After(deadline) {
			t.Fatalf("appended line not followed, got %q", out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.HasPrefix(out.String(), "first\n") {
		t.Errorf("existing content missing: %q", out.String())
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("TailLog returned %v", err)
	}
}
