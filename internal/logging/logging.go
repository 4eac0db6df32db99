// Package logging writes the action log, the diagnostic console log, and tail
// output.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nibzard/taskman/internal/todo"
)

// Action is the menu code recorded for a logged event.
type Action string

const (
	ActionAdd      Action = "1"
	ActionDelete   Action = "2"
	ActionComplete Action = "3"
	ActionList     Action = "4"
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionDelete:
		return "delete"
	case ActionComplete:
		return "complete"
	case ActionList:
		return "list"
	default:
		return string(a)
	}
}

const timestampLayout = "2006-01-02 15:04:05"

// ActionLog appends one line per action to a text file.
// The file is opened for each append and is never truncated or rotated.
type ActionLog struct {
	Path string
	now  func() time.Time
}

// NewActionLog creates an action log writing to path.
func NewActionLog(path string) (*ActionLog, error) {
	if path == "" {
		return nil, fmt.Errorf("action log path is empty")
	}
	return &ActionLog{Path: path, now: time.Now}, nil
}

// SetClock replaces the time source used for timestamps.
func (a *ActionLog) SetClock(now func() time.Time) {
	a.now = now
}

// Append writes a record of action on task, creating the file if needed.
func (a *ActionLog) Append(action Action, task todo.Task) error {
	line := FormatEntry(a.now().Local(), action, task)

	if dir := filepath.Dir(a.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}

	file, err := os.OpenFile(a.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return fmt.Errorf("write log file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// FormatEntry renders a single action log line, including the newline.
// Text fields are written verbatim between quotes.
func FormatEntry(ts time.Time, action Action, task todo.Task) string {
	return fmt.Sprintf("[%s] Choice: %s, Task: { id: %d, motacongviec: \"%s\", trangthai: %t, nguoitao: \"%s\" }\n",
		ts.Format(timestampLayout),
		string(action),
		task.ID,
		task.Description,
		task.Done,
		task.Creator,
	)
}
