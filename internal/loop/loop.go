package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nibzard/taskman/internal/todo"
)

// Menu choices.
const (
	ChoiceAdd      = "1"
	ChoiceDelete   = "2"
	ChoiceComplete = "3"
	ChoiceList     = "4"
	ChoiceExit     = "5"
)

const menuText = `
Task Manager
1. Add task
2. Delete task
3. Complete task
4. List tasks
5. Exit
Choose an option: `

// errInputClosed ends the loop when input runs out mid-operation.
var errInputClosed = errors.New("input closed")

// Loop drives a Session from line-oriented console input.
type Loop struct {
	session *Session
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
}

// New creates a menu loop reading from in and writing results to out.
// User-input errors are written to errOut.
func New(session *Session, in io.Reader, out, errOut io.Writer) *Loop {
	return &Loop{
		session: session,
		in:      bufio.NewReader(in),
		out:     out,
		errOut:  errOut,
	}
}

// Run shows the menu and dispatches choices until exit, end of input or
// context cancellation. Only fatal I/O errors are returned.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(l.out, menuText)
		choice, err := l.readLine()
		if err != nil {
			if errors.Is(err, errInputClosed) {
				fmt.Fprintln(l.out)
				return nil
			}
			return err
		}

		exit, err := l.dispatch(choice)
		if errors.Is(err, errInputClosed) {
			fmt.Fprintln(l.out)
			return nil
		}
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

func (l *Loop) dispatch(choice string) (bool, error) {
	switch choice {
	case ChoiceAdd:
		return false, l.add()
	case ChoiceDelete:
		return false, l.delete()
	case ChoiceComplete:
		return false, l.complete()
	case ChoiceList:
		return false, l.list()
	case ChoiceExit:
		fmt.Fprintln(l.out, "Goodbye!")
		return true, nil
	default:
		fmt.Fprintf(l.errOut, "Invalid choice %q, please enter 1-5.\n", choice)
		return false, nil
	}
}

func (l *Loop) add() error {
	description, err := l.prompt("Task description: ")
	if err != nil {
		return err
	}
	creator, err := l.prompt("Creator: ")
	if err != nil {
		return err
	}

	task, err := l.session.Add(description, creator)
	if err != nil {
		return l.report(err)
	}
	fmt.Fprintf(l.out, "Added task %d.\n", task.ID)
	return nil
}

func (l *Loop) delete() error {
	id, ok, err := l.promptID("Task id to delete: ")
	if err != nil || !ok {
		return err
	}

	if _, err := l.session.Delete(id); err != nil {
		return l.report(err)
	}
	fmt.Fprintf(l.out, "Deleted task %d.\n", id)
	return nil
}

func (l *Loop) complete() error {
	id, ok, err := l.promptID("Task id to complete: ")
	if err != nil || !ok {
		return err
	}

	if _, err := l.session.Complete(id); err != nil {
		return l.report(err)
	}
	fmt.Fprintf(l.out, "Completed task %d.\n", id)
	return nil
}

func (l *Loop) list() error {
	tasks, err := l.session.List()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(l.out, "No tasks.")
		return nil
	}
	var b strings.Builder
	for _, task := range tasks {
		b.WriteString(FormatTask(task))
		b.WriteString("\n")
	}
	fmt.Fprint(l.out, b.String())
	return nil
}

// FormatTask renders a task as a single list line.
func FormatTask(t todo.Task) string {
	return fmt.Sprintf("%d: %s [%s] - Creator: %s", t.ID, t.Description, t.StatusLabel(), t.Creator)
}

// report prints user errors and passes everything else through.
func (l *Loop) report(err error) error {
	if IsUserError(err) {
		fmt.Fprintf(l.errOut, "Error: %v\n", err)
		return nil
	}
	return err
}

func (l *Loop) prompt(label string) (string, error) {
	fmt.Fprint(l.out, label)
	return l.readLine()
}

// promptID reads an unsigned id. ok is false when the input was not a valid id.
func (l *Loop) promptID(label string) (uint32, bool, error) {
	text, err := l.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, err := ParseID(text)
	if err != nil {
		fmt.Fprintf(l.errOut, "Invalid id %q.\n", text)
		return 0, false, nil
	}
	return id, true, nil
}

// readLine returns the next line with surrounding whitespace removed.
// A final line without a newline is still returned; errInputClosed follows.
func (l *Loop) readLine() (string, error) {
	line, err := l.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line != "" {
				return strings.TrimSpace(line), nil
			}
			return "", errInputClosed
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ParseID parses a task id as an unsigned 32-bit integer.
func ParseID(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
