// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskman/internal/loop"
	"github.com/nibzard/taskman/internal/todo"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	footerStyle   = lipgloss.NewStyle().Faint(true)
)

// ErrNoTTY is returned by RunTUI when stdout is not a terminal.
var ErrNoTTY = errors.New("tui requires a TTY")

// RunTUI starts the terminal UI over session. It requires stdout to be a TTY.
// A fatal store or log error ends the program and is returned.
func RunTUI(ctx context.Context, session *loop.Session) error {
	if !IsTTY(os.Stdout) {
		return ErrNoTTY
	}
	return runProgram(ctx, newTUIModel(session))
}

func runProgram(ctx context.Context, model *tuiModel) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeDescription
	modeCreator
)

type tuiModel struct {
	session     *loop.Session
	tasks       []todo.Task
	cursor      int
	mode        inputMode
	input       textinput.Model
	description string
	message     string
	messageErr  bool
	fatalErr    error
	showHelp    bool
}

func newTUIModel(session *loop.Session) *tuiModel {
	input := textinput.New()
	input.CharLimit = 256
	input.Width = 48
	return &tuiModel{
		session: session,
		input:   input,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode != modeBrowse {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode != modeBrowse {
		return m.updateInput(key)
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "j", "down":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.mode = modeDescription
		m.description = ""
		m.input.Reset()
		m.input.Placeholder = "description"
		m.setMessage("", false)
		return m, m.input.Focus()
	case "c", " ":
		if task, ok := m.selected(); ok {
			done, err := m.session.Complete(task.ID)
			if m.handle(err) {
				return m, tea.Quit
			}
			if err == nil {
				m.setMessage(fmt.Sprintf("Completed task %d.", done.ID), false)
			}
		}
	case "d":
		if task, ok := m.selected(); ok {
			removed, err := m.session.Delete(task.ID)
			if m.handle(err) {
				return m, tea.Quit
			}
			if err == nil {
				m.setMessage(fmt.Sprintf("Deleted task %d.", removed.ID), false)
			}
		}
	case "l":
		tasks, err := m.session.List()
		if m.handle(err) {
			return m, tea.Quit
		}
		if err == nil {
			m.setMessage(fmt.Sprintf("Listed %d tasks.", len(tasks)), false)
		}
	}
	return m, nil
}

func (m *tuiModel) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		m.setMessage("Add cancelled.", false)
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		if m.mode == modeDescription {
			m.description = value
			m.mode = modeCreator
			m.input.Reset()
			m.input.Placeholder = "creator"
			return m, nil
		}
		m.mode = modeBrowse
		m.input.Blur()
		task, err := m.session.Add(m.description, value)
		if m.handle(err) {
			return m, tea.Quit
		}
		if err == nil {
			m.cursor = len(m.tasks) - 1
			m.setMessage(fmt.Sprintf("Added task %d.", task.ID), false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// handle refreshes the view after an operation and reports whether err is
// fatal. User errors are shown inline.
func (m *tuiModel) handle(err error) bool {
	m.refresh()
	if err == nil {
		return false
	}
	if loop.IsUserError(err) {
		m.setMessage(err.Error(), true)
		return false
	}
	m.fatalErr = err
	return true
}

func (m *tuiModel) refresh() {
	m.tasks = m.session.Tasks()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if len(m.tasks) == 0 {
		m.setMessage("No task selected.", true)
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *tuiModel) setMessage(msg string, isErr bool) {
	m.message = msg
	m.messageErr = isErr
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	writeTasks(&b, m.tasks, m.cursor)
	if m.mode != modeBrowse {
		writePrompt(&b, m.mode, m.input.View())
	}
	writeMessage(&b, m.message, m.messageErr)
	writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Task Manager") + "\n\n")
}

func writeTasks(b *strings.Builder, tasks []todo.Task, cursor int) {
	if len(tasks) == 0 {
		b.WriteString("  No tasks. Press a to add one.\n\n")
		return
	}
	pending := 0
	for _, t := range tasks {
		if !t.Done {
			pending++
		}
	}
	b.WriteString(fmt.Sprintf("  %d tasks, %d pending\n\n", len(tasks), pending))
	for i, t := range tasks {
		line := formatTask(t)
		switch {
		case i == cursor:
			b.WriteString(selectedStyle.Render("> " + line))
		case t.Done:
			b.WriteString(doneStyle.Render("  " + line))
		default:
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writePrompt(b *strings.Builder, mode inputMode, view string) {
	label := "Description"
	if mode == modeCreator {
		label = "Creator"
	}
	b.WriteString(fmt.Sprintf("%s: %s\n", label, view))
	b.WriteString(footerStyle.Render("enter to confirm, esc to cancel") + "\n\n")
}

func writeMessage(b *strings.Builder, msg string, isErr bool) {
	if msg == "" {
		return
	}
	if isErr {
		b.WriteString(errorStyle.Render("Error: "+msg) + "\n\n")
		return
	}
	b.WriteString(infoStyle.Render(msg) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  a            Add a task\n")
	b.WriteString("  c, space     Complete the selected task\n")
	b.WriteString("  d            Delete the selected task\n")
	b.WriteString("  l            List tasks (records each in the action log)\n")
	b.WriteString("  j, down      Move down\n")
	b.WriteString("  k, up        Move up\n")
	b.WriteString("  ?            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render("Press ? for help | q to quit") + "\n")
}

func formatTask(t todo.Task) string {
	mark := " "
	if t.Done {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %d: %s (%s)", mark, t.ID, t.Description, t.Creator)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
