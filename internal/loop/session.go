package loop

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/todo"
)

// Store loads and persists the task list.
type Store interface {
	Load() (*todo.List, error)
	Save(l *todo.List) error
}

// ActionLogger records actions performed on tasks.
type ActionLogger interface {
	Append(action logging.Action, task todo.Task) error
}

// Session owns the in-memory task list for the lifetime of the process.
// Every mutation is logged and then persisted with a full rewrite.
type Session struct {
	list    *todo.List
	store   Store
	actions ActionLogger
	logger  *log.Logger
}

// NewSession loads the task list from store.
func NewSession(store Store, actions ActionLogger, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	list, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	logger.Debug("loaded tasks", "count", list.Len())
	return &Session{
		list:    list,
		store:   store,
		actions: actions,
		logger:  logger,
	}, nil
}

// Tasks returns the current tasks in list order without logging.
func (s *Session) Tasks() []todo.Task {
	return s.list.Tasks()
}

// Add creates a pending task with the next id.
// The new task is logged before it is appended and saved.
func (s *Session) Add(description, creator string) (todo.Task, error) {
	task, err := s.list.New(description, creator)
	if err != nil {
		return todo.Task{}, err
	}
	if err := s.record(logging.ActionAdd, task); err != nil {
		return todo.Task{}, err
	}
	s.list.Append(task)
	if err := s.save(); err != nil {
		return todo.Task{}, err
	}
	return task, nil
}

// Delete removes the task with the given id.
// The task is logged before removal. When nothing matches, the list and the
// store file are left untouched and the error wraps todo.ErrNotFound.
func (s *Session) Delete(id uint32) (todo.Task, error) {
	task, ok := s.list.Get(id)
	if !ok {
		return todo.Task{}, fmt.Errorf("id %d: %w", id, todo.ErrNotFound)
	}
	if err := s.record(logging.ActionDelete, task); err != nil {
		return todo.Task{}, err
	}
	if _, err := s.list.Delete(id); err != nil {
		return todo.Task{}, err
	}
	if err := s.save(); err != nil {
		return todo.Task{}, err
	}
	return task, nil
}

// Complete marks the first task with the given id as done.
func (s *Session) Complete(id uint32) (todo.Task, error) {
	task, err := s.list.Complete(id)
	if err != nil {
		return todo.Task{}, err
	}
	if err := s.record(logging.ActionComplete, task); err != nil {
		return todo.Task{}, err
	}
	if err := s.save(); err != nil {
		return todo.Task{}, err
	}
	return task, nil
}

// List returns every task and logs one list entry per task, in list order.
func (s *Session) List() ([]todo.Task, error) {
	tasks := s.list.Tasks()
	for _, task := range tasks {
		if err := s.record(logging.ActionList, task); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (s *Session) record(action logging.Action, task todo.Task) error {
	if err := s.actions.Append(action, task); err != nil {
		return fmt.Errorf("log %s: %w", action, err)
	}
	s.logger.Debug("logged action", "action", action.String(), "id", task.ID)
	return nil
}

func (s *Session) save() error {
	if err := s.store.Save(s.list); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	s.logger.Debug("saved tasks", "count", s.list.Len())
	return nil
}

// IsUserError reports whether err should be shown to the user while the
// session keeps running, rather than terminating it.
func IsUserError(err error) bool {
	return errors.Is(err, todo.ErrNotFound) || errors.Is(err, todo.ErrIDExhausted)
}
