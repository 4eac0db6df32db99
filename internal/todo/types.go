package todo

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// ErrIDExhausted is returned by Add when the id space is used up.
var ErrIDExhausted = errors.New("task id space exhausted")

// Task represents a single task in the list.
type Task struct {
	ID          uint32 `json:"id"`
	Description string `json:"motacongviec"`
	Done        bool   `json:"trangthai"`
	Creator     string `json:"nguoitao"`
}

// StatusLabel returns the human-readable completion status.
func (t Task) StatusLabel() string {
	if t.Done {
		return "Done"
	}
	return "Pending"
}

// List is the in-memory task collection owned by a session.
type List struct {
	tasks  []Task
	nextID uint64
}

// NewList creates a list from tasks in their stored order.
func NewList(tasks []Task) *List {
	l := &List{tasks: make([]Task, 0, len(tasks))}
	l.tasks = append(l.tasks, tasks...)
	for _, t := range l.tasks {
		if uint64(t.ID)+1 > l.nextID {
			l.nextID = uint64(t.ID) + 1
		}
	}
	return l
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// Tasks returns a copy of the tasks in list order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// NextID returns the id the next added task will receive.
// The second result is false when no id is left.
func (l *List) NextID() (uint32, bool) {
	if l.nextID > math.MaxUint32 {
		return 0, false
	}
	return uint32(l.nextID), true
}

// New builds the task that Add would append, without appending it.
func (l *List) New(description, creator string) (Task, error) {
	id, ok := l.NextID()
	if !ok {
		return Task{}, ErrIDExhausted
	}
	return Task{ID: id, Description: description, Creator: creator}, nil
}

// Append appends a task built by New and advances the next id.
func (l *List) Append(task Task) {
	l.tasks = append(l.tasks, task)
	if uint64(task.ID)+1 > l.nextID {
		l.nextID = uint64(task.ID) + 1
	}
}

// Add creates a pending task with the next id and appends it.
func (l *List) Add(description, creator string) (Task, error) {
	task, err := l.New(description, creator)
	if err != nil {
		return Task{}, err
	}
	l.Append(task)
	return task, nil
}

// Get returns the first task with the given id.
func (l *List) Get(id uint32) (Task, bool) {
	for _, t := range l.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Delete removes every task with the given id and returns the first removed.
func (l *List) Delete(id uint32) (Task, error) {
	var removed Task
	found := false
	kept := l.tasks[:0]
	for _, t := range l.tasks {
		if t.ID == id {
			if !found {
				removed = t
				found = true
			}
			continue
		}
		kept = append(kept, t)
	}
	l.tasks = kept
	if !found {
		return Task{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return removed, nil
}

// Complete marks the first task with the given id as done.
// Completing an already done task succeeds and changes nothing.
func (l *List) Complete(id uint32) (Task, error) {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks[i].Done = true
			return l.tasks[i], nil
		}
	}
	return Task{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
}
