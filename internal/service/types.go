package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Task represents a single to-do item.
type Task struct {
	Name      string  `json:"name"`
	Author    *string `json:"author,omitempty"`
	Creation  int64   `json:"creation"`
	Completed *int64  `json:"completed,omitempty"` // nil while incomplete
}

// NewTask creates an incomplete task created at now.
func NewTask(name string, now time.Time) Task {
	return Task{Name: name, Creation: now.Unix()}
}

// IsCompleted reports whether the task has a completion timestamp.
func (t Task) IsCompleted() bool {
	return t.Completed != nil
}

// CreatedAt returns the creation time.
func (t Task) CreatedAt() time.Time {
	return time.Unix(t.Creation, 0)
}

// CompletedAt returns the completion time, or the zero time if incomplete.
func (t Task) CompletedAt() time.Time {
	if t.Completed == nil {
		return time.Time{}
	}
	return time.Unix(*t.Completed, 0)
}

// List is the ordered collection of tasks and the unit of persistence.
// Task ids are 1-based positions in Tasks and are only stable until the
// next removal.
type List struct {
	Tasks []Task `json:"tasks"`
}

// Entry pairs a task with its positional id.
type Entry struct {
	ID   int
	Task Task
}

// NewList creates an empty list.
func NewList() *List {
	return &List{Tasks: []Task{}}
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.Tasks)
}

// Add appends a task and returns its id.
func (l *List) Add(t Task) int {
	l.Tasks = append(l.Tasks, t)
	return len(l.Tasks)
}

// Get returns the task with the given id.
func (l *List) Get(id int) (*Task, error) {
	if id < 1 || id > len(l.Tasks) {
		return nil, &NotFoundError{ID: strconv.Itoa(id)}
	}
	return &l.Tasks[id-1], nil
}

// Complete marks the task with the given id as completed at the given time.
// Completing an already completed task moves its timestamp.
func (l *List) Complete(id int, at time.Time) (*Task, error) {
	t, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	ts := at.Unix()
	t.Completed = &ts
	return t, nil
}

// Remove deletes the task with the given id and returns it.
// Ids of the tasks after it shift down by one.
func (l *List) Remove(id int) (Task, error) {
	if id < 1 || id > len(l.Tasks) {
		return Task{}, &NotFoundError{ID: strconv.Itoa(id)}
	}
	t := l.Tasks[id-1]
	l.Tasks = append(l.Tasks[:id-1], l.Tasks[id:]...)
	return t, nil
}

// Entries returns every task with its id.
func (l *List) Entries() []Entry {
	entries := make([]Entry, 0, len(l.Tasks))
	for i, t := range l.Tasks {
		entries = append(entries, Entry{ID: i + 1, Task: t})
	}
	return entries
}

// Pending returns the incomplete tasks. Ids refer to positions in the full
// list, not in the filtered result.
func (l *List) Pending() []Entry {
	var entries []Entry
	for i, t := range l.Tasks {
		if t.IsCompleted() {
			continue
		}
		entries = append(entries, Entry{ID: i + 1, Task: t})
	}
	return entries
}

// ParseID parses a user-supplied 1-based task id. A well-formed id too
// large for any list is reported as not found.
func ParseID(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 31)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &NotFoundError{ID: strings.TrimLeft(s, "0")}
	}
	if err != nil {
		return 0, fmt.Errorf("%w: the id should be numeric", ErrInvalidID)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: task #0 doesn't exist", ErrInvalidID)
	}
	return int(n), nil
}
