package service

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyExists is returned by Init when the task-list file exists.
	ErrAlreadyExists = errors.New("task list already exists")

	// ErrNotInitialized is returned by Load when the file is missing and
	// auto-init is off.
	ErrNotInitialized = errors.New("task list not initialized")

	// ErrParse indicates the file content is not a valid task list.
	ErrParse = errors.New("malformed task list")

	// ErrInvalidID indicates a task id that is not a positive integer.
	ErrInvalidID = errors.New("invalid task id")

	// ErrNotFound indicates a task id outside the current list.
	ErrNotFound = errors.New("task not found")

	// ErrLocked indicates another process holds the task-list lock.
	ErrLocked = errors.New("task list is locked by another process")
)

// NotFoundError reports a task id with no task behind it. It matches
// ErrNotFound.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task #%s doesn't exist", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
