// Package service defines the task-list model and the storage interface
// commands use to read and write it.
package service

import "context"

// Service defines the persistence operations for a single task-list file.
// Commands never touch the filesystem directly.
type Service interface {
	// Path returns the absolute path of the task-list file.
	Path() string

	// Exists reports whether the task-list file is present.
	Exists(ctx context.Context) (bool, error)

	// Init creates an empty task list.
	// Returns ErrAlreadyExists if the file is already present.
	Init(ctx context.Context) (*List, error)

	// Load reads the task list.
	// If the file is missing, it returns ErrNotInitialized unless autoInit
	// is set, in which case it delegates to Init and reports created.
	Load(ctx context.Context, autoInit bool) (list *List, created bool, err error)

	// Save overwrites the task list with list.
	Save(ctx context.Context, list *List) error

	// Lock takes the advisory lock guarding a load-modify-save cycle.
	// Returns ErrLocked if another process holds it past the timeout.
	// unlock releases the lock and removes any file Lock created.
	Lock(ctx context.Context) (unlock func() error, err error)
}
