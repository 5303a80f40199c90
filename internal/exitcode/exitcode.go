// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown id, missing or
	// already initialized task list).
	UserError = 1

	// StorageError indicates the task list could not be read, parsed,
	// locked or written.
	StorageError = 2
)
