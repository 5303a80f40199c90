package commands

import (
	"errors"
	"fmt"

	"todoclist/internal/service"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the task id argument of complete and delete.
// Exactly one argument is accepted; it must be a positive integer.
func ParseTaskID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}
	return service.ParseID(args[0])
}
