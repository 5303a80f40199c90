package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"todoclist/internal/config"
	"todoclist/internal/exitcode"
	"todoclist/internal/service"
)

func init() {
	Register(&DeleteCmd{})
}

// DeleteCmd implements the delete command.
type DeleteCmd struct{}

func (c *DeleteCmd) Name() string      { return "delete" }
func (c *DeleteCmd) Aliases() []string { return []string{"rm"} }
func (c *DeleteCmd) Synopsis() string  { return "Delete a task by its id" }
func (c *DeleteCmd) Usage() string     { return "todoclist delete <id>" }
func (c *DeleteCmd) NeedsStore() bool  { return true }

func (c *DeleteCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DeleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, code := parseTaskIDArg(args, errOut)
	if code != exitcode.Success {
		return code
	}

	unlock, code := lockExisting(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	defer unlock()

	list, code := loadList(ctx, cfg, svc, out, errOut)
	if code != exitcode.Success {
		return code
	}

	task, err := list.Remove(id)
	if err != nil {
		return reportError(cfg, errOut, err)
	}
	if err := svc.Save(ctx, list); err != nil {
		fmt.Fprintf(errOut, "error: deleting task: %v\n", err)
		return exitcode.StorageError
	}

	infof(cfg, out, "Deleted task #%d: %s\n", id, task.Name)
	return exitcode.Success
}
