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
	Register(&CompleteCmd{})
}

// CompleteCmd implements the complete command.
type CompleteCmd struct{}

func (c *CompleteCmd) Name() string      { return "complete" }
func (c *CompleteCmd) Aliases() []string { return []string{"done"} }
func (c *CompleteCmd) Synopsis() string  { return "Complete a task by its id" }
func (c *CompleteCmd) Usage() string     { return "todoclist complete <id>" }
func (c *CompleteCmd) NeedsStore() bool  { return true }

func (c *CompleteCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *CompleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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

	if _, err := list.Complete(id, cfg.Now()); err != nil {
		return reportError(cfg, errOut, err)
	}
	if err := svc.Save(ctx, list); err != nil {
		fmt.Fprintf(errOut, "error: completing task: %v\n", err)
		return exitcode.StorageError
	}

	infof(cfg, out, "Completed task #%d, very nice!\n", id)
	return exitcode.Success
}

// parseTaskIDArg parses the id argument and reports failures.
func parseTaskIDArg(args []string, errOut io.Writer) (int, int) {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 0, exitcode.UserError
	}
	return id, exitcode.Success
}
