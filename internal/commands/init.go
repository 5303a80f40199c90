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
	Register(&InitCmd{})
}

// InitCmd implements the init command.
type InitCmd struct{}

func (c *InitCmd) Name() string      { return "init" }
func (c *InitCmd) Aliases() []string { return nil }
func (c *InitCmd) Synopsis() string  { return "Create a new task list" }
func (c *InitCmd) Usage() string     { return "todoclist init" }
func (c *InitCmd) NeedsStore() bool  { return true }

func (c *InitCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *InitCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Checked again under the lock by Init.
	exists, err := svc.Exists(ctx)
	if err != nil {
		return reportError(cfg, errOut, err)
	}
	if exists {
		return reportError(cfg, errOut, service.ErrAlreadyExists)
	}

	unlock, code := lockList(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	defer unlock()

	if _, err := svc.Init(ctx); err != nil {
		return reportError(cfg, errOut, err)
	}

	infof(cfg, out, "Initialized new todolist at %s\n", svc.Path())
	return exitcode.Success
}
