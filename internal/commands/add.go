package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"todoclist/internal/config"
	"todoclist/internal/exitcode"
	"todoclist/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Add a new task" }
func (c *AddCmd) Usage() string     { return "todoclist add <description...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Join args to form the description
	description := strings.Join(args, " ")
	if strings.TrimSpace(description) == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
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

	id := list.Add(service.NewTask(description, cfg.Now()))
	if err := svc.Save(ctx, list); err != nil {
		fmt.Fprintf(errOut, "error: saving task: %v\n", err)
		return exitcode.StorageError
	}
	cfg.Logger.Debug("added task", "id", id)

	infof(cfg, out, "Added task \"%s\" with id #%d\n", description, id)
	return exitcode.Success
}
