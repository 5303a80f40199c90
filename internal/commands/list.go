package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"todoclist/internal/config"
	"todoclist/internal/exitcode"
	"todoclist/internal/output"
	"todoclist/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Only incomplete tasks are shown unless --all is given. Ids are positions
// in the full list, so they stay valid for complete and delete.
type ListCmd struct {
	all bool
}

// SetAll sets the --all flag (for testing).
func (c *ListCmd) SetAll(all bool) {
	c.all = all
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List incomplete tasks" }
func (c *ListCmd) Usage() string     { return "todoclist list [--all]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.all, "all", "a", false, "Include completed tasks")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Listing only writes when auto-init creates the file.
	if cfg.AutoInit {
		unlock, code := lockList(ctx, cfg, svc, errOut)
		if code != exitcode.Success {
			return code
		}
		defer unlock()
	}

	list, code := loadList(ctx, cfg, svc, out, errOut)
	if code != exitcode.Success {
		return code
	}

	entries := list.Pending()
	if c.all {
		entries = list.Entries()
	}

	if len(entries) == 0 {
		infof(cfg, out, "List empty, good job!\n")
		return exitcode.Success
	}

	st := output.NewStyles(out, cfg.NoColor)
	for _, entry := range entries {
		output.FormatTask(out, st, entry, cfg.Location)
	}
	return exitcode.Success
}
