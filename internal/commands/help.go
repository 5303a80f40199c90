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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	// Registry lists the commands to describe. Nil means DefaultRegistry.
	Registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todoclist help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	r := c.Registry
	if r == nil {
		r = DefaultRegistry
	}
	fmt.Fprint(out, HelpText(r))
	return exitcode.Success
}

// HelpText renders usage for every command in r.
func HelpText(r *Registry) string {
	var b strings.Builder
	b.WriteString("A simple file-based todo list\n\nUsage:\n")
	for _, cmd := range r.All() {
		usage := cmd.Usage()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			usage += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(&b, "  %-48s %s\n", usage, cmd.Synopsis())
	}
	b.WriteString(globalFlagsText)
	return b.String()
}

const globalFlagsText = `
Global flags:
  -p, --path <dir>      Directory containing ` + config.DefaultFileName + ` (default: current directory)
  -i, --auto-init       Create the task list if it doesn't exist
  -c, --config <file>   Read settings from a TOML file
  -q, --quiet           Suppress informational output
      --debug           Print debug logs to stderr
      --no-color        Disable colored output
`
