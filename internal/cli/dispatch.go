// Package cli builds the command tree and dispatches invocations.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"todoclist/internal/commands"
	"todoclist/internal/config"
	"todoclist/internal/exitcode"
	"todoclist/internal/logging"
	"todoclist/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory

	now func() time.Time
	loc *time.Location
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// WithClock overrides the clock and display time zone of every command.
func (d *Dispatcher) WithClock(now func() time.Time, loc *time.Location) *Dispatcher {
	d.now = now
	d.loc = loc
	return d
}

// globalFlags are the persistent flags accepted before or after any command.
type globalFlags struct {
	path       string
	configFile string
	autoInit   bool
	quiet      bool
	debug      bool
	noColor    bool
}

type unknownCommandError struct {
	name string
}

func (e *unknownCommandError) Error() string {
	return "unknown command: " + e.name
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	code := exitcode.Success
	root := d.newRootCommand(out, errOut, &code)
	// cobra falls back to os.Args on nil.
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		var unknown *unknownCommandError
		if errors.As(err, &unknown) {
			fmt.Fprintf(errOut, "error: unknown command: %s (see '%s help')\n", unknown.name, config.AppName)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return code
}

func (d *Dispatcher) newRootCommand(out, errOut io.Writer, code *int) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "A simple file-based todo list",
		Version:       commands.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &unknownCommandError{name: args[0]}
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(errOut, "error: no command given (see '%s help')\n", config.AppName)
			*code = exitcode.UserError
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetVersionTemplate(config.AppName + " {{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprint(out, commands.HelpText(d.registry))
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&g.path, "path", "p", config.DefaultDir, "Directory containing "+config.DefaultFileName)
	pf.StringVarP(&g.configFile, "config", "c", "", "Read settings from a TOML file")
	pf.BoolVarP(&g.autoInit, "auto-init", "i", false, "Create the task list if it doesn't exist")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "Suppress informational output")
	pf.BoolVar(&g.debug, "debug", false, "Print debug logs to stderr")
	pf.BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	for _, cmd := range d.registry.All() {
		if cmd.Name() == "help" {
			// Describe this dispatcher's registry, which need not be the default one.
			help := &commands.HelpCmd{Registry: d.registry}
			root.SetHelpCommand(d.newCommand(help, g, out, errOut, code))
			continue
		}
		root.AddCommand(d.newCommand(cmd, g, out, errOut, code))
	}
	return root
}

func (d *Dispatcher) newCommand(cmd commands.Command, g *globalFlags, out, errOut io.Writer, code *int) *cobra.Command {
	sub := &cobra.Command{
		Use:                   cmd.Name(),
		Aliases:               cmd.Aliases(),
		Short:                 cmd.Synopsis(),
		Args:                  cobra.ArbitraryArgs,
		DisableFlagsInUseLine: true,
		RunE: func(c *cobra.Command, args []string) error {
			*code = d.dispatchCommand(c.Context(), cmd, c.Flags(), g, args, out, errOut)
			return nil
		},
	}
	cmd.RegisterFlags(sub.Flags())
	return sub
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, fs *pflag.FlagSet, g *globalFlags, args []string, out, errOut io.Writer) int {
	cfg, err := d.buildConfig(fs, g, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var svc service.Service
	if cmd.NeedsStore() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no task list backend configured")
			return exitcode.StorageError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.StorageError
		}
	}

	cfg.Logger.Debug("dispatch", "command", cmd.Name(), "args", len(args), "file", cfg.TasksPath())
	return cmd.Run(ctx, cfg, svc, args, out, errOut)
}

// buildConfig layers defaults, the --config file and explicitly set flags.
func (d *Dispatcher) buildConfig(fs *pflag.FlagSet, g *globalFlags, errOut io.Writer) (*config.Config, error) {
	cfg, err := config.New(g.configFile)
	if err != nil {
		return nil, err
	}

	if fs.Changed("path") {
		cfg.Path = g.path
	}
	if fs.Changed("auto-init") {
		cfg.AutoInit = g.autoInit
	}
	if fs.Changed("no-color") {
		cfg.NoColor = g.noColor
	}
	cfg.Quiet = g.quiet
	cfg.Debug = g.debug

	if d.now != nil {
		cfg.Now = d.now
	}
	if d.loc != nil {
		cfg.Location = d.loc
	}

	opts := logging.DefaultOptions()
	opts.Debug = cfg.Debug
	opts.ReportTimestamp = cfg.Debug
	cfg.Logger = logging.New(errOut, opts)

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
