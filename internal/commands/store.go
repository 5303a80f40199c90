package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todoclist/internal/config"
	"todoclist/internal/exitcode"
	"todoclist/internal/service"
)

// loadList loads the task list, announcing the file if auto-init created it.
func loadList(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) (*service.List, int) {
	list, created, err := svc.Load(ctx, cfg.AutoInit)
	if err != nil {
		return nil, reportError(cfg, errOut, err)
	}
	if created {
		infof(cfg, out, "Initialized new todolist at %s\n", svc.Path())
	}
	return list, exitcode.Success
}

// lockList takes the task-list lock. The returned release func logs
// unlock failures instead of reporting them, since the command's own
// result has already been written by then.
func lockList(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (func(), int) {
	unlock, err := svc.Lock(ctx)
	if err != nil {
		return nil, reportError(cfg, errOut, err)
	}
	return func() {
		if err := unlock(); err != nil {
			cfg.Logger.Warn("release lock", "err", err)
		}
	}, exitcode.Success
}

// lockExisting is lockList for commands that need the task list to be
// there already. Unless auto-init may create it, a missing list is
// reported before anything is written next to it.
func lockExisting(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (func(), int) {
	if !cfg.AutoInit {
		exists, err := svc.Exists(ctx)
		if err != nil {
			return nil, reportError(cfg, errOut, err)
		}
		if !exists {
			return nil, reportError(cfg, errOut, service.ErrNotInitialized)
		}
	}
	return lockList(ctx, cfg, svc, errOut)
}

// reportError prints err and maps it to an exit code.
func reportError(cfg *config.Config, errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrNotInitialized):
		fmt.Fprintf(errOut, "error: %s doesn't exist, please use the \"init\" subcommand or the \"--auto-init\" flag\n", cfg.FileName)
		return exitcode.UserError
	case errors.Is(err, service.ErrAlreadyExists):
		fmt.Fprintf(errOut, "error: %s already exists at %s\n", cfg.FileName, cfg.Dir)
		return exitcode.UserError
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrLocked):
		fmt.Fprintf(errOut, "error: %s is being modified by another process, try again\n", cfg.FileName)
		return exitcode.StorageError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StorageError
	}
}

// infof prints informational output unless quiet.
func infof(cfg *config.Config, out io.Writer, format string, args ...any) {
	if cfg.Quiet {
		return
	}
	fmt.Fprintf(out, format, args...)
}
