// Package main is the entry point for the todoclist CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todoclist/internal/backend/jsonfile"
	"todoclist/internal/cli"
	"todoclist/internal/commands"
	"todoclist/internal/config"
	"todoclist/internal/service"
)

func main() {
	// Cancel on interrupt so a pending lock wait gives up
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return jsonfile.New(cfg), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
