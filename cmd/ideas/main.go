package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/ideas/adapter/cli"
	"github.com/felixgeelhaar/ideas/pkg/config"
	"github.com/felixgeelhaar/ideas/pkg/observability"
)

func main() {
	// Cancel on SIGINT/SIGTERM so serve can drain and browse can exit.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ideas: invalid configuration: %v\n", err)
		stop()
		os.Exit(1)
	}

	logger := observability.LoggerFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version, os.Stderr)

	cli.SetLogger(logger)
	cli.SetApp(cli.NewApp(cfg, logger))

	cli.Execute(ctx)
}
