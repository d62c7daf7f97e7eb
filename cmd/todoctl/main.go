// Package main is the entry point for the todoctl CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoctl/internal/backend/googletasks"
	"todoctl/internal/backend/resttodos"
	"todoctl/internal/cli"
	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/service"
	"todoctl/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var flush func(context.Context) error
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		shutdown, err := telemetry.Setup(ctx, cfg.OTelEndpoint)
		if err != nil {
			return nil, fmt.Errorf("tracing: %w", err)
		}
		flush = shutdown
		return newService(ctx, cfg)
	}

	code := cli.NewDispatcher(commands.DefaultRegistry, factory).Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	if flush != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = flush(flushCtx)
	}
	return code
}

// newService builds the configured backend.
func newService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if cfg.Backend == config.BackendGoogleTasks {
		return googletasks.New(ctx, cfg)
	}
	return resttodos.New(cfg)
}
