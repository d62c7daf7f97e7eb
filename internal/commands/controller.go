package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"todoctl/internal/cache"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/logging"
	"todoctl/internal/output"
	"todoctl/internal/service"
)

// commandLogger writes to errOut only with --debug, so a failed command
// prints a single error line by default.
func commandLogger(cfg *config.Config, errOut io.Writer) *log.Logger {
	if !cfg.Debug {
		return log.New(io.Discard)
	}
	return logging.New(errOut, cfg)
}

// newController builds a cache controller for svc using the configured
// reconcile policy.
func newController(cfg *config.Config, svc service.Service, errOut io.Writer) (*cache.Controller, error) {
	policy, err := cache.ParsePolicy(cfg.Reconcile)
	if err != nil {
		return nil, err
	}
	return cache.NewController(cache.New(), svc,
		cache.WithPolicy(policy),
		cache.WithLogger(commandLogger(cfg, errOut)),
	), nil
}

// loadController is newController followed by an initial refresh.
// On failure it reports the error and returns a non-zero exit code.
func loadController(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*cache.Controller, int) {
	ctrl, err := newController(cfg, svc, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %v\n", err)
		return nil, exitcode.AuthError
	}
	if err := ctrl.Refresh(ctx); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return nil, exitcode.BackendError
	}
	return ctrl, exitcode.Success
}

// controllerFor loads the cache only when a reference is a position,
// since an ID needs no lookup.
func controllerFor(ctx context.Context, cfg *config.Config, svc service.Service, byID bool, errOut io.Writer) (*cache.Controller, int) {
	if !byID {
		return loadController(ctx, cfg, svc, errOut)
	}
	ctrl, err := newController(cfg, svc, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %v\n", err)
		return nil, exitcode.AuthError
	}
	return ctrl, exitcode.Success
}

// report prints the outcome of a mutation and returns the exit code.
func report(cfg *config.Config, res cache.Result, out, errOut io.Writer) int {
	switch res.Outcome {
	case cache.Committed:
		if !cfg.Quiet {
			output.FormatResult(out, res)
		}
		return exitcode.Success
	case cache.Aborted:
		fmt.Fprintf(errOut, "error: backend error: %v\n", res.Err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: todo not saved yet: %s\n", res.ID)
		return exitcode.UserError
	}
}
