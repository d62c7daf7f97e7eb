package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/cache"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/logging"
	"todoctl/internal/service"
	"todoctl/internal/ui"
)

func init() {
	Register(&TuiCmd{})
}

// TuiCmd starts the interactive view. Logs go to the log file in the
// config directory since the view owns the terminal.
type TuiCmd struct{}

func (c *TuiCmd) Name() string      { return "tui" }
func (c *TuiCmd) Aliases() []string { return nil }
func (c *TuiCmd) Synopsis() string  { return "Interactive view" }
func (c *TuiCmd) Usage() string     { return "todoctl tui [common flags]" }
func (c *TuiCmd) NeedsAuth() bool   { return true }

func (c *TuiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TuiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !ui.IsTTY(out) {
		fmt.Fprintln(errOut, "error: tui requires a TTY")
		return exitcode.UserError
	}

	policy, err := cache.ParsePolicy(cfg.Reconcile)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %v\n", err)
		return exitcode.AuthError
	}

	logger, closeLog, err := logging.NewFile(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to open log file: %v\n", err)
		return exitcode.UserError
	}
	defer closeLog()

	ctrl := cache.NewController(cache.New(), svc, cache.WithPolicy(policy), cache.WithLogger(logger))
	logger.Info("starting view", "backend", cfg.Backend, "reconcile", policy)
	if err := ui.Run(ctx, ctrl, logger, out); err != nil {
		logger.Error("view exited", "err", err)
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
