package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/devserver"
	"todoctl/internal/exitcode"
	"todoctl/internal/logging"
	"todoctl/internal/service"
)

// DefaultServeAddr is the listen address of the serve command.
const DefaultServeAddr = ":8080"

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the in-memory todo API. It requires the configured API
// key, if any, from its clients.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run an in-memory todo API" }
func (c *ServeCmd) Usage() string     { return "todoctl serve [--addr <addr>]" }
func (c *ServeCmd) NeedsAuth() bool   { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", DefaultServeAddr, "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	logger := logging.New(errOut, cfg)
	server := devserver.New(devserver.NewStore(),
		devserver.WithAPIKey(cfg.APIKey, cfg.APIKeyHeader),
		devserver.WithLogger(logger),
	)
	if err := server.ListenAndServe(ctx, c.addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
