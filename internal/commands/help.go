package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todoctl help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todoctl                                        List todos
  todoctl list [common flags] [--ids]            List todos, optionally with IDs
  todoctl add [common flags] <title...>          Create a todo (alias: create)
  todoctl edit [common flags] [--id] <ref> <title...>
                                                 Change a title (alias: update)
  todoctl rm [common flags] [--id] <ref>         Delete a todo (alias: delete)
  todoctl tui [common flags]                     Interactive view
  todoctl serve [common flags] [--addr <addr>]   Run an in-memory todo API
  todoctl login [common flags]                   Authenticate with Google Tasks
  todoctl logout [common flags]                  Remove stored Google credentials
  todoctl help
  todoctl version

A <ref> is the number shown by list, or the todo ID with --id.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TODO_BASE_API_URL      REST API base URL
  TODO_PRIVATE_API_KEY   API key sent with every request
  TODO_API_KEY_HEADER    Header for the API key (default: Authorization: Bearer)
  TODO_BACKEND           rest or googletasks
  TODO_RECONCILE         refetch or echo
`
