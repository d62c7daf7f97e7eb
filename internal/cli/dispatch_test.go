package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/cli"
	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/testutil"
)

// isolate points the config directory at a temp dir and sets a base URL.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"TODO_BACKEND", "TODO_PRIVATE_API_KEY", "TODO_API_KEY_HEADER",
		"TODO_RECONCILE", "TODO_GOOGLE_LIST", "TODO_LOG_LEVEL", "TODO_LOG_FORMAT", "TODO_OTEL_ENDPOINT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("TODO_BASE_API_URL", "http://localhost:8080")
	return dir
}

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func runWith(factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	var out, errOut bytes.Buffer
	code = dispatcher.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func run(svc *testutil.FakeService, args ...string) (stdout, stderr string, code int) {
	return runWith(testFactory(svc), args...)
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	isolate(t)
	_, stderr, code := run(testutil.NewFakeService(), "unknowncmd")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown command: unknowncmd\n", stderr)
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	isolate(t)
	_, stderr, code := run(testutil.NewFakeService(), "--quiet")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown command: --quiet\n", stderr)
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(service.Todo{ID: "1", Title: "Buy milk"})

	stdout, stderr, code := run(svc)

	require.Equal(t, exitcode.Success, code, stderr)
	assert.Equal(t, "   1  Buy milk\n", stdout)
}

func TestDispatcher_Aliases(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(service.Todo{ID: "1", Title: "a"})

	for _, args := range [][]string{
		{"create", "b"},
		{"update", "--id", "1", "c"},
		{"delete", "--id", "2"},
	} {
		_, stderr, code := run(svc, args...)
		require.Equal(t, exitcode.Success, code, "%v: %s", args, stderr)
	}

	assert.Equal(t, []service.Todo{{ID: "1", Title: "c"}}, svc.Todos())
}

func TestDispatcher_HelpCommand(t *testing.T) {
	isolate(t)
	stdout, stderr, code := run(nil, "help")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Usage:")
}

func TestDispatcher_VersionCommand(t *testing.T) {
	isolate(t)
	stdout, _, code := run(nil, "version")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "todoctl 0.1.0\n", stdout)
}

func TestDispatcher_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"help", "--unknown"}, "error: unknown flag: -unknown\n"},
		{"missing argument", []string{"serve", "--addr"}, "error: flag needs an argument: -addr\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, stderr, code := run(nil, tt.args...)

			assert.Equal(t, exitcode.UserError, code)
			assert.Equal(t, tt.want, stderr)
		})
	}
}

func TestDispatcher_MissingBaseURL(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_BASE_API_URL", "")
	svc := testutil.NewFakeService()

	_, stderr, code := run(svc, "list")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Contains(t, stderr, "error: config error: base URL not configured")
	assert.Zero(t, svc.Calls("ListTodos"), "service should not be called without configuration")
}

func TestDispatcher_ConfigFile(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_BASE_API_URL", "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(`base_url = "http://example.com"`), 0600))

	var seen *config.Config
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		seen = cfg
		return testutil.NewFakeService(), nil
	}

	_, stderr, code := runWith(factory, "list", "--config", dir, "--quiet")

	require.Equal(t, exitcode.Success, code, stderr)
	require.NotNil(t, seen)
	assert.Equal(t, "http://example.com", seen.BaseURL)
	assert.True(t, seen.Quiet)
}

func TestDispatcher_GoogleTasksNotLoggedIn(t *testing.T) {
	dir := isolate(t)
	t.Setenv("TODO_BACKEND", "googletasks")
	appDir := filepath.Join(dir, config.AppName)
	require.NoError(t, os.MkdirAll(appDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(appDir, config.OAuthClientFile), []byte(`{}`), 0600))

	_, stderr, code := run(testutil.NewFakeService(), "list")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Equal(t, "error: not logged in (run: todoctl login)\n", stderr)
}

func TestDispatcher_FactoryError(t *testing.T) {
	isolate(t)
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("invalid base URL")
	}

	_, stderr, code := runWith(factory, "list")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Equal(t, "error: config error: invalid base URL\n", stderr)
}

func TestDispatcher_BackendFailureExitCode(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(service.Todo{ID: "1", Title: "a"})
	svc.DeleteErr = errors.New("connection refused")

	_, stderr, code := run(svc, "rm", "1")

	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: backend error: connection refused\n", stderr)
}
