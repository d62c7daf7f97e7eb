package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

// writeFiles creates the named files in a fresh config dir.
func writeFiles(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return &config.Config{Dir: dir}
}

func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cfg := writeFiles(t, nil)
	var outBuf, errBuf bytes.Buffer

	code := (&commands.LoginCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	assert.Equal(t, exitcode.AuthError, code)
	assert.Empty(t, outBuf.String())
	assert.Contains(t, errBuf.String(), "error: oauth_client.json not found in ")
}

// A token that cannot be refreshed must not count as logged in. The
// context is cancelled so the command gives up waiting for the callback.
func TestLoginCommand_UnusableToken(t *testing.T) {
	tokens := map[string]string{
		"no refresh token": `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`,
		"corrupt":          `{not json`,
	}
	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			cfg := writeFiles(t, map[string]string{
				config.OAuthClientFile: testOAuthClient,
				config.TokenFile:       token,
			})
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			var outBuf, errBuf bytes.Buffer

			code := (&commands.LoginCmd{}).Run(ctx, cfg, nil, nil, &outBuf, &errBuf)

			assert.NotEqual(t, "already logged in\n", outBuf.String())
			assert.Equal(t, exitcode.AuthError, code)
		})
	}
}

func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	cfg := writeFiles(t, map[string]string{
		config.OAuthClientFile: testOAuthClient,
		config.TokenFile:       `{"access_token":"test","refresh_token":"test"}`,
	})
	var outBuf, errBuf bytes.Buffer

	code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", outBuf.String())
	assert.Empty(t, errBuf.String())
	assert.False(t, cfg.HasToken(), "token.json should have been deleted")
	assert.True(t, cfg.HasOAuthClient(), "oauth_client.json should be kept")
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	for _, quiet := range []bool{false, true} {
		cfg := writeFiles(t, nil)
		cfg.Quiet = quiet
		var outBuf, errBuf bytes.Buffer

		code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

		want := "not logged in\n"
		if quiet {
			want = ""
		}
		assert.Equal(t, exitcode.Success, code, "quiet=%v", quiet)
		assert.Equal(t, want, outBuf.String(), "quiet=%v", quiet)
		assert.Empty(t, errBuf.String(), "quiet=%v", quiet)
	}
}
