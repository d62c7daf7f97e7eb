// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown position or ID).
	UserError = 1

	// AuthError indicates a missing or invalid configuration or credential.
	AuthError = 2

	// BackendError indicates a remote call failed and the change was rolled back.
	BackendError = 3
)
