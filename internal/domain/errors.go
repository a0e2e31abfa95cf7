package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the resolver, the adapters and the workflow runner.
// Adapters wrap these sentinels with the offending branch, PR number or command.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrRepoNotConfigured = fmt.Errorf("%w: repository not configured", ErrConfiguration)
	ErrMissingRepoPath   = fmt.Errorf("%w: repository path not configured", ErrConfiguration)
	ErrInvalidRepoPath   = fmt.Errorf("%w: repository path is not a directory", ErrConfiguration)

	ErrInvalidParameters = errors.New("invalid parameters")
	ErrDirtyWorkingTree  = errors.New("working tree has uncommitted changes")
	ErrNotSynced         = errors.New("local branch is not synced with origin")
	ErrInvalidVersion    = errors.New("invalid semantic version")

	ErrRemoteAuth      = errors.New("remote authentication failed")
	ErrUnauthenticated = fmt.Errorf("%w: session not initialized", ErrRemoteAuth)
	ErrRemoteNotFound  = errors.New("remote resource not found")
	ErrRemoteConflict  = errors.New("remote rejected the operation")

	ErrExternalProcess = errors.New("external process failed")
	ErrAlreadyExists   = errors.New("already exists")
	ErrNotFound        = errors.New("not found")
)

// ErrorKind returns a stable identifier for the taxonomy entry err belongs to.
// Subkinds are checked before their parents.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	kinds := []struct {
		target error
		kind   string
	}{
		{ErrRepoNotConfigured, "NotFound"},
		{ErrMissingRepoPath, "MissingPath"},
		{ErrInvalidRepoPath, "InvalidPath"},
		{ErrConfiguration, "ConfigurationError"},
		{ErrInvalidParameters, "InvalidParameters"},
		{ErrDirtyWorkingTree, "DirtyWorkingTree"},
		{ErrNotSynced, "NotSynced"},
		{ErrInvalidVersion, "InvalidVersion"},
		{ErrUnauthenticated, "Unauthenticated"},
		{ErrRemoteAuth, "RemoteAuthError"},
		{ErrRemoteNotFound, "RemoteNotFound"},
		{ErrRemoteConflict, "RemoteConflict"},
		{ErrExternalProcess, "ExternalProcessFailure"},
		{ErrAlreadyExists, "AlreadyExists"},
		{ErrNotFound, "NotFound"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return "Unknown"
}
