package repository

import "context"

// CommitOptions controls how CommitChanges records a commit.
type CommitOptions struct {
	// Paths are staged before committing. Empty stages every change.
	Paths []string
	// SkipHooks passes --no-verify.
	SkipHooks bool
}

// GitRepository defines the operations the workflows run against one local
// working tree. Checkout, pull and branch deletion are idempotent.
type GitRepository interface {
	Path() string
	CheckCleanState(ctx context.Context) error
	CurrentBranch(ctx context.Context) (string, error)
	CheckoutBranch(ctx context.Context, name string) error
	CreateBranch(ctx context.Context, name, startPoint string) error
	DeleteLocalBranch(ctx context.Context, name string) error
	Pull(ctx context.Context, branch string) error
	Push(ctx context.Context, branch string) error
	ForcePush(ctx context.Context, branch string) error
	PushToRemoteBranch(ctx context.Context, src, dst string, force bool) error
	FetchAll(ctx context.Context) error
	Rebase(ctx context.Context, onto string) error
	TagExists(ctx context.Context, tag string) (bool, error)
	CreateTag(ctx context.Context, tag, message string) error
	PushTag(ctx context.Context, tag string) error
	CommitChanges(ctx context.Context, message string, opts CommitOptions) error
	EnsureSyncedWithOrigin(ctx context.Context, branch string) error
}

// GitOpener opens the repository rooted at path.
type GitOpener func(path string) (GitRepository, error)

// RemoteRef names branch on the origin remote, e.g. origin/main.
func RemoteRef(branch string) string {
	return remoteName + "/" + branch
}
