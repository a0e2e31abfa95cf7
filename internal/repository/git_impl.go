package repository

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/n-v-nam/github-quickactions/internal/domain"
	"go.uber.org/zap"
)

const (
	remoteName      = "origin"
	stashNamePrefix = "quickactions-temp-"
	noLocalChanges  = "No local changes to save"
)

// GitError provides context for git command failures
type GitError struct {
	Command string
	Output  string
}

func (e *GitError) Error() string {
	if e.Output == "" {
		return "git " + e.Command + " failed"
	}
	return "git " + e.Command + ": " + e.Output
}

// gitRepository reads repository state through go-git and runs mutating and
// network commands through the git CLI so credential helpers and the SSH
// agent apply.
type gitRepository struct {
	path   string
	repo   *git.Repository
	logger *zap.Logger
}

// NewGitOpener returns a GitOpener that logs git commands to logger.
func NewGitOpener(logger *zap.Logger) GitOpener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(path string) (GitRepository, error) {
		return openGitRepository(path, logger)
	}
}

// OpenGitRepository opens the repository at path without logging.
func OpenGitRepository(path string) (GitRepository, error) {
	return openGitRepository(path, zap.NewNop())
}

func openGitRepository(path string, logger *zap.Logger) (*gitRepository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}
	return &gitRepository{path: path, repo: repo, logger: logger.With(zap.String("repo_path", path))}, nil
}

// Path returns the working tree root.
func (r *gitRepository) Path() string {
	return r.path
}

func (r *gitRepository) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path
	r.logger.Debug("running git", zap.Strings("args", args))
	output, err := cmd.CombinedOutput()
	out := strings.TrimRight(string(output), " \r\n\t")
	if err != nil {
		if ctx.Err() != nil {
			return out, fmt.Errorf("git %s: %w", args[0], ctx.Err())
		}
		return out, &GitError{Command: strings.Join(args, " "), Output: out}
	}
	return out, nil
}

// CheckCleanState fails with ErrDirtyWorkingTree listing every staged,
// modified or untracked path.
func (r *gitRepository) CheckCleanState(ctx context.Context) error {
	out, err := r.run(ctx, "status", "--porcelain")
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}
	if out == "" {
		return nil
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 3 {
			files = append(files, strings.TrimSpace(line[3:]))
		}
	}
	return fmt.Errorf("%w in %s: %s", domain.ErrDirtyWorkingTree, r.path, strings.Join(files, ", "))
}

// CurrentBranch returns the short name of HEAD.
func (r *gitRepository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Name().Short(), nil
}

// CheckoutBranch switches to an existing branch.
func (r *gitRepository) CheckoutBranch(ctx context.Context, name string) error {
	if _, err := r.run(ctx, "checkout", name); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", name, err)
	}
	return nil
}

// CreateBranch creates name at startPoint and checks it out.
func (r *gitRepository) CreateBranch(ctx context.Context, name, startPoint string) error {
	args := []string{"checkout", "-b", name}
	if startPoint != "" {
		args = append(args, startPoint)
	}
	if _, err := r.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to create branch %s from %s: %w", name, startPoint, err)
	}
	return nil
}

// DeleteLocalBranch force-deletes a local branch. A missing branch is not an error.
func (r *gitRepository) DeleteLocalBranch(ctx context.Context, name string) error {
	exists, err := r.localBranchExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if _, err := r.run(ctx, "branch", "-D", name); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", name, err)
	}
	return nil
}

func (r *gitRepository) localBranchExists(name string) (bool, error) {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
	}
	return true, nil
}

// Pull pulls branch from origin into the current branch.
func (r *gitRepository) Pull(ctx context.Context, branch string) error {
	if _, err := r.run(ctx, "pull", remoteName, branch); err != nil {
		return fmt.Errorf("failed to pull %s: %w", branch, err)
	}
	return nil
}

// Push pushes branch to origin.
func (r *gitRepository) Push(ctx context.Context, branch string) error {
	if _, err := r.run(ctx, "push", remoteName, branch); err != nil {
		return fmt.Errorf("failed to push %s: %w", branch, err)
	}
	return nil
}

// ForcePush pushes branch to origin with --force-with-lease.
func (r *gitRepository) ForcePush(ctx context.Context, branch string) error {
	if _, err := r.run(ctx, "push", "--force-with-lease", remoteName, branch); err != nil {
		return fmt.Errorf("failed to force-push %s: %w", branch, err)
	}
	return nil
}

// PushToRemoteBranch pushes the local src onto the remote dst branch.
func (r *gitRepository) PushToRemoteBranch(ctx context.Context, src, dst string, force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "--force-with-lease")
	}
	args = append(args, remoteName, src+":"+dst)
	if _, err := r.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push %s onto %s: %w", src, dst, err)
	}
	return nil
}

// FetchAll fetches every remote and prunes deleted branches.
func (r *gitRepository) FetchAll(ctx context.Context) error {
	if _, err := r.run(ctx, "fetch", "--all", "--prune"); err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	return nil
}

// Rebase rebases the current branch onto the given ref, e.g. origin/main.
func (r *gitRepository) Rebase(ctx context.Context, onto string) error {
	if _, err := r.run(ctx, "rebase", onto); err != nil {
		return fmt.Errorf("failed to rebase onto %s: %w", onto, err)
	}
	return nil
}

// TagExists checks the local tags first and then origin, so a tag pushed
// from another clone is found even when the pull did not fetch it.
func (r *gitRepository) TagExists(ctx context.Context, tag string) (bool, error) {
	_, err := r.repo.Tag(tag)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, git.ErrTagNotFound) {
		return false, fmt.Errorf("failed to check tag %s: %w", tag, err)
	}
	if _, err := r.repo.Remote(remoteName); err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up %s: %w", remoteName, err)
	}
	out, err := r.run(ctx, "ls-remote", "--tags", remoteName, "refs/tags/"+tag)
	if err != nil {
		return false, fmt.Errorf("failed to check remote tag %s: %w", tag, err)
	}
	return out != "", nil
}

// CreateTag creates an annotated tag at HEAD.
func (r *gitRepository) CreateTag(ctx context.Context, tag, message string) error {
	if _, err := r.run(ctx, "tag", "-a", tag, "-m", message); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// PushTag pushes a tag to origin.
func (r *gitRepository) PushTag(ctx context.Context, tag string) error {
	if _, err := r.run(ctx, "push", remoteName, tag); err != nil {
		return fmt.Errorf("failed to push tag %s: %w", tag, err)
	}
	return nil
}

// CommitChanges commits the intended paths only. Unrelated changes are
// stashed (untracked included, index kept) around the commit and restored
// afterwards whether or not the commit succeeded.
func (r *gitRepository) CommitChanges(ctx context.Context, message string, opts CommitOptions) error {
	addArgs := []string{"add", "-A"}
	if len(opts.Paths) > 0 {
		addArgs = append([]string{"add", "--"}, opts.Paths...)
	}
	if _, err := r.run(ctx, addArgs...); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	stashName := stashNamePrefix + time.Now().Format("20060102150405")
	out, err := r.run(ctx, "stash", "push", "--include-untracked", "--keep-index", "-m", stashName)
	if err != nil {
		return fmt.Errorf("failed to stash unrelated changes: %w", err)
	}
	stashed := !strings.Contains(out, noLocalChanges)
	commitArgs := []string{"commit", "-m", message}
	if opts.SkipHooks {
		commitArgs = append(commitArgs, "--no-verify")
	}
	_, commitErr := r.run(ctx, commitArgs...)
	if stashed {
		if _, popErr := r.run(context.WithoutCancel(ctx), "stash", "pop"); popErr != nil {
			if commitErr != nil {
				return fmt.Errorf("failed to commit: %w (restoring stash %s also failed: %v)", commitErr, stashName, popErr)
			}
			return fmt.Errorf("committed but failed to restore stash %s: %w", stashName, popErr)
		}
	}
	if commitErr != nil {
		return fmt.Errorf("failed to commit: %w", commitErr)
	}
	return nil
}

// EnsureSyncedWithOrigin fetches branch and fails with ErrNotSynced unless
// HEAD equals origin/<branch>.
func (r *gitRepository) EnsureSyncedWithOrigin(ctx context.Context, branch string) error {
	if _, err := r.run(ctx, "fetch", remoteName, branch); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", branch, err)
	}
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	remoteRef, err := r.repo.Reference(plumbing.NewRemoteReferenceName(remoteName, branch), true)
	if err != nil {
		return fmt.Errorf("failed to resolve %s/%s: %w", remoteName, branch, err)
	}
	if head.Hash() != remoteRef.Hash() {
		return fmt.Errorf("%w: %s is at %s but %s/%s is at %s", domain.ErrNotSynced,
			branch, shortHash(head.Hash()), remoteName, branch, shortHash(remoteRef.Hash()))
	}
	return nil
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:7]
}
