package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
)

func (r *Runner) initSessionStep(rc *domain.RepositoryContext) Step {
	return Step{
		Name:     "init session",
		Progress: "🔐 Initializing GitHub client...",
		Run: func(ctx context.Context) error {
			return r.github.Init(ctx, rc.Owner)
		},
	}
}

// readVersionStep stores the manifest version in out
func (r *Runner) readVersionStep(rc *domain.RepositoryContext, out *string) Step {
	return Step{
		Name:     "read version",
		Progress: "📖 Reading current version...",
		Run: func(ctx context.Context) error {
			v, err := r.manifest.ReadVersion(ctx, rc.LocalPath)
			if err != nil {
				return err
			}
			*out = v
			return nil
		},
	}
}

func checkCleanStep(git repository.GitRepository, rc *domain.RepositoryContext) Step {
	return Step{
		Name:     "check clean state",
		Progress: fmt.Sprintf("📋 Checking working tree of %s...", rc.RepoName),
		Run:      git.CheckCleanState,
	}
}

func checkoutStep(git repository.GitRepository, branch string) Step {
	return Step{
		Name:     "checkout " + branch,
		Progress: fmt.Sprintf("🔄 Checking out %s...", branch),
		Run: func(ctx context.Context) error {
			return git.CheckoutBranch(ctx, branch)
		},
	}
}

func pullStep(git repository.GitRepository, branch string) Step {
	return Step{
		Name:     "pull " + branch,
		Progress: fmt.Sprintf("⬇️ Pulling latest %s...", branch),
		Run: func(ctx context.Context) error {
			return git.Pull(ctx, branch)
		},
	}
}

func deleteLocalBranchStep(git repository.GitRepository, branch string) Step {
	return Step{
		Name:     "delete local " + branch,
		Progress: fmt.Sprintf("🗑️ Deleting local branch %s...", branch),
		Run: func(ctx context.Context) error {
			return git.DeleteLocalBranch(ctx, branch)
		},
	}
}

func createBranchStep(git repository.GitRepository, branch, startPoint string) Step {
	return Step{
		Name:     "create " + branch,
		Progress: fmt.Sprintf("🌱 Creating branch %s from %s...", branch, startPoint),
		Run: func(ctx context.Context) error {
			return git.CreateBranch(ctx, branch, startPoint)
		},
	}
}

func ensureSyncedStep(git repository.GitRepository, branch string) Step {
	return Step{
		Name:     "verify " + branch + " synced",
		Progress: fmt.Sprintf("🔍 Verifying %s is synced with origin...", branch),
		Run: func(ctx context.Context) error {
			return git.EnsureSyncedWithOrigin(ctx, branch)
		},
	}
}

func forcePushStep(git repository.GitRepository, branch string) Step {
	return Step{
		Name:     "force push " + branch,
		Progress: fmt.Sprintf("⬆️ Force pushing %s...", branch),
		Run: func(ctx context.Context) error {
			return git.ForcePush(ctx, branch)
		},
	}
}

// packageCommandStep runs the package manager with args in the repository root
func (r *Runner) packageCommandStep(rc *domain.RepositoryContext, args ...string) Step {
	commandLine := r.packageCommand(args...)
	return Step{
		Name:     "run " + commandLine,
		Progress: fmt.Sprintf("📦 Running %s...", commandLine),
		Run: func(ctx context.Context) error {
			return r.shell.Run(ctx, rc.LocalPath, r.commands.PackageManager, args...)
		},
	}
}

func (r *Runner) packageCommand(args ...string) string {
	return strings.Join(append([]string{r.commands.PackageManager}, args...), " ")
}

// dependencyUpdateSteps point the configured database package at version,
// reinstall and commit the result with hooks skipped.
func (r *Runner) dependencyUpdateSteps(
	git repository.GitRepository,
	rc *domain.RepositoryContext,
	version string,
) []Step {
	pkg := rc.DBPackageName
	return []Step{
		{
			Name:     "update dependency " + pkg,
			Progress: fmt.Sprintf("📦 Updating %s to %s...", pkg, version),
			Run: func(ctx context.Context) error {
				updated, err := r.manifest.UpdateDependency(ctx, rc.LocalPath, pkg, version)
				if err != nil {
					return err
				}
				if !updated {
					return fmt.Errorf("%w: dependency %s is not declared in %s",
						domain.ErrNotFound, pkg, domain.ManifestFile)
				}
				return nil
			},
		},
		r.packageCommandStep(rc, "install"),
		{
			Name:     "commit dependency update",
			Progress: "💾 Committing dependency update...",
			Run: func(ctx context.Context) error {
				message := fmt.Sprintf(dependencyCommitFormat, pkg, version)
				return git.CommitChanges(ctx, message, repository.CommitOptions{SkipHooks: true})
			},
		},
	}
}
