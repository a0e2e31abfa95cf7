package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
	"go.uber.org/zap"
)

// DependencyUpdate asks a deploy workflow to point the database package at a
// new version before pushing. It only applies to repositories that depend on
// the database package.
type DependencyUpdate struct {
	UpdateDBPackage bool
	NewDBVersion    string
}

// DeployStagingParams are the parameters of DeployStaging.
type DeployStagingParams struct {
	Common
	DependencyUpdate
	// DeployBranch defaults to the first configured deploy branch
	DeployBranch string
}

// DeployStaging rebuilds the deploy branch from develop, force pushes it and
// runs the staging deploy script.
func (r *Runner) DeployStaging(ctx context.Context, p DeployStagingParams) domain.Result[domain.DeployData] {
	var target string
	var updateDependency bool
	return execute(ctx, r, p.Common, workflow[domain.DeployData]{
		name: WorkflowDeployStaging,
		validate: func(rc *domain.RepositoryContext) error {
			var err error
			if target, err = resolveDeployBranch(rc, p.DeployBranch); err != nil {
				return err
			}
			updateDependency, err = r.validateDependencyUpdate(rc, p.DependencyUpdate)
			return err
		},
		prepare: func(_ context.Context, rc *domain.RepositoryContext, _ *StepSequence) (*plan[domain.DeployData], error) {
			git, err := r.open(rc)
			if err != nil {
				return nil, err
			}
			steps := []Step{
				checkCleanStep(git, rc),
				checkoutStep(git, rc.DevelopBranch),
				pullStep(git, rc.DevelopBranch),
				deleteLocalBranchStep(git, target),
				createBranchStep(git, target, rc.DevelopBranch),
			}
			if updateDependency {
				steps = append(steps, r.dependencyUpdateSteps(git, rc, p.NewDBVersion)...)
			}
			steps = append(steps,
				forcePushStep(git, target),
				r.packageCommandStep(rc, r.commands.StagingDeployScript),
			)
			return &plan[domain.DeployData]{
				data:   domain.DeployData{Branch: target},
				dryRun: deployDryRun(rc, target, rc.DevelopBranch, updateDependency, p.NewDBVersion),
				steps:  steps,
				success: func() string {
					return fmt.Sprintf("Deployed %s to staging via %s", rc.RepoName, target)
				},
			}, nil
		},
	})
}

// SyncDeployBranchParams are the parameters of SyncDeployBranch.
type SyncDeployBranchParams struct {
	Common
	DependencyUpdate
	// DeployBranch defaults to the first configured deploy branch
	DeployBranch string
}

// SyncDeployBranch rebases the remote deploy branch onto main and develop and
// force pushes the result.
func (r *Runner) SyncDeployBranch(ctx context.Context, p SyncDeployBranchParams) domain.Result[domain.DeployData] {
	var target string
	var updateDependency bool
	return execute(ctx, r, p.Common, workflow[domain.DeployData]{
		name: WorkflowSyncDeployBranch,
		validate: func(rc *domain.RepositoryContext) error {
			var err error
			if target, err = resolveDeployBranch(rc, p.DeployBranch); err != nil {
				return err
			}
			updateDependency, err = r.validateDependencyUpdate(rc, p.DependencyUpdate)
			return err
		},
		prepare: func(_ context.Context, rc *domain.RepositoryContext, _ *StepSequence) (*plan[domain.DeployData], error) {
			git, err := r.open(rc)
			if err != nil {
				return nil, err
			}
			mainRef := repository.RemoteRef(rc.MainBranch)
			developRef := repository.RemoteRef(rc.DevelopBranch)
			steps := []Step{
				checkCleanStep(git, rc),
				{
					Name:     "fetch",
					Progress: "⬇️ Fetching all remotes...",
					Run:      git.FetchAll,
				},
				checkoutStep(git, rc.DevelopBranch),
				deleteLocalBranchStep(git, target),
				createBranchStep(git, target, repository.RemoteRef(target)),
				pullStep(git, target),
				rebaseStep(git, mainRef),
				rebaseStep(git, developRef),
			}
			if updateDependency {
				steps = append(steps, r.dependencyUpdateSteps(git, rc, p.NewDBVersion)...)
			}
			steps = append(steps, forcePushStep(git, target))
			return &plan[domain.DeployData]{
				data: domain.DeployData{Branch: target},
				dryRun: deployDryRun(rc, target, fmt.Sprintf("%s rebased onto %s and %s",
					repository.RemoteRef(target), mainRef, developRef), updateDependency, p.NewDBVersion),
				steps: steps,
				success: func() string {
					return fmt.Sprintf("Synced %s with %s and %s", target, rc.MainBranch, rc.DevelopBranch)
				},
			}, nil
		},
	})
}

// ResetDeployBranchesParams are the parameters of ResetDeployBranches.
type ResetDeployBranchesParams struct {
	Common
	Branches []string
}

// ResetDeployBranches force pushes main onto every selected deploy branch, in
// list order.
func (r *Runner) ResetDeployBranches(ctx context.Context, p ResetDeployBranchesParams) domain.Result[domain.BranchData] {
	branches := append([]string(nil), p.Branches...)
	return execute(ctx, r, p.Common, workflow[domain.BranchData]{
		name: WorkflowResetDeployBranches,
		validate: func(*domain.RepositoryContext) error {
			return ValidateBranchNames(branches)
		},
		prepare: func(_ context.Context, rc *domain.RepositoryContext, _ *StepSequence) (*plan[domain.BranchData], error) {
			git, err := r.open(rc)
			if err != nil {
				return nil, err
			}
			steps := []Step{
				checkCleanStep(git, rc),
				checkoutStep(git, rc.MainBranch),
				pullStep(git, rc.MainBranch),
			}
			for i, branch := range branches {
				steps = append(steps, Step{
					Name: "push " + rc.MainBranch + ":" + branch,
					Progress: fmt.Sprintf("⬆️ Force pushing %s → %s (%d/%d)...",
						rc.MainBranch, branch, i+1, len(branches)),
					Run: func(ctx context.Context) error {
						return git.PushToRemoteBranch(ctx, rc.MainBranch, branch, true)
					},
				})
			}
			return &plan[domain.BranchData]{
				data: domain.BranchData{Branches: branches},
				dryRun: fmt.Sprintf("Would force push %s to %s",
					rc.MainBranch, strings.Join(branches, ", ")),
				steps: steps,
				success: func() string {
					return fmt.Sprintf("Reset %s to %s", strings.Join(branches, ", "), rc.MainBranch)
				},
			}, nil
		},
	})
}

func rebaseStep(git repository.GitRepository, onto string) Step {
	return Step{
		Name:     "rebase onto " + onto,
		Progress: fmt.Sprintf("🔀 Rebasing onto %s...", onto),
		Run: func(ctx context.Context) error {
			return git.Rebase(ctx, onto)
		},
	}
}

func resolveDeployBranch(rc *domain.RepositoryContext, requested string) (string, error) {
	branch := strings.TrimSpace(requested)
	if branch == "" {
		var ok bool
		if branch, ok = rc.DefaultDeployBranch(); !ok {
			return "", fmt.Errorf("%w: no deploy branch given and none configured for %s",
				domain.ErrConfiguration, rc.RepoName)
		}
	}
	if err := ValidateBranchName(branch); err != nil {
		return "", err
	}
	return branch, nil
}

// validateDependencyUpdate reports whether the dependency update steps run.
func (r *Runner) validateDependencyUpdate(rc *domain.RepositoryContext, u DependencyUpdate) (bool, error) {
	if !u.UpdateDBPackage {
		return false, nil
	}
	if !rc.DependsOnDB {
		r.logger.Debug("ignoring dependency update for repository without database dependency",
			zap.String("repo", rc.RepoName))
		return false, nil
	}
	if rc.DBPackageName == "" {
		return false, fmt.Errorf("%w: db_package_name is not configured for %s",
			domain.ErrConfiguration, rc.RepoName)
	}
	if strings.TrimSpace(u.NewDBVersion) == "" {
		return false, fmt.Errorf("%w: a new database package version is required", domain.ErrInvalidParameters)
	}
	if err := ValidateVersion(u.NewDBVersion); err != nil {
		return false, err
	}
	return true, nil
}

func deployDryRun(rc *domain.RepositoryContext, target, source string, updateDependency bool, version string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Would rebuild %s from %s and force push it", target, source)
	if updateDependency {
		fmt.Fprintf(&b, ", updating %s to %s", rc.DBPackageName, version)
	}
	return b.String()
}
