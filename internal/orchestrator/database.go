package orchestrator

import (
	"context"
	"fmt"

	"github.com/n-v-nam/github-quickactions/internal/domain"
)

// CreateDBPreReleaseParams are the parameters of CreateDBPreRelease.
type CreateDBPreReleaseParams struct {
	Common
}

// CreateDBPreRelease publishes <next>-pre-release of a database package from a
// fresh pre-release branch cut from develop.
func (r *Runner) CreateDBPreRelease(ctx context.Context, p CreateDBPreReleaseParams) domain.Result[domain.VersionData] {
	return execute(ctx, r, p.Common, workflow[domain.VersionData]{
		name:     WorkflowCreateDBPreRelease,
		validate: requireDBRepo,
		prepare: func(ctx context.Context, rc *domain.RepositoryContext, seq *StepSequence) (*plan[domain.VersionData], error) {
			var current, version string
			err := seq.Run(ctx,
				r.readVersionStep(rc, &current),
				Step{
					Name:     "compute pre-release version",
					Progress: "🧮 Computing pre-release version...",
					Run: func(context.Context) error {
						v, err := domain.PreReleaseVersion(current)
						version = v
						return err
					},
				},
			)
			if err != nil {
				return nil, err
			}
			branch := domain.PreReleaseBranch(version)
			git, err := r.open(rc)
			if err != nil {
				return nil, err
			}
			return &plan[domain.VersionData]{
				data: domain.VersionData{Version: version},
				dryRun: fmt.Sprintf("Would publish %s@%s from branch %s",
					rc.DBPackageName, version, branch),
				steps: []Step{
					checkCleanStep(git, rc),
					checkoutStep(git, rc.DevelopBranch),
					pullStep(git, rc.DevelopBranch),
					deleteLocalBranchStep(git, branch),
					createBranchStep(git, branch, rc.DevelopBranch),
					r.packageCommandStep(rc, "publish", "--new-version", version),
				},
				success: func() string {
					return fmt.Sprintf("Published pre-release %s from %s", version, branch)
				},
			}, nil
		},
	})
}

// PublishDBOfficialParams are the parameters of PublishDBOfficial.
type PublishDBOfficialParams struct {
	Common
}

// PublishDBOfficial publishes the manifest version of a database package from
// a main branch that is synced with origin.
func (r *Runner) PublishDBOfficial(ctx context.Context, p PublishDBOfficialParams) domain.Result[domain.VersionData] {
	return execute(ctx, r, p.Common, workflow[domain.VersionData]{
		name:     WorkflowPublishDBOfficial,
		validate: requireDBRepo,
		prepare: func(ctx context.Context, rc *domain.RepositoryContext, seq *StepSequence) (*plan[domain.VersionData], error) {
			var version string
			if err := seq.Run(ctx, r.readVersionStep(rc, &version)); err != nil {
				return nil, err
			}
			git, err := r.open(rc)
			if err != nil {
				return nil, err
			}
			return &plan[domain.VersionData]{
				data:   domain.VersionData{Version: version},
				dryRun: fmt.Sprintf("Would publish %s@%s from %s", rc.DBPackageName, version, rc.MainBranch),
				steps: []Step{
					checkCleanStep(git, rc),
					checkoutStep(git, rc.MainBranch),
					pullStep(git, rc.MainBranch),
					ensureSyncedStep(git, rc.MainBranch),
					r.packageCommandStep(rc, "publish"),
				},
				success: func() string {
					return fmt.Sprintf("Published %s %s", rc.RepoName, version)
				},
			}, nil
		},
	})
}
