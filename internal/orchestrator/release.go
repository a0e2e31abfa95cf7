package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
)

// CreateReleasePRParams are the parameters of CreateReleasePR.
type CreateReleasePRParams struct {
	Common
	// Title defaults to ":rocket: Release DD/MM"
	Title string
}

// CreateReleasePR opens a pull request from the develop branch into main.
func (r *Runner) CreateReleasePR(ctx context.Context, p CreateReleasePRParams) domain.Result[domain.PRRef] {
	return execute(ctx, r, p.Common, workflow[domain.PRRef]{
		name: WorkflowCreateReleasePR,
		prepare: func(ctx context.Context, rc *domain.RepositoryContext, seq *StepSequence) (*plan[domain.PRRef], error) {
			if err := seq.Run(ctx, r.initSessionStep(rc)); err != nil {
				return nil, err
			}
			title := strings.TrimSpace(p.Title)
			if title == "" {
				title = r.defaultReleaseTitle()
			}
			out := &plan[domain.PRRef]{
				dryRun: fmt.Sprintf("Would create PR %s → %s for %s with title %q",
					rc.DevelopBranch, rc.MainBranch, rc.RepoName, title),
			}
			out.steps = []Step{{
				Name:     "create pull request",
				Progress: fmt.Sprintf("📝 Creating PR %s → %s...", rc.DevelopBranch, rc.MainBranch),
				Run: func(ctx context.Context) error {
					ref, err := r.github.CreatePR(ctx, rc.Owner, rc.RepoName, repository.NewPullRequest{
						Title: title,
						Body:  ReleasePRBody,
						Head:  rc.DevelopBranch,
						Base:  rc.MainBranch,
					})
					if err != nil {
						return err
					}
					out.data = *ref
					return nil
				},
			}}
			out.success = func() string {
				return fmt.Sprintf("Created release PR #%d (%s → %s)", out.data.PRNumber, rc.DevelopBranch, rc.MainBranch)
			}
			return out, nil
		},
	})
}

// MergeReleasePRParams are the parameters of MergeReleasePR.
type MergeReleasePRParams struct {
	Common
}

// MergeReleasePR rebase-merges the open pull request from develop into main.
func (r *Runner) MergeReleasePR(ctx context.Context, p MergeReleasePRParams) domain.Result[domain.PRRef] {
	return execute(ctx, r, p.Common, workflow[domain.PRRef]{
		name: WorkflowMergeReleasePR,
		prepare: func(ctx context.Context, rc *domain.RepositoryContext, seq *StepSequence) (*plan[domain.PRRef], error) {
			var pr *domain.PullRequestSummary
			err := seq.Run(ctx,
				r.initSessionStep(rc),
				Step{
					Name:     "find release PR",
					Progress: fmt.Sprintf("🔍 Looking for release PR %s → %s...", rc.DevelopBranch, rc.MainBranch),
					Run: func(ctx context.Context) error {
						found, err := r.github.FindOpenPR(ctx, rc.Owner, rc.RepoName, rc.DevelopBranch, rc.MainBranch)
						if err != nil {
							return err
						}
						if found == nil {
							return fmt.Errorf("%w: no open PR %s → %s in %s",
								domain.ErrNotFound, rc.DevelopBranch, rc.MainBranch, rc.FullName())
						}
						pr = found
						return nil
					},
				},
			)
			if err != nil {
				return nil, err
			}
			return &plan[domain.PRRef]{
				data:   domain.PRRef{PRNumber: pr.Number, URL: pr.URL},
				dryRun: fmt.Sprintf("Would rebase & merge PR #%d (%s)", pr.Number, pr.Title),
				steps: []Step{{
					Name:     fmt.Sprintf("merge PR #%d", pr.Number),
					Progress: fmt.Sprintf("🔀 Rebase & merging PR #%d...", pr.Number),
					Run: func(ctx context.Context) error {
						return r.github.MergePR(ctx, rc.Owner, rc.RepoName, pr.Number, domain.MergeMethodRebase, "")
					},
				}},
				success: func() string {
					return fmt.Sprintf("Rebase & merged release PR #%d", pr.Number)
				},
			}, nil
		},
	})
}

// BumpPackageVersionParams are the parameters of BumpPackageVersion.
type BumpPackageVersionParams struct {
	Common
	// Branch defaults to the develop branch
	Branch string
}

// BumpPackageVersion bumps the manifest version, commits and pushes it.
func (r *Runner) BumpPackageVersion(ctx context.Context, p BumpPackageVersionParams) domain.Result[domain.VersionData] {
	branch := strings.TrimSpace(p.Branch)
	return execute(ctx, r, p.Common, workflow[domain.VersionData]{
		name: WorkflowBumpPackageVersion,
		validate: func(rc *domain.RepositoryContext) error {
			if branch == "" {
				branch = rc.DevelopBranch
			}
			return ValidateBranchName(branch)
		},
		prepare: func(ctx context.Context, rc *domain.RepositoryContext, seq *StepSequence) (*plan[domain.VersionData], error) {
			var current, next string
			err := seq.Run(ctx,
				r.readVersionStep(rc, &current),
				Step{
					Name:     "compute next version",
					Progress: "🧮 Computing next version...",
					Run: func(context.Context) error {
						v, err := domain.BumpVersion(current)
						next = v
						return err
					},
				},
			)
			if err != nil {
				return nil, err
			}
			git, err := r.open(rc)
			if err != nil {
				return nil, err
			}
			return &plan[domain.VersionData]{
				data:   domain.VersionData{Version: next},
				dryRun: fmt.Sprintf("%s: %s → %s (branch %s)", rc.RepoName, current, next, branch),
				steps: []Step{
					checkCleanStep(git, rc),
					checkoutStep(git, branch),
					pullStep(git, branch),
					{
						Name:     "write version",
						Progress: fmt.Sprintf("📝 Updating version %s → %s...", current, next),
						Run: func(ctx context.Context) error {
							return r.manifest.WriteVersion(ctx, rc.LocalPath, next)
						},
					},
					{
						Name:     "commit version",
						Progress: "💾 Committing version bump...",
						Run: func(ctx context.Context) error {
							return git.CommitChanges(ctx, fmt.Sprintf(bumpCommitFormat, next), repository.CommitOptions{
								Paths:     []string{domain.ManifestFile},
								SkipHooks: true,
							})
						},
					},
					{
						Name:     "push " + branch,
						Progress: fmt.Sprintf("⬆️ Pushing %s...", branch),
						Run: func(ctx context.Context) error {
							return git.Push(ctx, branch)
						},
					},
				},
				success: func() string {
					return fmt.Sprintf("%s: bumped %s → %s and pushed %s", rc.RepoName, current, next, branch)
				},
			}, nil
		},
	})
}

// PushReleaseTagParams are the parameters of PushReleaseTag.
type PushReleaseTagParams struct {
	Common
}

// PushReleaseTag tags the synced main branch with v<version> and pushes the tag.
func (r *Runner) PushReleaseTag(ctx context.Context, p PushReleaseTagParams) domain.Result[domain.TagData] {
	return execute(ctx, r, p.Common, workflow[domain.TagData]{
		name: WorkflowPushReleaseTag,
		prepare: func(ctx context.Context, rc *domain.RepositoryContext, seq *StepSequence) (*plan[domain.TagData], error) {
			var version string
			if err := seq.Run(ctx, r.readVersionStep(rc, &version)); err != nil {
				return nil, err
			}
			if _, err := domain.NewVersion(version); err != nil {
				return nil, err
			}
			tag := domain.FormatTag(version)
			git, err := r.open(rc)
			if err != nil {
				return nil, err
			}
			return &plan[domain.TagData]{
				data:   domain.TagData{Tag: tag},
				dryRun: fmt.Sprintf("Would create & push tag %s on %s", tag, rc.MainBranch),
				steps: []Step{
					checkCleanStep(git, rc),
					checkoutStep(git, rc.MainBranch),
					pullStep(git, rc.MainBranch),
					ensureSyncedStep(git, rc.MainBranch),
					{
						Name:     "check tag " + tag,
						Progress: fmt.Sprintf("🔍 Checking whether tag %s exists...", tag),
						Run: func(ctx context.Context) error {
							exists, err := git.TagExists(ctx, tag)
							if err != nil {
								return err
							}
							if exists {
								return fmt.Errorf("%w: tag %s", domain.ErrAlreadyExists, tag)
							}
							return nil
						},
					},
					{
						Name:     "create tag " + tag,
						Progress: fmt.Sprintf("🏷️ Creating tag %s...", tag),
						Run: func(ctx context.Context) error {
							return git.CreateTag(ctx, tag, tag)
						},
					},
					{
						Name:     "push tag " + tag,
						Progress: fmt.Sprintf("⬆️ Pushing tag %s...", tag),
						Run: func(ctx context.Context) error {
							return git.PushTag(ctx, tag)
						},
					},
				},
				success: func() string {
					return fmt.Sprintf("Created & pushed tag %s", tag)
				},
			}, nil
		},
	})
}
