package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/usecase"
)

// ListOpenPRsParams are the parameters of ListOpenPRs.
type ListOpenPRsParams struct {
	Common
	// Base defaults to the develop branch
	Base string
}

// ListOpenPRs lists the open pull requests against base with their CI status.
func (r *Runner) ListOpenPRs(ctx context.Context, p ListOpenPRsParams) domain.Result[[]domain.PullRequestSummary] {
	base := strings.TrimSpace(p.Base)
	return execute(ctx, r, p.Common, workflow[[]domain.PullRequestSummary]{
		name: WorkflowListOpenPRs,
		validate: func(rc *domain.RepositoryContext) error {
			if base == "" {
				base = rc.DevelopBranch
			}
			return ValidateBranchName(base)
		},
		prepare: func(
			ctx context.Context,
			rc *domain.RepositoryContext,
			seq *StepSequence,
		) (*plan[[]domain.PullRequestSummary], error) {
			var prs []domain.PullRequestSummary
			uc := &usecase.ListOpenPRsUseCase{Github: r.github}
			err := seq.Run(ctx,
				r.initSessionStep(rc),
				Step{
					Name:     "list open PRs",
					Progress: fmt.Sprintf("🔍 Listing open PRs into %s...", base),
					Run: func(ctx context.Context) (err error) {
						prs, err = uc.Execute(ctx, rc.Owner, rc.RepoName, base)
						return err
					},
				},
			)
			if err != nil {
				return nil, err
			}
			summary := fmt.Sprintf("Found %d open PR(s) into %s", len(prs), base)
			return &plan[[]domain.PullRequestSummary]{
				data:    prs,
				dryRun:  summary,
				success: func() string { return summary },
			}, nil
		},
	})
}

// CheckPRsParams are the parameters of CheckPRs.
type CheckPRsParams struct {
	Common
	Numbers []int
}

// CheckPRs reports the merge readiness of the selected pull requests. Per-PR
// problems are part of the data and do not fail the result.
func (r *Runner) CheckPRs(ctx context.Context, p CheckPRsParams) domain.Result[[]domain.PRCheckResult] {
	return execute(ctx, r, p.Common, workflow[[]domain.PRCheckResult]{
		name: WorkflowCheckPRs,
		validate: func(*domain.RepositoryContext) error {
			return ValidatePRNumbers(p.Numbers)
		},
		prepare: func(
			ctx context.Context,
			rc *domain.RepositoryContext,
			seq *StepSequence,
		) (*plan[[]domain.PRCheckResult], error) {
			if err := seq.Run(ctx, r.initSessionStep(rc)); err != nil {
				return nil, err
			}
			uc := &usecase.CheckPRsUseCase{Github: r.github}
			results := uc.Execute(ctx, usecase.CheckPRsInput{
				Owner:         rc.Owner,
				Repo:          rc.RepoName,
				DevelopBranch: rc.DevelopBranch,
				Numbers:       p.Numbers,
				OnProgress:    p.OnProgress,
			})
			ready := 0
			for _, res := range results {
				if res.Outcome == domain.PRCheckReady {
					ready++
				}
			}
			summary := fmt.Sprintf("%d of %d PR(s) ready to merge into %s", ready, len(results), rc.DevelopBranch)
			return &plan[[]domain.PRCheckResult]{
				data:    results,
				dryRun:  summary,
				success: func() string { return summary },
			}, nil
		},
	})
}

// MergePRsParams are the parameters of MergePRs.
type MergePRsParams struct {
	Common
	Numbers []int
	// CommitTitles overrides the squash commit title per PR number
	CommitTitles map[int]string
}

// MergePRs squash-merges the selected pull requests into develop. The result
// fails when any PR could not be merged but still lists every outcome.
func (r *Runner) MergePRs(ctx context.Context, p MergePRsParams) domain.Result[[]domain.PRMergeResult] {
	return execute(ctx, r, p.Common, workflow[[]domain.PRMergeResult]{
		name:        WorkflowMergePRs,
		partialData: true,
		validate: func(*domain.RepositoryContext) error {
			return ValidatePRNumbers(p.Numbers)
		},
		prepare: func(
			ctx context.Context,
			rc *domain.RepositoryContext,
			seq *StepSequence,
		) (*plan[[]domain.PRMergeResult], error) {
			if err := seq.Run(ctx, r.initSessionStep(rc)); err != nil {
				return nil, err
			}
			uc := &usecase.MergePRsUseCase{Github: r.github}
			input := usecase.MergePRsInput{
				Owner:         rc.Owner,
				Repo:          rc.RepoName,
				DevelopBranch: rc.DevelopBranch,
				Numbers:       p.Numbers,
				CommitTitles:  p.CommitTitles,
				OnProgress:    p.OnProgress,
			}
			out := &plan[[]domain.PRMergeResult]{}
			if seq.DryRun() {
				input.DryRun = true
				out.data = uc.Execute(ctx, input)
				out.dryRun = fmt.Sprintf("Would squash & merge %d of %d PR(s) into %s",
					countMerges(out.data, domain.PRPlanned), len(p.Numbers), rc.DevelopBranch)
				return out, nil
			}
			out.steps = []Step{{
				Name:     "merge PRs",
				Progress: fmt.Sprintf("🔀 Squash & merging %d PR(s) into %s...", len(p.Numbers), rc.DevelopBranch),
				Run: func(ctx context.Context) error {
					out.data = uc.Execute(ctx, input)
					var failed []string
					for _, res := range out.data {
						if res.Outcome == domain.PRMergeFail {
							failed = append(failed, fmt.Sprintf("#%d", res.Number))
						}
					}
					if len(failed) > 0 {
						return fmt.Errorf("%w: could not merge %s", domain.ErrRemoteConflict, strings.Join(failed, ", "))
					}
					return nil
				},
			}}
			out.success = func() string {
				return fmt.Sprintf("Merged %d of %d PR(s) into %s",
					countMerges(out.data, domain.PRMerged), len(p.Numbers), rc.DevelopBranch)
			}
			return out, nil
		},
	})
}

func countMerges(results []domain.PRMergeResult, outcome domain.PRMergeOutcome) int {
	n := 0
	for _, res := range results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}
