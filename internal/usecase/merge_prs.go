package usecase

import (
	"context"
	"fmt"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
)

// MergePRsUseCase squash-merges selected pull requests into the develop branch.
type MergePRsUseCase struct {
	Github repository.GithubRepository
}

// MergePRsInput selects the pull requests to merge. CommitTitles overrides the
// squash commit title per PR; without one GitHub uses the PR title.
type MergePRsInput struct {
	Owner         string
	Repo          string
	DevelopBranch string
	Numbers       []int
	CommitTitles  map[int]string
	DryRun        bool
	OnProgress    domain.ProgressFunc
}

// Execute merges the PRs in order. PRs that do not target the develop branch
// are skipped and a failed merge does not stop the batch.
func (uc *MergePRsUseCase) Execute(ctx context.Context, in MergePRsInput) []domain.PRMergeResult {
	results := make([]domain.PRMergeResult, 0, len(in.Numbers))
	for _, number := range in.Numbers {
		title := in.CommitTitles[number]
		status, err := uc.Github.CheckMergeability(ctx, in.Owner, in.Repo, number)
		if err != nil {
			results = append(results, domain.PRMergeResult{
				Number: number, Outcome: domain.PRMergeFail, CommitTitle: title, Reason: err.Error(),
			})
			continue
		}
		if status.Base != in.DevelopBranch {
			results = append(results, domain.PRMergeResult{
				Number:      number,
				Outcome:     domain.PRSkipped,
				CommitTitle: title,
				Reason:      fmt.Sprintf("targets %s instead of %s", status.Base, in.DevelopBranch),
			})
			continue
		}
		if in.DryRun {
			results = append(results, domain.PRMergeResult{
				Number:      number,
				Outcome:     domain.PRPlanned,
				CommitTitle: title,
				Reason:      "would squash & merge with " + describeTitle(title),
			})
			continue
		}
		in.OnProgress.Report(fmt.Sprintf("Merging PR #%d into %s", number, in.DevelopBranch))
		if err := uc.Github.MergePR(ctx, in.Owner, in.Repo, number, domain.MergeMethodSquash, title); err != nil {
			results = append(results, domain.PRMergeResult{
				Number: number, Outcome: domain.PRMergeFail, CommitTitle: title, Reason: err.Error(),
			})
			continue
		}
		results = append(results, domain.PRMergeResult{Number: number, Outcome: domain.PRMerged, CommitTitle: title})
	}
	return results
}

func describeTitle(title string) string {
	if title == "" {
		return "the PR title"
	}
	return fmt.Sprintf("commit title %q", title)
}
