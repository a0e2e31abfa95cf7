package usecase

import (
	"context"
	"fmt"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
)

// CheckPRsUseCase reports whether selected pull requests are ready to merge
// into the develop branch.
type CheckPRsUseCase struct {
	Github repository.GithubRepository
}

// CheckPRsInput selects the pull requests to check.
type CheckPRsInput struct {
	Owner         string
	Repo          string
	DevelopBranch string
	Numbers       []int
	OnProgress    domain.ProgressFunc
}

// Execute checks every PR in order. A failing lookup is recorded on that PR
// and the batch continues.
func (uc *CheckPRsUseCase) Execute(ctx context.Context, in CheckPRsInput) []domain.PRCheckResult {
	results := make([]domain.PRCheckResult, 0, len(in.Numbers))
	for i, number := range in.Numbers {
		in.OnProgress.Report(fmt.Sprintf("Checking PR #%d (%d/%d)", number, i+1, len(in.Numbers)))
		status, err := uc.Github.CheckMergeability(ctx, in.Owner, in.Repo, number)
		if err != nil {
			results = append(results, domain.PRCheckResult{
				Number:  number,
				Outcome: domain.PRCheckError,
				Error:   err.Error(),
			})
			continue
		}
		result := domain.PRCheckResult{
			Number:         number,
			Mergeable:      status.Mergeable,
			MergeableState: status.MergeableState,
			Rebaseable:     status.Rebaseable,
			Base:           status.Base,
			URL:            status.URL,
		}
		switch {
		case status.Base != in.DevelopBranch:
			result.Outcome = domain.PRCheckWrongBase
		case status.Mergeable && status.Rebaseable:
			result.Outcome = domain.PRCheckReady
		default:
			result.Outcome = domain.PRCheckWarning
		}
		results = append(results, result)
	}
	return results
}
