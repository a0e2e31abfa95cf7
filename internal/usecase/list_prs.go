package usecase

import (
	"context"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
)

// ListOpenPRsUseCase lists open pull requests against a base branch together
// with their CI status.
type ListOpenPRsUseCase struct {
	Github repository.GithubRepository
}

// Execute returns at most one page of open PRs.
func (uc *ListOpenPRsUseCase) Execute(
	ctx context.Context,
	owner, repo, base string,
) ([]domain.PullRequestSummary, error) {
	prs, err := uc.Github.ListOpenPRs(ctx, owner, repo, base)
	if err != nil {
		return nil, err
	}
	for i := range prs {
		status, err := uc.Github.CIStatus(ctx, owner, repo, prs[i].Number)
		if err != nil {
			return nil, err
		}
		prs[i].CIStatus = status
	}
	return prs, nil
}
