package repository

import (
	"context"

	"github.com/n-v-nam/github-quickactions/internal/domain"
)

// CredentialProvider yields the bearer token a GitHub session authenticates with.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// NewPullRequest is the input of GithubRepository.CreatePR.
type NewPullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
}

// GithubRepository defines the pull request operations the workflows use.
// Every call except Init fails with domain.ErrUnauthenticated until Init succeeds.
type GithubRepository interface {
	Init(ctx context.Context, owner string) error
	ListOpenPRs(ctx context.Context, owner, repo, base string) ([]domain.PullRequestSummary, error)
	CheckMergeability(ctx context.Context, owner, repo string, number int) (*domain.Mergeability, error)
	CreatePR(ctx context.Context, owner, repo string, pr NewPullRequest) (*domain.PRRef, error)
	MergePR(ctx context.Context, owner, repo string, number int, method domain.MergeMethod, commitTitle string) error
	FindOpenPR(ctx context.Context, owner, repo, head, base string) (*domain.PullRequestSummary, error)
	CIStatus(ctx context.Context, owner, repo string, number int) (domain.CIStatus, error)
}
