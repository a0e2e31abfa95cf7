package usecase

import (
	"context"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
	"github.com/stretchr/testify/mock"
)

// Mock for GithubRepository
type mockGithubRepository struct {
	mock.Mock
}

func (m *mockGithubRepository) Init(ctx context.Context, owner string) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *mockGithubRepository) ListOpenPRs(
	ctx context.Context,
	owner, repo, base string,
) ([]domain.PullRequestSummary, error) {
	args := m.Called(ctx, owner, repo, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequestSummary), args.Error(1)
}

func (m *mockGithubRepository) CheckMergeability(
	ctx context.Context,
	owner, repo string,
	number int,
) (*domain.Mergeability, error) {
	args := m.Called(ctx, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mergeability), args.Error(1)
}

func (m *mockGithubRepository) CreatePR(
	ctx context.Context,
	owner, repo string,
	pr repository.NewPullRequest,
) (*domain.PRRef, error) {
	args := m.Called(ctx, owner, repo, pr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PRRef), args.Error(1)
}

func (m *mockGithubRepository) MergePR(
	ctx context.Context,
	owner, repo string,
	number int,
	method domain.MergeMethod,
	commitTitle string,
) error {
	args := m.Called(ctx, owner, repo, number, method, commitTitle)
	return args.Error(0)
}

func (m *mockGithubRepository) FindOpenPR(
	ctx context.Context,
	owner, repo, head, base string,
) (*domain.PullRequestSummary, error) {
	args := m.Called(ctx, owner, repo, head, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PullRequestSummary), args.Error(1)
}

func (m *mockGithubRepository) CIStatus(ctx context.Context, owner, repo string, number int) (domain.CIStatus, error) {
	args := m.Called(ctx, owner, repo, number)
	return args.Get(0).(domain.CIStatus), args.Error(1)
}
