package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOpenPRsUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	t.Run("Should attach the CI status of every PR", func(t *testing.T) {
		gh := new(mockGithubRepository)
		gh.On("ListOpenPRs", ctx, "acme", "api", "develop").Return([]domain.PullRequestSummary{
			{Number: 1, Title: "a"}, {Number: 2, Title: "b"},
		}, nil)
		gh.On("CIStatus", ctx, "acme", "api", 1).Return(domain.CIStatusPassing, nil)
		gh.On("CIStatus", ctx, "acme", "api", 2).Return(domain.CIStatusFailing, nil)
		prs, err := (&ListOpenPRsUseCase{Github: gh}).Execute(ctx, "acme", "api", "develop")
		require.NoError(t, err)
		require.Len(t, prs, 2)
		assert.Equal(t, domain.CIStatusPassing, prs[0].CIStatus)
		assert.Equal(t, domain.CIStatusFailing, prs[1].CIStatus)
	})
	t.Run("Should propagate list errors", func(t *testing.T) {
		gh := new(mockGithubRepository)
		gh.On("ListOpenPRs", ctx, "acme", "api", "develop").Return(nil, domain.ErrUnauthenticated)
		_, err := (&ListOpenPRsUseCase{Github: gh}).Execute(ctx, "acme", "api", "develop")
		assert.True(t, errors.Is(err, domain.ErrRemoteAuth))
	})
}
