package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckPRsUseCase_Execute(t *testing.T) {
	t.Run("Should classify each PR and keep going after errors", func(t *testing.T) {
		gh := new(mockGithubRepository)
		ctx := context.Background()
		gh.On("CheckMergeability", ctx, "acme", "api", 1).Return(&domain.Mergeability{
			Mergeable: true, MergeableState: "clean", Rebaseable: true, Base: "develop",
		}, nil)
		gh.On("CheckMergeability", ctx, "acme", "api", 2).Return(&domain.Mergeability{
			Mergeable: false, MergeableState: "dirty", Base: "develop",
		}, nil)
		gh.On("CheckMergeability", ctx, "acme", "api", 3).Return(nil, errors.New("PR #3 not found in acme/api"))
		gh.On("CheckMergeability", ctx, "acme", "api", 4).Return(&domain.Mergeability{
			Mergeable: true, MergeableState: "clean", Rebaseable: true, Base: "main", URL: "https://x/4",
		}, nil)
		var progress []string
		uc := &CheckPRsUseCase{Github: gh}
		results := uc.Execute(ctx, CheckPRsInput{
			Owner: "acme", Repo: "api", DevelopBranch: "develop",
			Numbers:    []int{1, 2, 3, 4},
			OnProgress: func(msg string) { progress = append(progress, msg) },
		})
		require.Len(t, results, 4)
		assert.Equal(t, domain.PRCheckReady, results[0].Outcome)
		assert.Equal(t, domain.PRCheckWarning, results[1].Outcome)
		assert.Equal(t, "PR #2: ⚠️ dirty", results[1].Summary())
		assert.Equal(t, domain.PRCheckError, results[2].Outcome)
		assert.Contains(t, results[2].Error, "not found")
		assert.Equal(t, domain.PRCheckWrongBase, results[3].Outcome)
		assert.Equal(t, "main", results[3].Base)
		assert.Equal(t, []string{
			"Checking PR #1 (1/4)", "Checking PR #2 (2/4)", "Checking PR #3 (3/4)", "Checking PR #4 (4/4)",
		}, progress)
		gh.AssertExpectations(t)
	})
	t.Run("Should return an empty list when nothing is selected", func(t *testing.T) {
		gh := new(mockGithubRepository)
		uc := &CheckPRsUseCase{Github: gh}
		results := uc.Execute(context.Background(), CheckPRsInput{Owner: "acme", Repo: "api", DevelopBranch: "develop"})
		assert.Empty(t, results)
		gh.AssertNotCalled(t, "CheckMergeability", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
