package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v74/github"
	"github.com/n-v-nam/github-quickactions/internal/domain"
	"go.uber.org/zap"
)

const listPerPage = 50

// githubRepository is the implementation of the GithubRepository interface.
type githubRepository struct {
	session *GithubSession
	logger  *zap.Logger
}

// NewGithubRepository creates a GithubRepository backed by session.
func NewGithubRepository(session *GithubSession, logger *zap.Logger) GithubRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &githubRepository{session: session, logger: logger}
}

// Init initializes the shared session.
func (r *githubRepository) Init(ctx context.Context, owner string) error {
	return r.session.Init(ctx, owner)
}

// ListOpenPRs lists up to 50 open pull requests targeting base.
func (r *githubRepository) ListOpenPRs(
	ctx context.Context,
	owner, repo, base string,
) ([]domain.PullRequestSummary, error) {
	client, err := r.session.Client()
	if err != nil {
		return nil, err
	}
	prs, _, err := client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State:       "open",
		Base:        base,
		ListOptions: github.ListOptions{PerPage: listPerPage},
	})
	if err != nil {
		return nil, mapGithubError(err, fmt.Sprintf("list open pull requests of %s/%s", owner, repo))
	}
	r.logger.Debug("listed open pull requests",
		zap.String("repo", owner+"/"+repo), zap.String("base", base), zap.Int("count", len(prs)))
	summaries := make([]domain.PullRequestSummary, 0, len(prs))
	for _, pr := range prs {
		summaries = append(summaries, toSummary(pr))
	}
	return summaries, nil
}

// CheckMergeability reports whether a pull request can be merged.
func (r *githubRepository) CheckMergeability(
	ctx context.Context,
	owner, repo string,
	number int,
) (*domain.Mergeability, error) {
	pr, err := r.getPR(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	state := pr.GetMergeableState()
	if state == "" {
		state = "unknown"
	}
	return &domain.Mergeability{
		Mergeable:      pr.GetMergeable(),
		MergeableState: state,
		Rebaseable:     domain.IsRebaseable(state),
		State:          pr.GetState(),
		Base:           pr.GetBase().GetRef(),
		Head:           pr.GetHead().GetRef(),
		Title:          pr.GetTitle(),
		URL:            pr.GetHTMLURL(),
	}, nil
}

// CreatePR opens a pull request.
func (r *githubRepository) CreatePR(
	ctx context.Context,
	owner, repo string,
	input NewPullRequest,
) (*domain.PRRef, error) {
	client, err := r.session.Client()
	if err != nil {
		return nil, err
	}
	pr, _, err := client.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(input.Title),
		Body:  github.Ptr(input.Body),
		Head:  github.Ptr(input.Head),
		Base:  github.Ptr(input.Base),
	})
	if err != nil {
		return nil, mapGithubError(err,
			fmt.Sprintf("create pull request %s -> %s in %s/%s", input.Head, input.Base, owner, repo))
	}
	r.logger.Info("created pull request",
		zap.String("repo", owner+"/"+repo), zap.Int("number", pr.GetNumber()))
	return &domain.PRRef{PRNumber: pr.GetNumber(), URL: pr.GetHTMLURL()}, nil
}

// MergePR merges a pull request with the given method.
func (r *githubRepository) MergePR(
	ctx context.Context,
	owner, repo string,
	number int,
	method domain.MergeMethod,
	commitTitle string,
) error {
	if err := method.Validate(); err != nil {
		return err
	}
	client, err := r.session.Client()
	if err != nil {
		return err
	}
	result, _, err := client.PullRequests.Merge(ctx, owner, repo, number, "", &github.PullRequestOptions{
		CommitTitle: commitTitle,
		MergeMethod: string(method),
	})
	what := fmt.Sprintf("merge PR #%d in %s/%s", number, owner, repo)
	if err != nil {
		return mapMergeError(err, what, number, owner, repo)
	}
	if !result.GetMerged() {
		return fmt.Errorf("%w: %s: %s", domain.ErrRemoteConflict, what, result.GetMessage())
	}
	r.logger.Info("merged pull request",
		zap.String("repo", owner+"/"+repo), zap.Int("number", number), zap.String("method", string(method)))
	return nil
}

// FindOpenPR returns the first open pull request from head into base, or nil.
func (r *githubRepository) FindOpenPR(
	ctx context.Context,
	owner, repo, head, base string,
) (*domain.PullRequestSummary, error) {
	prs, err := r.ListOpenPRs(ctx, owner, repo, base)
	if err != nil {
		return nil, err
	}
	for i := range prs {
		if prs[i].Head == head {
			return &prs[i], nil
		}
	}
	return nil, nil
}

// CIStatus summarizes the check runs of a pull request head. API failures
// read as pending.
func (r *githubRepository) CIStatus(
	ctx context.Context,
	owner, repo string,
	number int,
) (domain.CIStatus, error) {
	client, err := r.session.Client()
	if err != nil {
		return "", err
	}
	checks, _, err := client.Checks.ListCheckRunsForRef(ctx, owner, repo, fmt.Sprintf("pull/%d/head", number), nil)
	if err != nil {
		r.logger.Debug("check runs unavailable", zap.Int("number", number), zap.Error(err))
		return domain.CIStatusPending, nil
	}
	runs := checks.CheckRuns
	allPassed := len(runs) > 0
	for _, run := range runs {
		completed := run.GetStatus() == "completed"
		if completed && run.GetConclusion() == "failure" {
			return domain.CIStatusFailing, nil
		}
		if !completed || run.GetConclusion() != "success" {
			allPassed = false
		}
	}
	if allPassed {
		return domain.CIStatusPassing, nil
	}
	return domain.CIStatusPending, nil
}

func (r *githubRepository) getPR(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	client, err := r.session.Client()
	if err != nil {
		return nil, err
	}
	pr, _, err := client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: PR #%d not found in %s/%s, check the number and your access",
				domain.ErrRemoteNotFound, number, owner, repo)
		}
		return nil, mapGithubError(err, fmt.Sprintf("get PR #%d in %s/%s", number, owner, repo))
	}
	return pr, nil
}

func toSummary(pr *github.PullRequest) domain.PullRequestSummary {
	return domain.PullRequestSummary{
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Author:         pr.GetUser().GetLogin(),
		Mergeable:      pr.Mergeable,
		MergeableState: pr.GetMergeableState(),
		Rebaseable:     domain.IsRebaseable(pr.GetMergeableState()),
		Base:           pr.GetBase().GetRef(),
		Head:           pr.GetHead().GetRef(),
		URL:            pr.GetHTMLURL(),
	}
}

func statusCode(err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

func mapGithubError(err error, what string) error {
	switch statusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s: %v", domain.ErrRemoteAuth, what, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s: %v", domain.ErrRemoteNotFound, what, err)
	default:
		return fmt.Errorf("failed to %s: %w", what, err)
	}
}

func mapMergeError(err error, what string, number int, owner, repo string) error {
	switch statusCode(err) {
	case http.StatusMethodNotAllowed, http.StatusConflict, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s: %v", domain.ErrRemoteConflict, what, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: PR #%d not found in %s/%s", domain.ErrRemoteNotFound, number, owner, repo)
	default:
		return mapGithubError(err, what)
	}
}
