package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
	"github.com/stretchr/testify/mock"
)

// Mock for GitRepository
type mockGitRepository struct{ mock.Mock }

func (m *mockGitRepository) Path() string {
	return m.Called().String(0)
}
func (m *mockGitRepository) CheckCleanState(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *mockGitRepository) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *mockGitRepository) CheckoutBranch(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *mockGitRepository) CreateBranch(ctx context.Context, name, startPoint string) error {
	return m.Called(ctx, name, startPoint).Error(0)
}
func (m *mockGitRepository) DeleteLocalBranch(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *mockGitRepository) Pull(ctx context.Context, branch string) error {
	return m.Called(ctx, branch).Error(0)
}
func (m *mockGitRepository) Push(ctx context.Context, branch string) error {
	return m.Called(ctx, branch).Error(0)
}
func (m *mockGitRepository) ForcePush(ctx context.Context, branch string) error {
	return m.Called(ctx, branch).Error(0)
}
func (m *mockGitRepository) PushToRemoteBranch(ctx context.Context, src, dst string, force bool) error {
	return m.Called(ctx, src, dst, force).Error(0)
}
func (m *mockGitRepository) FetchAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *mockGitRepository) Rebase(ctx context.Context, onto string) error {
	return m.Called(ctx, onto).Error(0)
}
func (m *mockGitRepository) TagExists(ctx context.Context, tag string) (bool, error) {
	args := m.Called(ctx, tag)
	return args.Bool(0), args.Error(1)
}
func (m *mockGitRepository) CreateTag(ctx context.Context, tag, message string) error {
	return m.Called(ctx, tag, message).Error(0)
}
func (m *mockGitRepository) PushTag(ctx context.Context, tag string) error {
	return m.Called(ctx, tag).Error(0)
}
func (m *mockGitRepository) CommitChanges(ctx context.Context, message string, opts repository.CommitOptions) error {
	return m.Called(ctx, message, opts).Error(0)
}
func (m *mockGitRepository) EnsureSyncedWithOrigin(ctx context.Context, branch string) error {
	return m.Called(ctx, branch).Error(0)
}

// methods lists the mocked git calls in the order they happened
func (m *mockGitRepository) methods() []string {
	names := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		names = append(names, c.Method)
	}
	return names
}

// Mock for GithubRepository
type mockGithubRepository struct{ mock.Mock }

func (m *mockGithubRepository) Init(ctx context.Context, owner string) error {
	return m.Called(ctx, owner).Error(0)
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
	return m.Called(ctx, owner, repo, number, method, commitTitle).Error(0)
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

// Mock for ManifestService
type mockManifestService struct{ mock.Mock }

func (m *mockManifestService) ReadManifest(ctx context.Context, dir string) (*domain.Manifest, error) {
	args := m.Called(ctx, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Manifest), args.Error(1)
}
func (m *mockManifestService) ReadVersion(ctx context.Context, dir string) (string, error) {
	args := m.Called(ctx, dir)
	return args.String(0), args.Error(1)
}
func (m *mockManifestService) WriteVersion(ctx context.Context, dir, version string) error {
	return m.Called(ctx, dir, version).Error(0)
}
func (m *mockManifestService) UpdateDependency(ctx context.Context, dir, pkg, version string) (bool, error) {
	args := m.Called(ctx, dir, pkg, version)
	return args.Bool(0), args.Error(1)
}

// Mock for ShellService
type mockShellService struct{ mock.Mock }

func (m *mockShellService) Run(ctx context.Context, dir, name string, args ...string) error {
	return m.Called(ctx, dir, name, args).Error(0)
}

// stubResolver serves fixed contexts by repository name
type stubResolver map[string]*domain.RepositoryContext

func (s stubResolver) Resolve(repoName string) (*domain.RepositoryContext, error) {
	rc, ok := s[repoName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRepoNotConfigured, repoName)
	}
	return rc, nil
}

// memJournal keeps the last saved copy of every record
type memJournal struct {
	mu      sync.Mutex
	records map[string]domain.RunRecord
	saves   int
	err     error
}

func newMemJournal() *memJournal {
	return &memJournal{records: make(map[string]domain.RunRecord)}
}

func (j *memJournal) Save(_ context.Context, record *domain.RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.saves++
	if j.err != nil {
		return j.err
	}
	cp := *record
	cp.Steps = append([]domain.StepRecord(nil), record.Steps...)
	j.records[record.RunID] = cp
	return nil
}

func (j *memJournal) Load(_ context.Context, runID string) (*domain.RunRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	record, ok := j.records[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

func (j *memJournal) LoadLatest(ctx context.Context) (*domain.RunRecord, error) {
	return nil, domain.ErrNotFound
}

func (j *memJournal) List(context.Context) ([]*domain.RunRecord, error) {
	return nil, nil
}
