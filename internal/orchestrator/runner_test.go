package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/n-v-nam/github-quickactions/internal/config"
	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	apiPath = "/repos/api"
	dbPath  = "/repos/db"
	webPath = "/repos/web"
)

type fixture struct {
	git      *mockGitRepository
	github   *mockGithubRepository
	manifest *mockManifestService
	shell    *mockShellService
	journal  *memJournal
	runner   *Runner
	progress []string
	opened   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		git:      new(mockGitRepository),
		github:   new(mockGithubRepository),
		manifest: new(mockManifestService),
		shell:    new(mockShellService),
		journal:  newMemJournal(),
	}
	resolver := stubResolver{
		"api": {
			Owner: "acme", RepoName: "api", LocalPath: apiPath,
			MainBranch: "main", DevelopBranch: "develop",
			DeployBranches: []string{"deploy-staging", "deploy-qa"},
			DependsOnDB:    true, DBPackageName: "@acme/db",
		},
		"db": {
			Owner: "acme", RepoName: "db", LocalPath: dbPath,
			MainBranch: "main", DevelopBranch: "develop",
			IsDBRepo: true, DBPackageName: "@acme/db",
		},
		"web": {
			Owner: "acme", RepoName: "web", LocalPath: webPath,
			MainBranch: "master", DevelopBranch: "dev",
			DeployBranches: []string{"deploy-web"},
		},
	}
	opener := func(path string) (repository.GitRepository, error) {
		f.opened = append(f.opened, path)
		return f.git, nil
	}
	ids := 0
	f.runner = NewRunner(resolver, opener, f.github, f.manifest, f.shell,
		WithJournal(f.journal),
		WithCommands(config.CommandsConfig{PackageManager: "yarn", StagingDeployScript: "staging:deploy"}),
		WithClock(func() time.Time { return time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC) }),
		WithRunIDGenerator(func() string {
			ids++
			return "run-" + string(rune('0'+ids))
		}),
	)
	return f
}

func (f *fixture) common(repo string, mode domain.ExecutionMode) Common {
	return Common{
		Repo: repo,
		Mode: mode,
		OnProgress: func(message string) {
			f.progress = append(f.progress, message)
		},
	}
}

func (f *fixture) lastRecord(t *testing.T) domain.RunRecord {
	t.Helper()
	record, err := f.journal.Load(context.Background(), "run-1")
	require.NoError(t, err)
	return *record
}

func TestRunner_Contract(t *testing.T) {
	ctx := context.Background()
	t.Run("Should fail without progress when the repository is not configured", func(t *testing.T) {
		f := newFixture(t)
		res := f.runner.PushReleaseTag(ctx, PushReleaseTagParams{Common: f.common("mobile", domain.ModeExecute)})
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, domain.ErrConfiguration)
		assert.Equal(t, "❌ PushReleaseTag failed: configuration error: repository not configured: mobile", res.Message)
		assert.Empty(t, f.progress)
		assert.Empty(t, f.opened)
		record := f.lastRecord(t)
		assert.Equal(t, domain.RunStatusFailed, record.Status)
		assert.Equal(t, "mobile", record.Repo)
	})
	t.Run("Should reject an unknown execution mode", func(t *testing.T) {
		f := newFixture(t)
		res := f.runner.CreateReleasePR(ctx, CreateReleasePRParams{Common: f.common("api", "preview")})
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, domain.ErrInvalidParameters)
		assert.Empty(t, f.progress)
	})
	t.Run("Should treat an empty mode as execute", func(t *testing.T) {
		f := newFixture(t)
		f.github.On("Init", mock.Anything, "acme").Return(nil)
		f.github.On("CreatePR", mock.Anything, "acme", "api", mock.Anything).
			Return(&domain.PRRef{PRNumber: 7}, nil)
		res := f.runner.CreateReleasePR(ctx, CreateReleasePRParams{Common: f.common("api", "")})
		require.True(t, res.Success, res.Message)
		assert.Equal(t, domain.ModeExecute, f.lastRecord(t).Mode)
	})
	t.Run("Should name the failed step and keep the cause", func(t *testing.T) {
		f := newFixture(t)
		cause := errors.New("remote rejected")
		f.manifest.On("ReadVersion", mock.Anything, apiPath).Return("1.4.0", nil)
		f.git.On("CheckCleanState", mock.Anything).Return(nil)
		f.git.On("CheckoutBranch", mock.Anything, "main").Return(nil)
		f.git.On("Pull", mock.Anything, "main").Return(nil)
		f.git.On("EnsureSyncedWithOrigin", mock.Anything, "main").Return(nil)
		f.git.On("TagExists", mock.Anything, "v1.4.0").Return(false, nil)
		f.git.On("CreateTag", mock.Anything, "v1.4.0", "v1.4.0").Return(nil)
		f.git.On("PushTag", mock.Anything, "v1.4.0").Return(cause)

		res := f.runner.PushReleaseTag(ctx, PushReleaseTagParams{Common: f.common("api", domain.ModeExecute)})
		assert.False(t, res.Success)
		assert.Equal(t, `❌ PushReleaseTag failed at step "push tag v1.4.0": remote rejected`, res.Message)
		assert.Same(t, cause, res.Err)

		record := f.lastRecord(t)
		assert.Equal(t, domain.RunStatusFailed, record.Status)
		assert.Equal(t, res.Message, record.Message)
		assert.Contains(t, record.CompletedSteps(), "create tag v1.4.0")
		assert.Equal(t, domain.StepStatusFailed, record.Steps[len(record.Steps)-1].Status)
	})
	t.Run("Should not fail the workflow when the journal cannot be written", func(t *testing.T) {
		f := newFixture(t)
		f.journal.err = errors.New("disk full")
		f.github.On("Init", mock.Anything, "acme").Return(nil)
		f.github.On("CreatePR", mock.Anything, "acme", "api", mock.Anything).
			Return(&domain.PRRef{PRNumber: 7}, nil)
		res := f.runner.CreateReleasePR(ctx, CreateReleasePRParams{Common: f.common("api", domain.ModeExecute)})
		assert.True(t, res.Success)
		assert.Positive(t, f.journal.saves)
	})
}

func TestRunner_DryRunMakesNoMutatingCalls(t *testing.T) {
	ctx := context.Background()
	// Only read-only expectations are registered; any mutating call panics the mock.
	readOnly := func(f *fixture) {
		f.manifest.On("ReadVersion", mock.Anything, mock.Anything).Return("2.0.9", nil)
		f.github.On("Init", mock.Anything, "acme").Return(nil)
		f.github.On("FindOpenPR", mock.Anything, "acme", "api", "develop", "main").
			Return(&domain.PullRequestSummary{Number: 42, Title: "Release"}, nil)
		f.github.On("CheckMergeability", mock.Anything, "acme", "api", 5).
			Return(&domain.Mergeability{Mergeable: true, Rebaseable: true, Base: "develop"}, nil)
	}
	cases := []struct {
		name   string
		run    func(f *fixture) (bool, string)
		prefix string
	}{
		{"CreateReleasePR", func(f *fixture) (bool, string) {
			res := f.runner.CreateReleasePR(ctx, CreateReleasePRParams{Common: f.common("api", domain.ModeDryRun)})
			return res.Success, res.Message
		}, "[DRY-RUN] Would create PR develop → main"},
		{"CreateDBPreRelease", func(f *fixture) (bool, string) {
			res := f.runner.CreateDBPreRelease(ctx, CreateDBPreReleaseParams{Common: f.common("db", domain.ModeDryRun)})
			return res.Success, res.Message
		}, "[DRY-RUN] Would publish @acme/db@2.1.0-pre-release"},
		{"DeployStaging", func(f *fixture) (bool, string) {
			res := f.runner.DeployStaging(ctx, DeployStagingParams{
				Common:           f.common("api", domain.ModeDryRun),
				DependencyUpdate: DependencyUpdate{UpdateDBPackage: true, NewDBVersion: "2.1.0"},
			})
			return res.Success, res.Message
		}, "[DRY-RUN] Would rebuild deploy-staging from develop"},
		{"MergeReleasePR", func(f *fixture) (bool, string) {
			res := f.runner.MergeReleasePR(ctx, MergeReleasePRParams{Common: f.common("api", domain.ModeDryRun)})
			return res.Success, res.Message
		}, "[DRY-RUN] Would rebase & merge PR #42"},
		{"BumpPackageVersion", func(f *fixture) (bool, string) {
			res := f.runner.BumpPackageVersion(ctx, BumpPackageVersionParams{Common: f.common("api", domain.ModeDryRun)})
			return res.Success, res.Message
		}, "[DRY-RUN] api: 2.0.9 → 2.1.0"},
		{"PublishDBOfficial", func(f *fixture) (bool, string) {
			res := f.runner.PublishDBOfficial(ctx, PublishDBOfficialParams{Common: f.common("db", domain.ModeDryRun)})
			return res.Success, res.Message
		}, "[DRY-RUN] Would publish @acme/db@2.0.9 from main"},
		{"PushReleaseTag", func(f *fixture) (bool, string) {
			res := f.runner.PushReleaseTag(ctx, PushReleaseTagParams{Common: f.common("api", domain.ModeDryRun)})
			return res.Success, res.Message
		}, "[DRY-RUN] Would create & push tag v2.0.9"},
		{"ResetDeployBranches", func(f *fixture) (bool, string) {
			res := f.runner.ResetDeployBranches(ctx, ResetDeployBranchesParams{
				Common:   f.common("api", domain.ModeDryRun),
				Branches: []string{"deploy-staging", "deploy-qa"},
			})
			return res.Success, res.Message
		}, "[DRY-RUN] Would force push main to deploy-staging, deploy-qa"},
		{"SyncDeployBranch", func(f *fixture) (bool, string) {
			res := f.runner.SyncDeployBranch(ctx, SyncDeployBranchParams{Common: f.common("api", domain.ModeDryRun)})
			return res.Success, res.Message
		}, "[DRY-RUN] Would rebuild deploy-staging from origin/deploy-staging"},
		{"MergePRs", func(f *fixture) (bool, string) {
			res := f.runner.MergePRs(ctx, MergePRsParams{Common: f.common("api", domain.ModeDryRun), Numbers: []int{5}})
			return res.Success, res.Message
		}, "[DRY-RUN] Would squash & merge 1 of 1 PR(s) into develop"},
	}
	for _, tc := range cases {
		t.Run("Should only describe "+tc.name, func(t *testing.T) {
			f := newFixture(t)
			readOnly(f)
			ok, message := tc.run(f)
			require.True(t, ok, message)
			assert.Contains(t, message, tc.prefix)
			assert.Empty(t, f.git.Calls)
			assert.Empty(t, f.shell.Calls)
			f.manifest.AssertNotCalled(t, "WriteVersion", mock.Anything, mock.Anything, mock.Anything)
			f.manifest.AssertNotCalled(t, "UpdateDependency", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.github.AssertNotCalled(t, "CreatePR", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.github.AssertNotCalled(t, "MergePR",
				mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			assert.Equal(t, domain.ModeDryRun, f.lastRecord(t).Mode)
		})
	}
}
