package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/n-v-nam/github-quickactions/internal/config"
	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
	"github.com/n-v-nam/github-quickactions/internal/service"
	"go.uber.org/zap"
)

// ContextResolver builds the RepositoryContext of a configured repository.
type ContextResolver interface {
	Resolve(repoName string) (*domain.RepositoryContext, error)
}

// Common holds the parameters every workflow takes.
type Common struct {
	Repo       string
	Mode       domain.ExecutionMode
	OnProgress domain.ProgressFunc
}

// Runner executes the release workflows against configured repositories.
// Each workflow resolves the repository, validates its parameters, runs its
// read-only steps and then either describes (dry-run) or applies (execute)
// its mutating steps. It always returns exactly one Result.
type Runner struct {
	resolver ContextResolver
	openGit  repository.GitOpener
	github   repository.GithubRepository
	manifest service.ManifestService
	shell    service.ShellService
	journal  repository.RunJournal
	commands config.CommandsConfig
	logger   *zap.Logger
	now      func() time.Time
	newRunID func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithJournal records every invocation in journal.
func WithJournal(journal repository.RunJournal) Option {
	return func(r *Runner) {
		r.journal = journal
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCommands overrides the package manager and the staging deploy script.
func WithCommands(commands config.CommandsConfig) Option {
	return func(r *Runner) {
		if commands.PackageManager != "" {
			r.commands.PackageManager = commands.PackageManager
		}
		if commands.StagingDeployScript != "" {
			r.commands.StagingDeployScript = commands.StagingDeployScript
		}
	}
}

// WithClock sets the clock used for the default release title.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithRunIDGenerator sets how run IDs are generated.
func WithRunIDGenerator(newRunID func() string) Option {
	return func(r *Runner) {
		r.newRunID = newRunID
	}
}

// NewRunner creates a Runner. The GitHub session behind github is owned by the
// caller and shared by every workflow.
func NewRunner(
	resolver ContextResolver,
	openGit repository.GitOpener,
	github repository.GithubRepository,
	manifest service.ManifestService,
	shell service.ShellService,
	opts ...Option,
) *Runner {
	r := &Runner{
		resolver: resolver,
		openGit:  openGit,
		github:   github,
		manifest: manifest,
		shell:    shell,
		commands: config.CommandsConfig{
			PackageManager:      DefaultPackageManager,
			StagingDeployScript: DefaultStagingDeployScript,
		},
		logger:   zap.NewNop(),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// plan is what a workflow intends to do once its read-only steps are done.
type plan[T any] struct {
	data    T
	dryRun  string
	steps   []Step
	success func() string
}

// workflow describes one operation of the Runner.
type workflow[T any] struct {
	name string
	// validate runs before any adapter call or progress event
	validate func(rc *domain.RepositoryContext) error
	// prepare may only call read-only adapters
	prepare func(ctx context.Context, rc *domain.RepositoryContext, seq *StepSequence) (*plan[T], error)
	// partialData keeps the plan data on a failed result
	partialData bool
}

func execute[T any](ctx context.Context, r *Runner, common Common, wf workflow[T]) domain.Result[T] {
	record := domain.NewRunRecord(r.newRunID(), wf.name, common.Repo, common.Mode)
	seq := NewStepSequence(wf.name, common.OnProgress, record, r.journal, r.logger)
	log := r.logger.With(
		zap.String("workflow", wf.name), zap.String("repo", common.Repo), zap.String("run_id", record.RunID))

	mode, err := domain.ParseExecutionMode(string(common.Mode))
	if err != nil {
		return fail[T](ctx, seq, log, wf.name, err)
	}
	record.Mode = mode
	seq.dryRun = mode.IsDryRun()
	rc, err := r.resolver.Resolve(common.Repo)
	if err != nil {
		return fail[T](ctx, seq, log, wf.name, err)
	}
	if wf.validate != nil {
		if err := wf.validate(rc); err != nil {
			return fail[T](ctx, seq, log, wf.name, err)
		}
	}
	log.Info("workflow started", zap.String("mode", string(mode)))
	p, err := wf.prepare(ctx, rc, seq)
	if err != nil {
		return fail[T](ctx, seq, log, wf.name, err)
	}
	if mode.IsDryRun() {
		message := domain.DryRunPrefix + " " + p.dryRun
		seq.Finish(ctx, true, message)
		log.Info("dry-run completed")
		return domain.Succeed(message, p.data)
	}
	if err := seq.Run(ctx, p.steps...); err != nil {
		res := fail[T](ctx, seq, log, wf.name, err)
		if wf.partialData {
			res.Data = p.data
		}
		return res
	}
	message := "✅ " + p.success()
	seq.Finish(ctx, true, message)
	log.Info("workflow completed")
	return domain.Succeed(message, p.data)
}

func fail[T any](ctx context.Context, seq *StepSequence, log *zap.Logger, workflow string, err error) domain.Result[T] {
	message, cause := failureMessage(workflow, err)
	seq.Fail(ctx, message, cause)
	log.Warn("workflow failed", zap.String("kind", domain.ErrorKind(cause)), zap.Error(cause))
	return domain.Fail[T](message, cause)
}

func failureMessage(workflow string, err error) (string, error) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return "❌ " + stepErr.Error(), stepErr.Err
	}
	return fmt.Sprintf("❌ %s failed: %v", workflow, err), err
}

func (r *Runner) open(rc *domain.RepositoryContext) (repository.GitRepository, error) {
	git, err := r.openGit(rc.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s at %s: %w", rc.RepoName, rc.LocalPath, err)
	}
	return git, nil
}

func (r *Runner) defaultReleaseTitle() string {
	return fmt.Sprintf(releaseTitleFormat, r.now().Format(releaseDateLayout))
}
