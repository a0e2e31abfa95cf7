package orchestrator

import (
	"context"
	"fmt"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/repository"
	"go.uber.org/zap"
)

// Step is a single action of a workflow
type Step struct {
	// Name identifies the step in failure messages and the run journal
	Name string
	// Progress is reported immediately before the step runs
	Progress string
	Run      func(ctx context.Context) error
}

// StepError reports the step a workflow stopped at
type StepError struct {
	Workflow string
	Step     string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed at step %q: %v", e.Workflow, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StepSequence runs steps in order and stops at the first failure. Applied
// steps are never compensated; the run record lists them instead.
type StepSequence struct {
	workflow string
	progress domain.ProgressFunc
	record   *domain.RunRecord
	journal  repository.RunJournal
	logger   *zap.Logger
	dryRun   bool
}

// NewStepSequence creates a sequence for one workflow invocation. record and
// journal may be nil.
func NewStepSequence(
	workflow string,
	progress domain.ProgressFunc,
	record *domain.RunRecord,
	journal repository.RunJournal,
	logger *zap.Logger,
) *StepSequence {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StepSequence{
		workflow: workflow,
		progress: progress,
		record:   record,
		journal:  journal,
		logger:   logger,
	}
}

// DryRun reports whether the invocation only describes its mutating steps.
func (s *StepSequence) DryRun() bool {
	return s.dryRun
}

// Run executes steps until one fails. The error is a *StepError.
func (s *StepSequence) Run(ctx context.Context, steps ...Step) error {
	for _, step := range steps {
		if err := s.runStep(ctx, step); err != nil {
			return &StepError{Workflow: s.workflow, Step: step.Name, Err: err}
		}
	}
	return nil
}

func (s *StepSequence) runStep(ctx context.Context, step Step) error {
	s.progress.Report(step.Progress)
	if s.record != nil {
		s.record.StartStep(step.Name)
		s.save(ctx)
	}
	s.logger.Debug("running step", zap.String("workflow", s.workflow), zap.String("step", step.Name))
	if err := step.Run(ctx); err != nil {
		s.logger.Warn("step failed",
			zap.String("workflow", s.workflow), zap.String("step", step.Name), zap.Error(err))
		if s.record != nil {
			s.record.FailStep(step.Name, err)
			s.save(ctx)
		}
		return err
	}
	if s.record != nil {
		s.record.CompleteStep(step.Name)
		s.save(ctx)
	}
	return nil
}

// Finish closes the run record and persists it
func (s *StepSequence) Finish(ctx context.Context, success bool, message string) {
	if s.record == nil {
		return
	}
	s.record.Finish(success, message)
	s.save(ctx)
}

// Fail closes the run record as failed with err as its cause
func (s *StepSequence) Fail(ctx context.Context, message string, err error) {
	if s.record == nil {
		return
	}
	if s.record.Error == "" && err != nil {
		s.record.Error = err.Error()
	}
	s.Finish(ctx, false, message)
}

// save persists the record. Journal failures never fail the workflow.
func (s *StepSequence) save(ctx context.Context) {
	if s.journal == nil || s.record == nil {
		return
	}
	if err := s.journal.Save(context.WithoutCancel(ctx), s.record); err != nil {
		s.logger.Warn("failed to save run record",
			zap.String("run_id", s.record.RunID), zap.Error(err))
	}
}
