package domain

import (
	"time"
)

// RunStatus represents the overall status of a workflow run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StepStatus represents the status of an individual step
type StepStatus string

const (
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// RunRecord is the journal entry of one workflow invocation. Failed runs are
// not rolled back; the record tells the operator which steps were applied.
type RunRecord struct {
	RunID     string        `json:"run_id"`
	Workflow  string        `json:"workflow"`
	Repo      string        `json:"repo"`
	Mode      ExecutionMode `json:"mode"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Steps     []StepRecord  `json:"steps"`
	Status    RunStatus     `json:"status"`
	Message   string        `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// StepRecord represents a single step in the run
type StepRecord struct {
	Name        string     `json:"name"`
	Status      StepStatus `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// NewRunRecord creates a running record
func NewRunRecord(runID, workflow, repo string, mode ExecutionMode) *RunRecord {
	now := time.Now()
	return &RunRecord{
		RunID:     runID,
		Workflow:  workflow,
		Repo:      repo,
		Mode:      mode,
		StartedAt: now,
		UpdatedAt: now,
		Steps:     []StepRecord{},
		Status:    RunStatusRunning,
	}
}

// StartStep appends a running step
func (r *RunRecord) StartStep(name string) {
	now := time.Now()
	r.Steps = append(r.Steps, StepRecord{
		Name:      name,
		Status:    StepStatusRunning,
		StartedAt: now,
	})
	r.UpdatedAt = now
}

// CompleteStep marks the running step with the given name as completed
func (r *RunRecord) CompleteStep(name string) {
	now := time.Now()
	if step := r.runningStep(name); step != nil {
		step.Status = StepStatusCompleted
		step.CompletedAt = &now
	}
	r.UpdatedAt = now
}

// FailStep marks the running step as failed and the whole run with it
func (r *RunRecord) FailStep(name string, err error) {
	now := time.Now()
	if step := r.runningStep(name); step != nil {
		step.Status = StepStatusFailed
		step.CompletedAt = &now
		step.Error = err.Error()
	}
	r.Status = RunStatusFailed
	r.Error = err.Error()
	r.UpdatedAt = now
}

// Finish closes the run with the final result message
func (r *RunRecord) Finish(success bool, message string) {
	if success {
		r.Status = RunStatusCompleted
	} else {
		r.Status = RunStatusFailed
	}
	r.Message = message
	r.UpdatedAt = time.Now()
}

// CompletedSteps returns the names of the steps that were applied, in order
func (r *RunRecord) CompletedSteps() []string {
	var done []string
	for _, s := range r.Steps {
		if s.Status == StepStatusCompleted {
			done = append(done, s.Name)
		}
	}
	return done
}

func (r *RunRecord) runningStep(name string) *StepRecord {
	for i := len(r.Steps) - 1; i >= 0; i-- {
		if r.Steps[i].Name == name && r.Steps[i].Status == StepStatusRunning {
			return &r.Steps[i]
		}
	}
	return nil
}
