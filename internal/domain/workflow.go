package domain

import (
	"fmt"
	"strings"
)

// ExecutionMode selects between applying a workflow and only describing it.
type ExecutionMode string

const (
	ModeExecute ExecutionMode = "execute"
	ModeDryRun  ExecutionMode = "dry-run"
)

// DryRunPrefix starts the message of every successful dry-run result.
const DryRunPrefix = "[DRY-RUN]"

// ParseExecutionMode maps a user supplied mode onto an ExecutionMode.
// An empty string selects execute.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch ExecutionMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeExecute:
		return ModeExecute, nil
	case ModeDryRun:
		return ModeDryRun, nil
	default:
		return "", fmt.Errorf("%w: unknown execution mode %q", ErrInvalidParameters, s)
	}
}

// IsDryRun reports whether the mode forbids mutating calls.
func (m ExecutionMode) IsDryRun() bool {
	return m == ModeDryRun
}

// ProgressFunc receives one human readable message per workflow step.
type ProgressFunc func(message string)

// Report calls f when it is set.
func (f ProgressFunc) Report(message string) {
	if f != nil {
		f(message)
	}
}

// Result is the single outcome of a workflow invocation.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	// Err is the cause of a failed result, kept for errors.Is checks.
	Err error `json:"-"`
}

// Succeed builds a successful result.
func Succeed[T any](message string, data T) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

// Fail builds a failed result carrying err.
func Fail[T any](message string, err error) Result[T] {
	return Result[T]{Success: false, Message: message, Err: err}
}

// PRRef identifies a created or merged pull request.
type PRRef struct {
	PRNumber int    `json:"prNumber"`
	URL      string `json:"url,omitempty"`
}

// VersionData carries the version a workflow computed or applied.
type VersionData struct {
	Version string `json:"version"`
}

// TagData carries the tag a workflow created.
type TagData struct {
	Tag string `json:"tag"`
}

// BranchData carries the branches a workflow pushed.
type BranchData struct {
	Branches []string `json:"branches"`
}

// DeployData carries the deploy branch a workflow rebuilt.
type DeployData struct {
	Branch string `json:"branch"`
}
