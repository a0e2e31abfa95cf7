package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"go.uber.org/zap"
)

// shellService is the implementation of the ShellService interface.
type shellService struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

// ShellOption configures a ShellService.
type ShellOption func(*shellService)

// WithOutput redirects the child's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) ShellOption {
	return func(s *shellService) {
		s.stdout = stdout
		s.stderr = stderr
	}
}

// NewShellService creates a ShellService whose children inherit the
// process's standard streams.
func NewShellService(logger *zap.Logger, opts ...ShellOption) ShellService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &shellService{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes name with args in dir and waits for it. Only exit code 0 is success.
func (s *shellService) Run(ctx context.Context, dir string, name string, args ...string) error {
	commandLine := strings.TrimSpace(name + " " + strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = s.stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	s.logger.Debug("running command", zap.String("dir", dir), zap.String("command", commandLine))
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrExternalProcess, commandLine, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %s exited with code %d", domain.ErrExternalProcess, commandLine, exitErr.ExitCode())
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrExternalProcess, commandLine, err)
}
