package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

const (
	repoLockFile      = "quickactions.lock"
	repoLockTimeout   = 5 * time.Second
	repoLockRetryWait = 200 * time.Millisecond
)

var errRepoBusy = errors.New("another quickactions run is using this repository")

// withRepoLock runs fn while holding an advisory lock inside the repository's
// .git directory. Repositories without a .git directory run unlocked.
func withRepoLock(ctx context.Context, repoPath string, logger *zap.Logger, fn func() error) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		logger.Debug("running without repository lock", zap.String("path", repoPath))
		return fn()
	}
	lock := flock.New(filepath.Join(gitDir, repoLockFile))
	lockCtx, cancel := context.WithTimeout(ctx, repoLockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, repoLockRetryWait)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to lock %s: %w", repoPath, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", errRepoBusy, repoPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release repository lock", zap.String("path", repoPath), zap.Error(err))
		}
	}()
	return fn()
}
