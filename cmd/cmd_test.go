package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/n-v-nam/github-quickactions/internal/config"
	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParsePRNumbers(t *testing.T) {
	t.Run("Should accept plain and hash-prefixed numbers", func(t *testing.T) {
		numbers, err := parsePRNumbers([]string{"12", "#34"})
		require.NoError(t, err)
		assert.Equal(t, []int{12, 34}, numbers)
	})
	t.Run("Should reject anything else", func(t *testing.T) {
		_, err := parsePRNumbers([]string{"twelve"})
		assert.ErrorIs(t, err, domain.ErrInvalidParameters)
	})
}

func TestParseCommitTitles(t *testing.T) {
	t.Run("Should split on the first equals sign", func(t *testing.T) {
		titles, err := parseCommitTitles([]string{"12=feat: a=b", "#3= fix: c "})
		require.NoError(t, err)
		assert.Equal(t, map[int]string{12: "feat: a=b", 3: "fix: c"}, titles)
	})
	t.Run("Should reject entries without a title", func(t *testing.T) {
		_, err := parseCommitTitles([]string{"12"})
		assert.ErrorIs(t, err, domain.ErrInvalidParameters)
		_, err = parseCommitTitles([]string{"12= "})
		assert.ErrorIs(t, err, domain.ErrInvalidParameters)
	})
}

func TestWithRepoLock(t *testing.T) {
	ctx := context.Background()
	newRepo := func(t *testing.T) string {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
		return dir
	}
	t.Run("Should run fn while holding the lock", func(t *testing.T) {
		dir := newRepo(t)
		ran := false
		err := withRepoLock(ctx, dir, zap.NewNop(), func() error {
			ran = true
			other := flock.New(filepath.Join(dir, ".git", repoLockFile))
			locked, err := other.TryLock()
			require.NoError(t, err)
			assert.False(t, locked)
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ran)
	})
	t.Run("Should refuse when another process holds the lock", func(t *testing.T) {
		dir := newRepo(t)
		holder := flock.New(filepath.Join(dir, ".git", repoLockFile))
		locked, err := holder.TryLock()
		require.NoError(t, err)
		require.True(t, locked)
		defer func() { _ = holder.Unlock() }()

		shortCtx, cancel := context.WithTimeout(ctx, repoLockRetryWait)
		defer cancel()
		err = withRepoLock(shortCtx, dir, zap.NewNop(), func() error {
			t.Fatal("fn must not run")
			return nil
		})
		assert.ErrorIs(t, err, errRepoBusy)
	})
	t.Run("Should run unlocked outside a git checkout", func(t *testing.T) {
		ran := false
		require.NoError(t, withRepoLock(ctx, t.TempDir(), zap.NewNop(), func() error {
			ran = true
			return nil
		}))
		assert.True(t, ran)
	})
}

func TestPrinter(t *testing.T) {
	t.Run("Should print progress, data and the result message", func(t *testing.T) {
		var buf bytes.Buffer
		p := newPrinter(&buf)
		p.Progress("🔄 Checking out main...")
		p.CheckResults([]domain.PRCheckResult{{Number: 4, Outcome: domain.PRCheckReady}})
		p.MergeResults([]domain.PRMergeResult{{Number: 5, Outcome: domain.PRSkipped, Reason: "targets main"}})
		p.Result(true, "[DRY-RUN] Would create & push tag v1.0.0 on main")
		out := buf.String()
		assert.Contains(t, out, "Checking out main")
		assert.Contains(t, out, "PR #4: ✅ Ready")
		assert.Contains(t, out, "PR #5: skipped (targets main)")
		assert.Contains(t, out, "[DRY-RUN] Would create & push tag v1.0.0 on main")
	})
}

func TestPrintRepos(t *testing.T) {
	t.Run("Should list every repository with its resolved branches", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/work/api", 0o755))
		require.NoError(t, fs.MkdirAll("/work/db", 0o755))
		cfg := config.DefaultConfig()
		cfg.WorkspaceRoot = "/work"
		cfg.DefaultBranches = map[string]config.BranchConfig{}
		cfg.Repos["api"] = config.RepoConfig{Path: "api", DeployBranches: []string{"deploy-jp"}}
		cfg.Repos["db"] = config.RepoConfig{Path: "db", IsDBRepo: true, DBPackageName: "@acme/db"}
		cfg.Repos["web"] = config.RepoConfig{Path: "missing"}

		var buf bytes.Buffer
		printRepos(newPrinter(&buf), config.NewResolver(cfg, fs))
		out := buf.String()
		assert.Contains(t, out, "/work/api")
		assert.Contains(t, out, "deploy-jp")
		assert.Contains(t, out, "@acme/db")
		assert.Contains(t, out, "web")
		assert.Contains(t, out, domain.ErrInvalidRepoPath.Error())
		assert.Less(t, bytes.Index(buf.Bytes(), []byte("api")), bytes.Index(buf.Bytes(), []byte("web")))
	})
	t.Run("Should say so when nothing is configured", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.DefaultConfig()
		printRepos(newPrinter(&buf), config.NewResolver(cfg, afero.NewMemMapFs()))
		assert.Contains(t, buf.String(), "no repositories configured")
	})
}
