package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/spf13/afero"
)

const (
	fallbackMainBranch    = "main"
	fallbackDevelopBranch = "develop"
)

// Resolver turns a logical repository name into a RepositoryContext. It is
// the only place branch naming precedence is applied.
type Resolver struct {
	cfg *Config
	fs  afero.Fs
}

// NewResolver creates a resolver over cfg. fs is only used for the
// existence check of the local path.
func NewResolver(cfg *Config, fs afero.Fs) *Resolver {
	return &Resolver{cfg: cfg, fs: fs}
}

// Resolve builds the context for repoName.
func (r *Resolver) Resolve(repoName string) (*domain.RepositoryContext, error) {
	repoCfg, ok := r.lookupRepo(repoName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrRepoNotConfigured, repoName)
	}
	if strings.TrimSpace(repoCfg.Path) == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrMissingRepoPath, repoName)
	}
	path := repoCfg.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.cfg.WorkspaceRoot, path)
	}
	info, err := r.fs.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s (repo %q)", domain.ErrInvalidRepoPath, path, repoName)
	}
	return &domain.RepositoryContext{
		Owner:          r.cfg.DefaultOwner,
		RepoName:       repoName,
		LocalPath:      path,
		MainBranch:     r.branch(repoName, func(b BranchConfig) string { return b.Main }, fallbackMainBranch),
		DevelopBranch:  r.branch(repoName, func(b BranchConfig) string { return b.Develop }, fallbackDevelopBranch),
		DeployBranches: r.deployBranches(repoName, repoCfg),
		IsDBRepo:       repoCfg.IsDBRepo,
		DependsOnDB:    repoCfg.DependsOnDB,
		DBPackageName:  repoCfg.DBPackageName,
	}, nil
}

// RepoNames lists the configured repositories in name order.
func (r *Resolver) RepoNames() []string {
	names := make([]string, 0, len(r.cfg.Repos))
	for name := range r.cfg.Repos {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// lookupRepo falls back to the lower-cased name since viper lower-cases map keys.
func (r *Resolver) lookupRepo(name string) (RepoConfig, bool) {
	if rc, ok := r.cfg.Repos[name]; ok {
		return rc, true
	}
	rc, ok := r.cfg.Repos[strings.ToLower(name)]
	return rc, ok
}

func (r *Resolver) bucket(name string) (BranchConfig, bool) {
	if b, ok := r.cfg.DefaultBranches[name]; ok {
		return b, true
	}
	b, ok := r.cfg.DefaultBranches[strings.ToLower(name)]
	return b, ok
}

// branch applies repo bucket > default bucket > fallback.
func (r *Resolver) branch(repoName string, pick func(BranchConfig) string, fallback string) string {
	if b, ok := r.bucket(repoName); ok && pick(b) != "" {
		return pick(b)
	}
	if b, ok := r.cfg.DefaultBranches[DefaultBucket]; ok && pick(b) != "" {
		return pick(b)
	}
	return fallback
}

// deployBranches returns a copy of the first non-empty source.
func (r *Resolver) deployBranches(repoName string, repoCfg RepoConfig) []string {
	sources := [][]string{repoCfg.DeployBranches}
	if b, ok := r.bucket(repoName); ok {
		sources = append(sources, b.DeployBranches)
	}
	if b, ok := r.cfg.DefaultBranches[DefaultBucket]; ok {
		sources = append(sources, b.DeployBranches)
	}
	for _, src := range sources {
		if len(src) > 0 {
			return append([]string(nil), src...)
		}
	}
	return []string{}
}
