package service

import (
	"context"

	"github.com/n-v-nam/github-quickactions/internal/domain"
)

// ManifestService reads and rewrites the package.json of a repository.
type ManifestService interface {
	ReadManifest(ctx context.Context, dir string) (*domain.Manifest, error)
	ReadVersion(ctx context.Context, dir string) (string, error)
	WriteVersion(ctx context.Context, dir string, version string) error
	// UpdateDependency sets pkg to version in dependencies and devDependencies
	// wherever it is already declared. It reports whether anything changed.
	UpdateDependency(ctx context.Context, dir string, pkg string, version string) (bool, error)
}
