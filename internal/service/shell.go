package service

import "context"

// ShellService runs external commands such as the package manager.
type ShellService interface {
	Run(ctx context.Context, dir string, name string, args ...string) error
}
