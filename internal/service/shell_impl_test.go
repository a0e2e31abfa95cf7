package service

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellService_Run(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := context.Background()
	t.Run("Should run the command in the given directory", func(t *testing.T) {
		dir := t.TempDir()
		var stdout bytes.Buffer
		svc := NewShellService(nil, WithOutput(&stdout, &stdout))
		require.NoError(t, svc.Run(ctx, dir, "sh", "-c", "pwd"))
		assert.Contains(t, stdout.String(), dir)
	})
	t.Run("Should report the command line and exit code on failure", func(t *testing.T) {
		var out bytes.Buffer
		svc := NewShellService(nil, WithOutput(&out, &out))
		err := svc.Run(ctx, t.TempDir(), "sh", "-c", "exit 3")
		require.ErrorIs(t, err, domain.ErrExternalProcess)
		assert.Contains(t, err.Error(), "sh -c exit 3")
		assert.Contains(t, err.Error(), "exited with code 3")
	})
	t.Run("Should fail when the binary does not exist", func(t *testing.T) {
		svc := NewShellService(nil)
		err := svc.Run(ctx, t.TempDir(), "quickactions-missing-binary")
		assert.ErrorIs(t, err, domain.ErrExternalProcess)
	})
	t.Run("Should stop when the context is canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		svc := NewShellService(nil)
		err := svc.Run(canceled, t.TempDir(), "sh", "-c", "sleep 5")
		require.ErrorIs(t, err, domain.ErrExternalProcess)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
