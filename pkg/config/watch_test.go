package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
	"github.com/fyrsmithlabs/logtree/pkg/logging/logtest"
)

type reloadResult struct {
	applied *Applied
	err     error
}

func waitReload(t *testing.T, ch <-chan reloadResult) reloadResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return reloadResult{}
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logtree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: warning\nhandlers:\n  - {name: mem, type: memory}\n"), 0o600))

	h := logtest.NewManager(t)
	reloads := make(chan reloadResult, 8)
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, h.Manager, func(a *Applied, err error) {
			reloads <- reloadResult{a, err}
		})
	}()

	first := waitReload(t, reloads)
	require.NoError(t, first.err)
	assert.Equal(t, logging.Warning, h.Config().Level())

	require.NoError(t, os.WriteFile(path, []byte("level: debug\nhandlers:\n  - {name: mem, type: memory}\n"), 0o600))
	second := waitReload(t, reloads)
	require.NoError(t, second.err)
	assert.Equal(t, logging.Debug, h.Config().Level(), "reload is forced over the earlier configuration")

	mem, ok := second.applied.Memory("mem")
	require.True(t, ok)
	h.GetLogger("app").Debug("after reload")
	assert.Equal(t, 1, mem.Len())

	require.NoError(t, os.WriteFile(path, []byte("level: loud\n"), 0o600))
	bad := waitReload(t, reloads)
	require.Error(t, bad.err)
	assert.Nil(t, bad.applied)
	assert.Equal(t, logging.Debug, h.Config().Level(), "a failed reload keeps the previous configuration")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_InitialLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logtree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: xml\n"), 0o600))

	var got error
	err := Watch(t.Context(), path, logtest.NewManager(t).Manager, func(_ *Applied, err error) {
		got = err
	})
	require.Error(t, err)
	assert.Equal(t, err, got)
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(t.Context(), filepath.Join(t.TempDir(), "nope", "logtree.yaml"), logtest.NewManager(t).Manager, nil)
	assert.Error(t, err)
}
