// pkg/config/watch.go
package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// reloadDebounce collapses the bursts of events editors produce on save.
const reloadDebounce = 50 * time.Millisecond

// ReloadFunc receives the result of each reload. On error, applied is nil and
// the previous configuration stays in place.
type ReloadFunc func(applied *Applied, err error)

// Watch loads path, applies it to m and re-applies it with Force whenever the
// file changes, until ctx is done. The previous Applied is detached and closed
// after each successful reload, and the last one is closed when Watch returns.
// Watch blocks; the returned error is nil when ctx is cancelled.
//
// The parent directory is watched so atomic replace-on-save is observed.
func Watch(ctx context.Context, path string, m *logging.Manager, onReload ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &reloader{path: abs, manager: m, onReload: onReload}
	if err := w.reload(false); err != nil {
		return err
	}
	defer w.close()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			_ = w.reload(true)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onReload != nil {
				onReload(nil, fmt.Errorf("watcher: %w", err))
			}
		}
	}
}

type reloader struct {
	path     string
	manager  *logging.Manager
	onReload ReloadFunc
	current  *Applied
}

func (w *reloader) reload(force bool) error {
	applied, err := w.apply(force)
	if w.onReload != nil {
		w.onReload(applied, err)
	}
	return err
}

func (w *reloader) apply(force bool) (*Applied, error) {
	s, err := Load(w.path)
	if err != nil {
		return nil, err
	}
	s.Force = s.Force || force
	applied, err := s.Apply(w.manager)
	if err != nil {
		return nil, err
	}

	prev := w.current
	w.current = applied

	if prev != nil {
		prev.Detach(w.manager)
		_ = prev.Close()
	}
	return applied, nil
}

func (w *reloader) close() {
	if w.current != nil {
		_ = w.current.Close()
	}
}
