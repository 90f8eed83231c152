// Package watcher observes the backup directory for out-of-band deletions
// and reconciles the registry so entries never point at files that are gone.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"snapback/internal/registry"
	"snapback/internal/workspace"
)

// DefaultDebounce is the quiet period after the last change notification
// before a reconciliation pass runs. Platforms deliver rename/delete events
// inconsistently, so the bridge never trusts the event op; it re-checks
// existence after the window instead.
const DefaultDebounce = 200 * time.Millisecond

// Bridge watches one workspace's backup directory. Lifecycle: New → Start
// (watching) → Stop (terminal). Rebinding to another workspace means
// stopping this bridge and creating a new one, never two watches at once.
type Bridge struct {
	ws       *workspace.Context
	store    *registry.Store
	debounce time.Duration

	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a bridge for the workspace's backup directory.
func New(ws *workspace.Context, store *registry.Store, debounce time.Duration) *Bridge {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Bridge{
		ws:       ws,
		store:    store,
		debounce: debounce,
		done:     make(chan struct{}),
	}
}

// Start begins watching. The backup directory must exist. The snippet
// subfolder is watched too when present; fsnotify watches are not recursive.
func (b *Bridge) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fsw.Add(b.ws.BackupDir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", b.ws.BackupDir, err)
	}
	if ok, _ := afero.DirExists(b.ws.Fs, b.ws.SnippetDir()); ok {
		if err := fsw.Add(b.ws.SnippetDir()); err != nil {
			slog.Warn("failed to watch snippet directory", "error", err)
		}
	}

	b.fsw = fsw
	b.wg.Add(1)
	go b.loop()
	return nil
}

// Stop ends watching. No reconciliation runs after Stop returns.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		b.wg.Wait()
		if b.fsw != nil {
			b.fsw.Close()
		}
	})
}

func (b *Bridge) loop() {
	defer b.wg.Done()

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-b.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-b.fsw.Events:
			if !ok {
				return
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(b.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(b.debounce)
			}
			fire = timer.C

		case err, ok := <-b.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)

		case <-fire:
			fire = nil
			paths := pending
			pending = make(map[string]struct{})
			b.reconcile(paths)
		}
	}
}

// reconcile removes registry entries whose backing file vanished. Paths that
// still exist (a content modification, a new backup being written) have no
// registry consequence.
func (b *Bridge) reconcile(paths map[string]struct{}) {
	gone := make(map[string]struct{})
	for p := range paths {
		exists, err := afero.Exists(b.ws.Fs, p)
		if err != nil {
			slog.Warn("failed to check path during reconciliation", "path", p, "error", err)
			continue
		}
		if !exists {
			gone[p] = struct{}{}
		}
	}
	if len(gone) == 0 {
		return
	}

	err := b.store.Update(context.Background(), b.ws.Key(), func(reg registry.Registry) (registry.Registry, error) {
		for original, entries := range reg {
			var kept []registry.Entry
			for _, e := range entries {
				if _, deleted := gone[e.FilePath]; deleted {
					slog.Info("reconciled deleted backup", "file", e.FileName, "original", original)
					continue
				}
				kept = append(kept, e)
			}
			if len(kept) == 0 {
				delete(reg, original)
			} else {
				reg[original] = kept
			}
		}
		return reg, nil
	})
	if err != nil {
		slog.Error("failed to reconcile registry", "error", err)
	}
}
