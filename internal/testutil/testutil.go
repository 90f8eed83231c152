// Package testutil builds throwaway workspaces for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"snapback/internal/registry"
	"snapback/internal/workspace"
)

// Workspace is a temporary workspace with an in-memory registry store.
type Workspace struct {
	Ctx   *workspace.Context
	Store *registry.Store
	T     *testing.T
}

// NewWorkspace creates a workspace on the real filesystem under a temp
// directory, with the backup directory already created. Use this when the
// test needs fsnotify or real file semantics.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "snapback-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	// MkdirTemp can return a symlinked path on macOS; resolve it so paths
	// recorded in the registry match what fsnotify reports.
	if resolved, err := filepath.EvalSymlinks(tmpDir); err == nil {
		tmpDir = resolved
	}

	return newWorkspace(t, tmpDir, afero.NewOsFs())
}

// NewMemWorkspace creates a workspace on an in-memory filesystem. Fast and
// hermetic; no watcher support.
func NewMemWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return newWorkspace(t, "/work", afero.NewMemMapFs())
}

func newWorkspace(t *testing.T, root string, fs afero.Fs) *Workspace {
	t.Helper()

	ctx, err := workspace.New(root, "", fs)
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}
	if err := ctx.EnsureBackupDir(); err != nil {
		t.Fatalf("failed to create backup dir: %v", err)
	}

	store, err := registry.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open registry store: %v", err)
	}

	return &Workspace{Ctx: ctx, Store: store, T: t}
}

// Cleanup closes the store and removes the workspace from disk.
func (w *Workspace) Cleanup() {
	w.T.Helper()
	if err := w.Store.Close(); err != nil {
		w.T.Errorf("failed to close store: %v", err)
	}
	if _, ok := w.Ctx.Fs.(*afero.MemMapFs); !ok {
		if err := os.RemoveAll(w.Ctx.Root); err != nil {
			w.T.Errorf("failed to cleanup workspace: %v", err)
		}
	}
}

// CreateFile writes a file relative to the workspace root, creating parent
// directories as needed, and returns its absolute path.
func (w *Workspace) CreateFile(name, content string) string {
	w.T.Helper()
	path := filepath.Join(w.Ctx.Root, name)
	if err := w.Ctx.Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		w.T.Fatalf("failed to create directory: %v", err)
	}
	if err := afero.WriteFile(w.Ctx.Fs, path, []byte(content), 0644); err != nil {
		w.T.Fatalf("failed to create file: %v", err)
	}
	return path
}

// ReadFile reads a file by absolute path.
func (w *Workspace) ReadFile(path string) string {
	w.T.Helper()
	data, err := afero.ReadFile(w.Ctx.Fs, path)
	if err != nil {
		w.T.Fatalf("failed to read file: %v", err)
	}
	return string(data)
}

// FileExists reports whether a file exists by absolute path.
func (w *Workspace) FileExists(path string) bool {
	w.T.Helper()
	ok, err := afero.Exists(w.Ctx.Fs, path)
	if err != nil {
		w.T.Fatalf("failed to check file: %v", err)
	}
	return ok
}
