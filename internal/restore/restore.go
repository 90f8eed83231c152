// Package restore brings a recorded backup's content back over the original
// file, staging the displaced original in the trash folder.
package restore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"snapback/internal/registry"
	"snapback/internal/workspace"
)

// ErrNotFound indicates the selected backup's file no longer exists on disk.
var ErrNotFound = errors.New("backup file not found")

// Engine restores backups for one workspace.
type Engine struct {
	WS    *workspace.Context
	Store *registry.Store
}

// NewEngine returns an Engine bound to a workspace and registry store.
func NewEngine(ws *workspace.Context, store *registry.Store) *Engine {
	return &Engine{WS: ws, Store: store}
}

// List returns the restorable entries for an original file name, in the
// order they were created. snippets selects snippet backups exclusively;
// false excludes them.
func (e *Engine) List(ctx context.Context, originalName string, snippets bool) ([]registry.Entry, error) {
	reg, err := e.Store.Load(ctx, e.WS.Key())
	if err != nil {
		return nil, err
	}
	return registry.Filter(reg[filepath.Base(originalName)], snippets), nil
}

// RestoreFile copies the backup's bytes over targetPath, overwriting
// unconditionally. If a file already exists at targetPath it is first moved
// into the trash folder under its base name, replacing any same-named trash
// entry. The move is best-effort: a failure is logged and the restore
// proceeds, which means there is no rollback if the subsequent copy fails.
func (e *Engine) RestoreFile(ctx context.Context, entry registry.Entry, targetPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	exists, err := afero.Exists(e.WS.Fs, entry.FilePath)
	if err != nil {
		return fmt.Errorf("failed to check backup file: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, entry.FilePath)
	}

	if err := e.WS.Fs.MkdirAll(e.WS.TrashDir(), 0755); err != nil {
		return fmt.Errorf("failed to create trash directory: %w", err)
	}

	targetExists, err := afero.Exists(e.WS.Fs, targetPath)
	if err != nil {
		return fmt.Errorf("failed to check target file: %w", err)
	}
	if targetExists {
		trashPath := filepath.Join(e.WS.TrashDir(), filepath.Base(targetPath))
		_ = e.WS.Fs.Remove(trashPath)
		if err := e.WS.Fs.Rename(targetPath, trashPath); err != nil {
			slog.Warn("failed to move original to trash, restoring anyway",
				"target", targetPath, "error", err)
		}
	}

	data, err := afero.ReadFile(e.WS.Fs, entry.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := afero.WriteFile(e.WS.Fs, targetPath, data, 0644); err != nil {
		return fmt.Errorf("failed to restore %s: %w", targetPath, err)
	}
	return nil
}

// RestoreSnippet reads the snippet's content and inserts it before the given
// 1-based line of targetPath; a line past the end appends. Nothing is
// trashed, since an insert destroys no prior content. line < 1 skips the
// file edit and only returns the content, for callers that print it instead.
func (e *Engine) RestoreSnippet(ctx context.Context, entry registry.Entry, targetPath string, line int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exists, err := afero.Exists(e.WS.Fs, entry.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check snippet file: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, entry.FilePath)
	}

	content, err := afero.ReadFile(e.WS.Fs, entry.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snippet: %w", err)
	}

	if line < 1 {
		return content, nil
	}

	target, err := afero.ReadFile(e.WS.Fs, targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read target file: %w", err)
	}

	updated := insertAtLine(target, content, line)
	if err := afero.WriteFile(e.WS.Fs, targetPath, updated, 0644); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", targetPath, err)
	}
	return content, nil
}

// insertAtLine inserts text before the given 1-based line, appending when
// the line is past the end of the file.
func insertAtLine(target, text []byte, line int) []byte {
	if len(text) > 0 && !bytes.HasSuffix(text, []byte("\n")) {
		text = append(text, '\n')
	}

	lines := bytes.SplitAfter(target, []byte("\n"))
	// SplitAfter leaves a trailing empty element when target ends in \n
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}

	if line > len(lines) {
		out := target
		if len(out) > 0 && !bytes.HasSuffix(out, []byte("\n")) {
			out = append(out, '\n')
		}
		return append(out, text...)
	}

	var out []byte
	for i, l := range lines {
		if i == line-1 {
			out = append(out, text...)
		}
		out = append(out, l...)
	}
	return out
}
