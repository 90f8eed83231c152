// Package backup writes file, snippet and whole-project backups into the
// workspace's backup directory and records them in the registry.
package backup

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"snapback/internal/archive"
	"snapback/internal/registry"
	"snapback/internal/workspace"
)

// Writer creates backups for one workspace.
type Writer struct {
	WS    *workspace.Context
	Store *registry.Store
}

// NewWriter returns a Writer bound to a workspace and registry store.
func NewWriter(ws *workspace.Context, store *registry.Store) *Writer {
	return &Writer{WS: ws, Store: store}
}

// WriteFile backs up the full content of a file.
//
// The destination name is <base>_<suffix><ext>; an empty suffix defaults to
// a date token. A non-empty description is prefixed as a single comment line
// using the language's comment token. The backup directory must already
// exist (EnsureBackupDir is the caller's precondition); a missing directory
// surfaces as an I/O error.
//
// The disk write and the registry append are not atomic: a crash in between
// leaves an orphan file with no registry entry, which is never re-added.
func (w *Writer) WriteFile(ctx context.Context, content []byte, originalName, suffix, description, langID string) (registry.Entry, error) {
	now := time.Now()
	if suffix == "" {
		suffix = registry.DefaultSuffix(now)
	}

	name := registry.BackupName(filepath.Base(originalName), suffix)
	dest := filepath.Join(w.WS.BackupDir, name)

	if description != "" {
		header := CommentToken(langID) + " " + description + "\n"
		content = append([]byte(header), content...)
	}

	if err := afero.WriteFile(w.WS.Fs, dest, content, 0644); err != nil {
		return registry.Entry{}, fmt.Errorf("failed to write backup %s: %w", name, err)
	}

	entry := registry.Entry{FileName: name, FilePath: dest, Date: now}
	if err := w.Store.Append(ctx, w.WS.Key(), filepath.Base(originalName), entry); err != nil {
		return registry.Entry{}, err
	}
	return entry, nil
}

// WriteSnippet backs up a text selection under the snippets subfolder. The
// entry lands in the same registry list as full-file backups, tagged by the
// snippet marker in its name.
func (w *Writer) WriteSnippet(ctx context.Context, selection []byte, originalName, snippetName string) (registry.Entry, error) {
	if snippetName == "" {
		return registry.Entry{}, fmt.Errorf("snippet name is required")
	}

	now := time.Now()
	name := registry.SnippetName(filepath.Base(originalName), snippetName)

	if err := w.WS.Fs.MkdirAll(w.WS.SnippetDir(), 0755); err != nil {
		return registry.Entry{}, fmt.Errorf("failed to create snippet directory: %w", err)
	}

	dest := filepath.Join(w.WS.SnippetDir(), name)
	if err := afero.WriteFile(w.WS.Fs, dest, selection, 0644); err != nil {
		return registry.Entry{}, fmt.Errorf("failed to write snippet %s: %w", name, err)
	}

	entry := registry.Entry{FileName: name, FilePath: dest, Date: now}
	if err := w.Store.Append(ctx, w.WS.Key(), filepath.Base(originalName), entry); err != nil {
		return registry.Entry{}, err
	}
	return entry, nil
}

// WriteProject streams the whole workspace tree into a compressed archive at
// <BackupDir>/project/project_backup_<suffix>.zip. The exclude set always
// contains the project subfolder itself, so an archive can never include
// itself. Any streaming failure is returned as the single error of this
// call; there is no side channel.
func (w *Writer) WriteProject(ctx context.Context, suffix string, exclude []string) (string, error) {
	if suffix == "" {
		suffix = registry.DefaultSuffix(time.Now())
	}

	if err := w.WS.Fs.MkdirAll(w.WS.ProjectDir(), 0755); err != nil {
		return "", fmt.Errorf("failed to create project backup directory: %w", err)
	}

	rel, err := filepath.Rel(w.WS.Root, w.WS.ProjectDir())
	if err != nil {
		return "", fmt.Errorf("project backup directory is not inside the workspace: %w", err)
	}
	exclude = append(exclude, filepath.ToSlash(rel)+"/")

	dest := filepath.Join(w.WS.ProjectDir(), "project_backup_"+suffix+".zip")
	if err := archive.Project(ctx, w.WS, dest, exclude); err != nil {
		return "", err
	}
	return dest, nil
}
