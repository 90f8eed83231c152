package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultDirName is the backup directory created under the workspace root
// when no valid directory is configured.
const DefaultDirName = "backups"

// Subfolder names under the backup directory.
const (
	SnippetDirName = "snippets"
	ProjectDirName = "project"
	TrashDirName   = "undo_restore"
)

// Context scopes every backup operation to one workspace. There is no
// process-wide backup directory or filesystem handle; callers thread a
// Context through explicitly, so multiple workspaces can be open at once.
type Context struct {
	// Root is the absolute, cleaned workspace root path.
	Root string

	// BackupDir is the resolved backup directory for this workspace.
	BackupDir string

	// Fs is the filesystem all operations go through.
	Fs afero.Fs
}

// New resolves a workspace context. configuredDir is the user's backup.dir
// setting; it is honored only if it lies inside the workspace root,
// otherwise the default <root>/backups is used.
func New(root, configuredDir string, fs afero.Fs) (*Context, error) {
	if root == "" {
		return nil, fmt.Errorf("no workspace root")
	}
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
		}
		root = abs
	}
	root = filepath.Clean(root)

	backupDir := filepath.Join(root, DefaultDirName)
	if configuredDir != "" {
		configured := configuredDir
		if !filepath.IsAbs(configured) {
			configured = filepath.Join(root, configured)
		}
		configured = filepath.Clean(configured)
		if insideRoot(root, configured) {
			backupDir = configured
		}
	}

	return &Context{
		Root:      root,
		BackupDir: backupDir,
		Fs:        fs,
	}, nil
}

// insideRoot reports whether path is strictly under root.
func insideRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Key returns the stable identifier used to scope this workspace's registry.
func (c *Context) Key() string {
	return c.Root
}

// SnippetDir returns the directory holding snippet backups.
func (c *Context) SnippetDir() string {
	return filepath.Join(c.BackupDir, SnippetDirName)
}

// ProjectDir returns the directory holding whole-project archives.
func (c *Context) ProjectDir() string {
	return filepath.Join(c.BackupDir, ProjectDirName)
}

// TrashDir returns the directory holding originals displaced by a restore.
func (c *Context) TrashDir() string {
	return filepath.Join(c.BackupDir, TrashDirName)
}

// EnsureBackupDir creates the backup directory if it does not exist.
func (c *Context) EnsureBackupDir() error {
	if err := c.Fs.MkdirAll(c.BackupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	return nil
}

// RelBackupDir returns the backup directory relative to the workspace root,
// normalized to forward slashes with a trailing slash. This is the line
// written to .gitignore.
func (c *Context) RelBackupDir() (string, error) {
	rel, err := filepath.Rel(c.Root, c.BackupDir)
	if err != nil {
		return "", fmt.Errorf("backup directory is not inside the workspace: %w", err)
	}
	return filepath.ToSlash(rel) + "/", nil
}
