package workspace

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBackupDir(t *testing.T) {
	ws, err := New("/work", "", afero.NewMemMapFs())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", "backups"), ws.BackupDir)
}

func TestConfiguredDirInsideRoot(t *testing.T) {
	ws, err := New("/work", "/work/.bak", afero.NewMemMapFs())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", ".bak"), ws.BackupDir)
}

func TestConfiguredDirRelative(t *testing.T) {
	ws, err := New("/work", "stash", afero.NewMemMapFs())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", "stash"), ws.BackupDir)
}

func TestConfiguredDirOutsideRootFallsBack(t *testing.T) {
	ws, err := New("/work", "/elsewhere/bak", afero.NewMemMapFs())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", "backups"), ws.BackupDir)

	ws, err = New("/work", "../sneaky", afero.NewMemMapFs())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", "backups"), ws.BackupDir)
}

func TestSubdirs(t *testing.T) {
	ws, err := New("/work", "", afero.NewMemMapFs())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(ws.BackupDir, "snippets"), ws.SnippetDir())
	assert.Equal(t, filepath.Join(ws.BackupDir, "project"), ws.ProjectDir())
	assert.Equal(t, filepath.Join(ws.BackupDir, "undo_restore"), ws.TrashDir())
}

func TestKey(t *testing.T) {
	ws, err := New("/work/sub/..", "", afero.NewMemMapFs())
	require.NoError(t, err)
	assert.Equal(t, "/work", ws.Key())
}

func TestRelBackupDir(t *testing.T) {
	ws, err := New("/work", "", afero.NewMemMapFs())
	require.NoError(t, err)

	rel, err := ws.RelBackupDir()
	require.NoError(t, err)
	assert.Equal(t, "backups/", rel)
}

func TestEnsureBackupDirIdempotent(t *testing.T) {
	ws, err := New("/work", "", afero.NewMemMapFs())
	require.NoError(t, err)

	require.NoError(t, ws.EnsureBackupDir())
	require.NoError(t, ws.EnsureBackupDir())

	ok, err := afero.DirExists(ws.Fs, ws.BackupDir)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestToggleGitignoreRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	ws, err := New("/work", "", fs)
	require.NoError(t, err)

	original := "node_modules/\n*.log\n"
	gitignore := filepath.Join("/work", ".gitignore")
	require.NoError(t, afero.WriteFile(fs, gitignore, []byte(original), 0644))

	added, err := ws.ToggleGitignore()
	require.NoError(t, err)
	assert.True(t, added)

	data, err := afero.ReadFile(fs, gitignore)
	require.NoError(t, err)
	assert.Equal(t, original+"backups/\n", string(data))

	// Toggling again returns the file to its original state
	added, err = ws.ToggleGitignore()
	require.NoError(t, err)
	assert.False(t, added)

	data, err = afero.ReadFile(fs, gitignore)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestToggleGitignoreCreatesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	ws, err := New("/work", "", fs)
	require.NoError(t, err)

	added, err := ws.ToggleGitignore()
	require.NoError(t, err)
	assert.True(t, added)

	data, err := afero.ReadFile(fs, filepath.Join("/work", ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "backups/\n", string(data))
}

func TestToggleGitignoreDoesNotStack(t *testing.T) {
	fs := afero.NewMemMapFs()
	ws, err := New("/work", "", fs)
	require.NoError(t, err)

	// Line already present: toggle removes instead of appending a duplicate
	gitignore := filepath.Join("/work", ".gitignore")
	require.NoError(t, afero.WriteFile(fs, gitignore, []byte("backups/\n"), 0644))

	added, err := ws.ToggleGitignore()
	require.NoError(t, err)
	assert.False(t, added)

	data, err := afero.ReadFile(fs, gitignore)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "backups/")
}
