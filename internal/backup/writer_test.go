package backup

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapback/internal/registry"
	"snapback/internal/testutil"
	"snapback/internal/workspace"
)

func TestWriteFile(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()

	writer := NewWriter(w.Ctx, w.Store)
	entry, err := writer.WriteFile(context.Background(), []byte("console.log(1)\n"), "app.js", "draft", "", "")
	require.NoError(t, err)

	assert.Equal(t, "app_draft.js", entry.FileName)
	assert.Equal(t, filepath.Join(w.Ctx.BackupDir, "app_draft.js"), entry.FilePath)
	assert.Equal(t, "console.log(1)\n", w.ReadFile(entry.FilePath))

	reg, err := w.Store.Load(context.Background(), w.Ctx.Key())
	require.NoError(t, err)
	require.Len(t, reg["app.js"], 1)
	assert.Equal(t, entry.FileName, reg["app.js"][0].FileName)
}

func TestWriteFileDefaultSuffixIsDateToken(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()

	writer := NewWriter(w.Ctx, w.Store)
	entry, err := writer.WriteFile(context.Background(), []byte("x"), "app.js", "", "", "")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^app_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.js$`), entry.FileName)
}

func TestWriteFileDescriptionHeader(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()

	writer := NewWriter(w.Ctx, w.Store)

	entry, err := writer.WriteFile(context.Background(), []byte("x = 1\n"), "util.py", "v1", "before refactor", "python")
	require.NoError(t, err)
	assert.Equal(t, "# before refactor\nx = 1\n", w.ReadFile(entry.FilePath))

	// Unknown language ids fall back to //
	entry, err = writer.WriteFile(context.Background(), []byte("body\n"), "notes.xyz", "v1", "why", "xyz")
	require.NoError(t, err)
	assert.Equal(t, "// why\nbody\n", w.ReadFile(entry.FilePath))
}

func TestWriteFileUsesBaseName(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()

	writer := NewWriter(w.Ctx, w.Store)
	_, err := writer.WriteFile(context.Background(), []byte("a"), "src/deep/app.js", "v1", "", "")
	require.NoError(t, err)

	// The registry is keyed by base name only; folders do not matter
	reg, err := w.Store.Load(context.Background(), w.Ctx.Key())
	require.NoError(t, err)
	require.Len(t, reg["app.js"], 1)
}

func TestWriteFileInsertionOrder(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()

	writer := NewWriter(w.Ctx, w.Store)
	for i := 0; i < 4; i++ {
		_, err := writer.WriteFile(context.Background(), []byte("x"), "app.js", fmt.Sprintf("v%d", i), "", "")
		require.NoError(t, err)
	}

	reg, err := w.Store.Load(context.Background(), w.Ctx.Key())
	require.NoError(t, err)
	require.Len(t, reg["app.js"], 4)
	for i, e := range reg["app.js"] {
		assert.Equal(t, fmt.Sprintf("app_v%d.js", i), e.FileName)
		if i > 0 {
			assert.False(t, e.Date.Before(reg["app.js"][i-1].Date))
		}
	}
}

func TestWriteFileUnwritableBackupDir(t *testing.T) {
	// The write must surface an I/O error and append nothing to the registry
	ws, err := workspace.New("/work", "", afero.NewReadOnlyFs(afero.NewMemMapFs()))
	require.NoError(t, err)

	store, err := registry.OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	writer := NewWriter(ws, store)
	_, err = writer.WriteFile(context.Background(), []byte("x"), "app.js", "v1", "", "")
	require.Error(t, err)

	reg, err := store.Load(context.Background(), ws.Key())
	require.NoError(t, err)
	require.Empty(t, reg)
}

func TestWriteSnippet(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()

	writer := NewWriter(w.Ctx, w.Store)
	entry, err := writer.WriteSnippet(context.Background(), []byte("def helper(): pass\n"), "util.py", "helper!")
	require.NoError(t, err)

	assert.Equal(t, "util_snippet_helper_.py", entry.FileName)
	assert.Equal(t, filepath.Join(w.Ctx.SnippetDir(), "util_snippet_helper_.py"), entry.FilePath)
	assert.True(t, entry.IsSnippet())
	assert.Equal(t, "def helper(): pass\n", w.ReadFile(entry.FilePath))

	// Same registry list as full-file backups
	reg, err := w.Store.Load(context.Background(), w.Ctx.Key())
	require.NoError(t, err)
	require.Len(t, reg["util.py"], 1)
}

func TestWriteSnippetRequiresName(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()

	writer := NewWriter(w.Ctx, w.Store)
	_, err := writer.WriteSnippet(context.Background(), []byte("x"), "util.py", "")
	require.Error(t, err)
}
