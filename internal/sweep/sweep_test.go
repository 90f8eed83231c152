package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapback/internal/backup"
	"snapback/internal/registry"
	"snapback/internal/testutil"
	"snapback/internal/workspace"
)

func seedBackups(t *testing.T, w *testutil.Workspace) {
	t.Helper()
	ctx := context.Background()
	writer := backup.NewWriter(w.Ctx, w.Store)
	for _, name := range []string{"app.js", "util.py"} {
		for _, suffix := range []string{"v1", "v2"} {
			_, err := writer.WriteFile(ctx, []byte("x"), name, suffix, "", "")
			require.NoError(t, err)
		}
	}
}

func TestSweepKeepsEverythingWithPastCutoff(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()
	seedBackups(t, w)

	res, err := Run(context.Background(), w.Ctx, w.Store, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, res.Removed)
	assert.Empty(t, res.Failures)

	reg, err := w.Store.Load(context.Background(), w.Ctx.Key())
	require.NoError(t, err)
	assert.Len(t, reg["app.js"], 2)
	assert.Len(t, reg["util.py"], 2)
}

func TestSweepDeleteAll(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()
	seedBackups(t, w)

	reg, err := w.Store.Load(context.Background(), w.Ctx.Key())
	require.NoError(t, err)
	var paths []string
	for _, entries := range reg {
		for _, e := range entries {
			paths = append(paths, e.FilePath)
		}
	}

	res, err := Run(context.Background(), w.Ctx, w.Store, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Removed)
	assert.Empty(t, res.Failures)

	// Registry for the workspace is left empty and the files are gone
	reg, err = w.Store.Load(context.Background(), w.Ctx.Key())
	require.NoError(t, err)
	assert.Empty(t, reg)
	for _, p := range paths {
		assert.False(t, w.FileExists(p), "expected %s to be deleted", p)
	}
}

func TestSweepPartialCutoffKeepsOrder(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()

	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now()

	reg := registry.Registry{
		"app.js": {
			{FileName: "app_v1.js", FilePath: "/work/backups/app_v1.js", Date: old},
			{FileName: "app_v2.js", FilePath: "/work/backups/app_v2.js", Date: recent},
			{FileName: "app_v3.js", FilePath: "/work/backups/app_v3.js", Date: recent},
		},
		"util.py": {
			{FileName: "util_v1.py", FilePath: "/work/backups/util_v1.py", Date: old},
		},
	}
	require.NoError(t, w.Store.Replace(ctx, w.Ctx.Key(), reg))

	res, err := Run(ctx, w.Ctx, w.Store, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Removed)
	// Files were never written; missing files are not failures
	assert.Empty(t, res.Failures)

	reg, err = w.Store.Load(ctx, w.Ctx.Key())
	require.NoError(t, err)
	require.Len(t, reg["app.js"], 2)
	assert.Equal(t, "app_v2.js", reg["app.js"][0].FileName)
	assert.Equal(t, "app_v3.js", reg["app.js"][1].FileName)

	// An original whose list empties disappears entirely
	_, ok := reg["util.py"]
	assert.False(t, ok)
}

func TestSweepReportsDeleteFailures(t *testing.T) {
	w := testutil.NewMemWorkspace(t)
	defer w.Cleanup()
	seedBackups(t, w)

	// Same workspace, but deletions fail on a read-only filesystem
	roWS := &workspace.Context{
		Root:      w.Ctx.Root,
		BackupDir: w.Ctx.BackupDir,
		Fs:        afero.NewReadOnlyFs(w.Ctx.Fs),
	}

	res, err := Run(context.Background(), roWS, w.Store, time.Now().Add(time.Hour))
	require.NoError(t, err)

	// Entry removals and disk deletions diverge under partial failure
	assert.Equal(t, 4, res.Removed)
	assert.Len(t, res.Failures, 4)

	reg, err := w.Store.Load(context.Background(), w.Ctx.Key())
	require.NoError(t, err)
	assert.Empty(t, reg)
}
