package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackupName(t *testing.T) {
	assert.Equal(t, "app_draft.js", BackupName("app.js", "draft"))
	assert.Equal(t, "Makefile_draft", BackupName("Makefile", "draft"))
	assert.Equal(t, "archive.tar_old.gz", BackupName("archive.tar.gz", "old"))
}

func TestSnippetName(t *testing.T) {
	assert.Equal(t, "util_snippet_helper_.py", SnippetName("util.py", "helper!"))
	assert.Equal(t, "app_snippet_my-block.js", SnippetName("app.js", "my-block"))
	assert.Equal(t, "app_snippet_a_b_c.js", SnippetName("app.js", "a b/c"))
}

func TestSanitizeSnippetName(t *testing.T) {
	assert.Equal(t, "helper_", SanitizeSnippetName("helper!"))
	assert.Equal(t, "under_score-ok", SanitizeSnippetName("under_score-ok"))
	assert.Equal(t, "___", SanitizeSnippetName("é/ü"))
}

func TestIsSnippet(t *testing.T) {
	assert.True(t, Entry{FileName: "util_snippet_helper_.py"}.IsSnippet())
	assert.False(t, Entry{FileName: "util_draft.py"}.IsSnippet())
}

func TestFilter(t *testing.T) {
	entries := []Entry{
		{FileName: "app_one.js"},
		{FileName: "app_snippet_x.js"},
		{FileName: "app_two.js"},
	}

	files := Filter(entries, false)
	assert.Equal(t, []Entry{{FileName: "app_one.js"}, {FileName: "app_two.js"}}, files)

	snippets := Filter(entries, true)
	assert.Equal(t, []Entry{{FileName: "app_snippet_x.js"}}, snippets)
}

func TestDefaultSuffix(t *testing.T) {
	ts := time.Date(2026, 8, 24, 13, 5, 9, 0, time.UTC)
	assert.Equal(t, "2026-08-24_13-05-09", DefaultSuffix(ts))
}
