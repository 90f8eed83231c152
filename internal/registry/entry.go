// Package registry tracks the association between original files and their
// backup snapshots. Each workspace has one Registry: a map from the original
// file's base name to its backup history in insertion order.
//
// Keying by base name alone is an accepted limitation: two files sharing a
// base name in different folders of the same workspace share one history
// list.
package registry

import (
	"path/filepath"
	"strings"
	"time"
)

// SnippetMarker is the reserved segment that tags snippet backups inside a
// file's history list. Snippet names are sanitized so user input can never
// collide with it accidentally producing a full-file name.
const SnippetMarker = "_snippet_"

// Entry is one recorded backup snapshot.
type Entry struct {
	// FileName is the backup's file name as stored on disk.
	FileName string `json:"fileName"`

	// FilePath is the absolute path where the backup content lives. It goes
	// stale if the file is deleted out-of-band, until the watcher reconciles.
	FilePath string `json:"filePath"`

	// Date is the creation time, assigned at write time. Entries are always
	// appended, so dates are non-decreasing within one list.
	Date time.Time `json:"date"`
}

// IsSnippet reports whether the entry records a selection backup rather than
// a full-file backup.
func (e Entry) IsSnippet() bool {
	return strings.Contains(e.FileName, SnippetMarker)
}

// Registry maps an original file's base name to its ordered backup history.
type Registry map[string][]Entry

// Filter returns the entries matching the snippet flag, preserving order.
func Filter(entries []Entry, snippets bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.IsSnippet() == snippets {
			out = append(out, e)
		}
	}
	return out
}

// BackupName builds the destination file name for a full-file backup:
// <base>_<suffix><ext>.
func BackupName(originalName, suffix string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(originalName, ext)
	return base + "_" + suffix + ext
}

// SnippetName builds the destination file name for a snippet backup:
// <base>_snippet_<sanitizedName><ext>.
func SnippetName(originalName, snippetName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(originalName, ext)
	return base + SnippetMarker + SanitizeSnippetName(snippetName) + ext
}

// SanitizeSnippetName replaces every character other than letters, digits,
// underscore and hyphen with an underscore.
func SanitizeSnippetName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// DefaultSuffix returns the date-based token used when the caller supplies
// no suffix.
func DefaultSuffix(t time.Time) string {
	return t.Format("2006-01-02_15-04-05")
}
