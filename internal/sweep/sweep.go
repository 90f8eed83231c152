// Package sweep expires backup entries older than a cutoff, deleting their
// files and rewriting the registry.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"snapback/internal/registry"
	"snapback/internal/workspace"
)

// FileError records a single failed disk deletion during a sweep.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("failed to delete %s: %v", e.Path, e.Err)
}

// Result reports what a sweep did. Removed counts registry entries removed,
// which can exceed the number of files actually deleted when disk deletions
// fail; Failures carries those per-file failures.
type Result struct {
	Removed  int
	Failures []FileError
}

// Run removes every entry whose Date is before cutoff. Kept entries stay in
// their original order; an original file whose list empties disappears from
// the registry. A cutoff after every entry deletes everything.
//
// Expired files are deleted from disk inside the same critical section that
// rewrites the registry. A file already missing is not an error; a failed
// deletion of an existing file is reported per file and does not abort the
// rest of the sweep.
func Run(ctx context.Context, ws *workspace.Context, store *registry.Store, cutoff time.Time) (Result, error) {
	var res Result

	err := store.Update(ctx, ws.Key(), func(reg registry.Registry) (registry.Registry, error) {
		for original, entries := range reg {
			var kept []registry.Entry
			for _, e := range entries {
				if !e.Date.Before(cutoff) {
					kept = append(kept, e)
					continue
				}

				res.Removed++
				if err := ws.Fs.Remove(e.FilePath); err != nil && !os.IsNotExist(err) {
					slog.Warn("failed to delete expired backup", "path", e.FilePath, "error", err)
					res.Failures = append(res.Failures, FileError{Path: e.FilePath, Err: err})
				}
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
		return Result{}, err
	}
	return res, nil
}

// Partition previews a sweep without mutating anything: it returns the
// entries that would be kept and those that would expire under the cutoff.
func Partition(reg registry.Registry, cutoff time.Time) (kept, expired []registry.Entry) {
	for _, entries := range reg {
		for _, e := range entries {
			if e.Date.Before(cutoff) {
				expired = append(expired, e)
			} else {
				kept = append(kept, e)
			}
		}
	}
	return kept, expired
}
