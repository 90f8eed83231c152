// Package archive streams a workspace tree into a zip file, excluding paths
// matched by gitignore-style patterns.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/spf13/afero"

	"snapback/internal/workspace"
)

// Project walks the workspace root and writes every file not matched by the
// exclude patterns into a zip archive at dest. The walk drives the zip
// writer synchronously, so every failure is reported through the returned
// error; a partial archive is removed on failure.
func Project(ctx context.Context, ws *workspace.Context, dest string, exclude []string) error {
	matcher := buildMatcher(exclude)

	out, err := ws.Fs.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}

	zw := zip.NewWriter(out)

	err = writeTree(ctx, ws, zw, dest, matcher)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		_ = ws.Fs.Remove(dest)
		return fmt.Errorf("failed to archive workspace: %w", err)
	}
	return nil
}

func buildMatcher(exclude []string) gitignore.Matcher {
	patterns := make([]gitignore.Pattern, 0, len(exclude)+1)
	for _, p := range exclude {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}
	return gitignore.NewMatcher(patterns)
}

func writeTree(ctx context.Context, ws *workspace.Context, zw *zip.Writer, dest string, matcher gitignore.Matcher) error {
	return afero.Walk(ws.Fs, ws.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		rel, err := filepath.Rel(ws.Root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		// Never archive the archive being written
		if path == dest {
			return nil
		}

		parts := strings.Split(rel, string(filepath.Separator))
		if matcher.Match(parts, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("failed to build header for %s: %w", rel, err)
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		dst, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", rel, err)
		}

		src, err := ws.Fs.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", rel, err)
		}
		_, copyErr := io.Copy(dst, src)
		src.Close()
		if copyErr != nil {
			return fmt.Errorf("failed to copy %s: %w", rel, copyErr)
		}
		return nil
	})
}
