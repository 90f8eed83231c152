package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ToggleGitignore adds the backup directory to the workspace's .gitignore,
// or removes it if it is already listed. The check is against existing lines,
// so repeated appends never stack up. Returns true if the line was added,
// false if it was removed.
func (c *Context) ToggleGitignore() (bool, error) {
	line, err := c.RelBackupDir()
	if err != nil {
		return false, err
	}

	path := filepath.Join(c.Root, ".gitignore")

	var content string
	exists, err := afero.Exists(c.Fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to check .gitignore: %w", err)
	}
	if exists {
		data, err := afero.ReadFile(c.Fs, path)
		if err != nil {
			return false, fmt.Errorf("failed to read .gitignore: %w", err)
		}
		content = string(data)
	}

	lines := strings.Split(content, "\n")

	// Remove the entry if present
	if containsLine(lines, line) {
		var kept []string
		for _, l := range lines {
			if strings.TrimSpace(l) == line {
				continue
			}
			kept = append(kept, l)
		}
		out := strings.Join(kept, "\n")
		if err := afero.WriteFile(c.Fs, path, []byte(out), 0644); err != nil {
			return false, fmt.Errorf("failed to update .gitignore: %w", err)
		}
		return false, nil
	}

	// Append the entry
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += line + "\n"
	if err := afero.WriteFile(c.Fs, path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to update .gitignore: %w", err)
	}
	return true, nil
}

func containsLine(lines []string, target string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) == target {
			return true
		}
	}
	return false
}
