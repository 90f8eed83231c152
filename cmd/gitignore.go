package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gitignoreCmd = &cobra.Command{
	Use:   "gitignore",
	Short: "Toggle the backup directory in .gitignore",
	Long: `Add the backup directory to the workspace's .gitignore, or remove it if
already listed. The entry is the directory's path relative to the workspace
root with a trailing slash; toggling twice leaves the file as it was.`,
	RunE: runGitignore,
}

func init() {
	rootCmd.AddCommand(gitignoreCmd)
}

func runGitignore(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}

	added, err := ws.ToggleGitignore()
	if err != nil {
		return err
	}

	rel, _ := ws.RelBackupDir()
	if added {
		fmt.Printf("✓ Added %s to .gitignore\n", rel)
	} else {
		fmt.Printf("✓ Removed %s from .gitignore\n", rel)
	}
	return nil
}
