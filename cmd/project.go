package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"snapback/internal/backup"
)

var (
	projectSuffix  string
	projectExclude []string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Archive the whole workspace",
	Long: `Stream every file under the workspace root into a compressed archive at
<backupDir>/project/project_backup_<suffix>.zip.

The project subfolder itself and the backup directory are always excluded,
so an archive can never include itself. Extra exclusions use gitignore
syntax.

Examples:
  snapback project
  snapback project --suffix release --exclude node_modules --exclude "*.log"`,
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().StringVar(&projectSuffix, "suffix", "", "Archive name suffix (default: date token)")
	projectCmd.Flags().StringSliceVar(&projectExclude, "exclude", []string{}, "Paths to exclude (gitignore syntax)")
}

func runProject(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	if err := ws.EnsureBackupDir(); err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	// Keep past file backups out of the archive too
	exclude := projectExclude
	if rel, err := ws.RelBackupDir(); err == nil {
		exclude = append(exclude, rel)
	}

	writer := backup.NewWriter(ws, store)
	dest, err := writer.WriteProject(context.Background(), projectSuffix, exclude)
	if err != nil {
		return err
	}

	if info, err := ws.Fs.Stat(dest); err == nil {
		fmt.Printf("✓ Project archived: %s (%.2f KB)\n", dest, float64(info.Size())/1024)
	} else {
		fmt.Printf("✓ Project archived: %s\n", dest)
	}
	return nil
}
