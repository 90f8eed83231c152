package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var dirSet string

var dirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Show or set the backup directory",
	Long: `Show the backup directory resolved for this workspace.

--set persists a new directory in the config file. The value must lie inside
the workspace root; anything else falls back to <root>/backups.

Examples:
  snapback dir
  snapback dir --set .stash`,
	RunE: runDir,
}

func init() {
	rootCmd.AddCommand(dirCmd)

	dirCmd.Flags().StringVar(&dirSet, "set", "", "Persist a new backup directory")
}

func runDir(cmd *cobra.Command, args []string) error {
	if dirSet != "" {
		viper.Set("backup.dir", dirSet)
		if err := writeConfig(); err != nil {
			return err
		}
		fmt.Printf("✓ Backup directory set to %s\n", dirSet)
	}

	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	fmt.Println(ws.BackupDir)
	return nil
}

func writeConfig() error {
	if err := viper.WriteConfig(); err == nil {
		return nil
	}

	// No config file yet: create the default one
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to locate config directory: %w", err)
	}
	configDir := filepath.Join(home, ".config", "snapback")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(filepath.Join(configDir, "config.toml")); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
