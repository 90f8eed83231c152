package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Wipe the registry for every workspace",
	Long: `Delete every workspace's backup registry. Backup files on disk are left
alone; only the index of them is wiped. This is a debug/reset operation and
always asks for confirmation unless --force is given.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVar(&clearForce, "force", false, "Skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearForce {
		if !interactive() {
			return fmt.Errorf("refusing to clear without --force")
		}
		confirmed := false
		err := huh.NewConfirm().
			Title("Wipe the backup registry for every workspace?").
			Description("Backup files on disk are not deleted.").
			Value(&confirmed).
			Run()
		if errors.Is(err, huh.ErrUserAborted) || (err == nil && !confirmed) {
			fmt.Println("Clear cancelled.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to confirm: %w", err)
		}
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearAll(context.Background()); err != nil {
		return err
	}

	fmt.Println("✓ Registry cleared")
	return nil
}
