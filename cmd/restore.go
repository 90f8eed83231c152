package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"snapback/internal/registry"
	"snapback/internal/restore"
)

var (
	restoreTo       string
	restoreIndex    int
	restoreSnippets bool
	restoreLine     int
	restoreForce    bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore a backup over the original file",
	Long: `Pick one of a file's recorded backups and copy its content back over the
original. The current file is first moved into the trash folder
(<backupDir>/undo_restore/<file>), so the pre-restore content stays
recoverable.

With --snippets the picked snippet is inserted into the file at --line
instead of overwriting it, or printed to stdout when --line is not given.

Examples:
  snapback restore app.js
  snapback restore app.js --index 2 --force
  snapback restore app.js --to build/app.js
  snapback restore util.py --snippets --line 10`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().StringVar(&restoreTo, "to", "", "Restore target (default: the file itself)")
	restoreCmd.Flags().IntVar(&restoreIndex, "index", -1, "Backup index from 'snapback list' (default: prompt)")
	restoreCmd.Flags().BoolVar(&restoreSnippets, "snippets", false, "Restore a snippet backup")
	restoreCmd.Flags().IntVar(&restoreLine, "line", 0, "1-based line to insert the snippet before (0: print to stdout)")
	restoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Skip the confirmation prompt")
}

func runRestore(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	engine := restore.NewEngine(ws, store)
	ctx := context.Background()

	entries, err := engine.List(ctx, args[0], restoreSnippets)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No backups found")
		return nil
	}

	entry, ok, err := pickEntry(entries)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Restore cancelled.")
		return nil
	}

	target := restoreTo
	if target == "" {
		target = args[0]
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(ws.Root, target)
	}

	if restoreSnippets {
		content, err := engine.RestoreSnippet(ctx, entry, target, restoreLine)
		if err != nil {
			return err
		}
		if restoreLine < 1 {
			fmt.Print(string(content))
			return nil
		}
		fmt.Printf("✓ Inserted %s at line %d of %s\n", entry.FileName, restoreLine, target)
		return nil
	}

	// The confirmation gates only the destructive copy, never the listing
	if !restoreForce && interactive() {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Overwrite %s with %s?", target, entry.FileName)).
			Description("The current file is moved to the trash folder first.").
			Value(&confirmed).
			Run()
		if errors.Is(err, huh.ErrUserAborted) || (err == nil && !confirmed) {
			fmt.Println("Restore cancelled.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to confirm: %w", err)
		}
	}

	if err := engine.RestoreFile(ctx, entry, target); err != nil {
		return err
	}

	fmt.Printf("✓ Restored %s from %s\n", target, entry.FileName)
	fmt.Printf("  Previous content: %s\n", filepath.Join(ws.TrashDir(), filepath.Base(target)))
	return nil
}

// pickEntry selects a backup by --index, or interactively when no index was
// given. Returns ok=false when the user dismissed the picker.
func pickEntry(entries []registry.Entry) (registry.Entry, bool, error) {
	if restoreIndex >= 0 {
		if restoreIndex >= len(entries) {
			return registry.Entry{}, false, fmt.Errorf("index %d out of range (0-%d)", restoreIndex, len(entries)-1)
		}
		return entries[restoreIndex], true, nil
	}

	if !interactive() {
		// Newest backup when nothing can be asked
		return entries[len(entries)-1], true, nil
	}

	opts := make([]huh.Option[int], len(entries))
	for i, e := range entries {
		label := fmt.Sprintf("%s  (%s)", e.FileName, e.Date.Format("2006-01-02 15:04:05"))
		opts[i] = huh.NewOption(label, i)
	}

	idx := 0
	err := huh.NewSelect[int]().
		Title("Select a backup to restore").
		Options(opts...).
		Value(&idx).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return registry.Entry{}, false, nil
	}
	if err != nil {
		return registry.Entry{}, false, fmt.Errorf("failed to pick backup: %w", err)
	}
	return entries[idx], true, nil
}
