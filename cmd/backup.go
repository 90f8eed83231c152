package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"snapback/internal/backup"
)

var (
	saveSuffix      string
	saveDescription string
	saveLang        string
	saveNoPrompt    bool
)

var saveCmd = &cobra.Command{
	Use:   "save <file>...",
	Short: "Back up one or more files",
	Long: `Copy each file's current content into the backup directory and record it
in the registry.

The backup is named <base>_<suffix><ext>; without --suffix a date token is
used. An optional description is written as a single comment line at the top
of the backup, using the file's line-comment token.

Examples:
  snapback save app.js
  snapback save app.js --suffix draft --description "before refactor"
  snapback save src/*.go`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)

	saveCmd.Flags().StringVar(&saveSuffix, "suffix", "", "Backup name suffix (default: date token)")
	saveCmd.Flags().StringVar(&saveDescription, "description", "", "Comment line prefixed to the backup")
	saveCmd.Flags().StringVar(&saveLang, "lang", "", "Language id for the comment token (default: from extension)")
	saveCmd.Flags().BoolVar(&saveNoPrompt, "no-prompt", false, "Never prompt, even on a terminal")
}

func runSave(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}

	// Prompts run before anything is written: cancelling either one aborts
	// the whole operation with no file and no registry entry.
	if interactive() && !saveNoPrompt {
		if !cmd.Flags().Changed("suffix") {
			err := huh.NewInput().
				Title("Backup suffix").
				Description("Leave empty for a date token").
				Value(&saveSuffix).
				Run()
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("Backup cancelled.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read suffix: %w", err)
			}
		}
		if !cmd.Flags().Changed("description") {
			err := huh.NewInput().
				Title("Description").
				Description("Leave empty for none").
				Value(&saveDescription).
				Run()
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("Backup cancelled.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read description: %w", err)
			}
		}
	}

	if err := ws.EnsureBackupDir(); err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	writer := backup.NewWriter(ws, store)
	ctx := context.Background()

	// A single file's failure is reported but does not abort the batch
	failed := 0
	for _, file := range args {
		content, err := afero.ReadFile(ws.Fs, file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", file, err)
			failed++
			continue
		}

		lang := saveLang
		if lang == "" {
			lang = backup.LangFromPath(file)
		}

		entry, err := writer.WriteFile(ctx, content, file, saveSuffix, saveDescription, lang)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed++
			continue
		}

		fmt.Printf("✓ Backed up %s → %s\n", file, entry.FilePath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d backup(s) failed", failed, len(args))
	}
	return nil
}
