package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"snapback/internal/backup"
)

var (
	snippetName string
	snippetText string
)

var snippetCmd = &cobra.Command{
	Use:   "snippet <file>",
	Short: "Back up a text selection",
	Long: `Store a selection of text as a named snippet backup of a file.

The selection is read from stdin unless --text is given. Snippets live under
the snippets/ subfolder as <base>_snippet_<name><ext>; characters other than
letters, digits, '_' and '-' in the name are replaced with '_'.

Examples:
  pbpaste | snapback snippet util.py --name helper
  snapback snippet util.py --name helper --text "def helper(): ..."`,
	Args: cobra.ExactArgs(1),
	RunE: runSnippet,
}

func init() {
	rootCmd.AddCommand(snippetCmd)

	snippetCmd.Flags().StringVar(&snippetName, "name", "", "Snippet name")
	snippetCmd.Flags().StringVar(&snippetText, "text", "", "Selection text (default: read stdin)")
}

func runSnippet(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}

	if snippetName == "" && interactive() {
		err := huh.NewInput().
			Title("Snippet name").
			Value(&snippetName).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Snippet cancelled.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read snippet name: %w", err)
		}
	}
	if snippetName == "" {
		return fmt.Errorf("snippet name is required (use --name)")
	}

	selection := []byte(snippetText)
	if snippetText == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read selection from stdin: %w", err)
		}
		selection = data
	}
	if len(selection) == 0 {
		return fmt.Errorf("empty selection")
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
	entry, err := writer.WriteSnippet(context.Background(), selection, args[0], snippetName)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Snippet saved: %s\n", entry.FilePath)
	return nil
}
