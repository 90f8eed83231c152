package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"snapback/internal/restore"
)

var (
	listSnippets bool
	listJSON     bool
	listToon     bool
)

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List a file's backup history",
	Long: `List the recorded backups for a file, oldest first.

Snippet backups are excluded by default; --snippets lists only them.

Examples:
  snapback list app.js
  snapback list util.py --snippets
  snapback list app.js --json`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listSnippets, "snippets", false, "List snippet backups instead of file backups")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listToon, "toon", false, "Output as Toon")
}

func runList(cmd *cobra.Command, args []string) error {
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
	entries, err := engine.List(context.Background(), args[0], listSnippets)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No backups found")
		return nil
	}

	// Output JSON if requested
	if listJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	// Output Toon if requested
	if listToon {
		out, err := gotoon.Encode(entries)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(out)
		return nil
	}

	fmt.Printf("Found %d backup(s) for %s:\n\n", len(entries), args[0])
	for i, e := range entries {
		fmt.Printf("  [%d] %s\n", i, e.FileName)
		fmt.Printf("      Created: %s\n", e.Date.Format("2006-01-02 15:04:05"))
		fmt.Printf("      Path:    %s\n", e.FilePath)
		fmt.Println()
	}
	return nil
}
