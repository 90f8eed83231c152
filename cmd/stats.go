package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"
)

var (
	statsJSON bool
	statsToon bool
)

type backupStats struct {
	Originals      int            `json:"originals"`
	FileBackups    int            `json:"file_backups"`
	SnippetBackups int            `json:"snippet_backups"`
	OldestBackup   *time.Time     `json:"oldest_backup,omitempty"`
	NewestBackup   *time.Time     `json:"newest_backup,omitempty"`
	PerFile        map[string]int `json:"per_file,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry statistics for this workspace",
	Long: `Display statistics about the workspace's backups:
  - Number of tracked original files
  - File and snippet backup counts
  - Date range of recorded backups

Example:
  snapback stats
  snapback stats --json`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsToon, "toon", false, "Output as Toon")
}

func runStats(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	reg, err := store.Load(context.Background(), ws.Key())
	if err != nil {
		return err
	}

	stats := backupStats{PerFile: make(map[string]int)}
	for original, entries := range reg {
		stats.Originals++
		stats.PerFile[original] = len(entries)
		for _, e := range entries {
			if e.IsSnippet() {
				stats.SnippetBackups++
			} else {
				stats.FileBackups++
			}
			d := e.Date
			if stats.OldestBackup == nil || d.Before(*stats.OldestBackup) {
				stats.OldestBackup = &d
			}
			if stats.NewestBackup == nil || d.After(*stats.NewestBackup) {
				stats.NewestBackup = &d
			}
		}
	}

	// Output JSON if requested
	if statsJSON {
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	// Output Toon if requested
	if statsToon {
		out, err := gotoon.Encode(stats)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(out)
		return nil
	}

	fmt.Println("Backup Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━")
	fmt.Println()
	fmt.Printf("Tracked files:   %d\n", stats.Originals)
	fmt.Printf("File backups:    %d\n", stats.FileBackups)
	fmt.Printf("Snippet backups: %d\n", stats.SnippetBackups)
	if stats.OldestBackup != nil && stats.NewestBackup != nil {
		fmt.Printf("Date range:      %s to %s\n",
			stats.OldestBackup.Format("2006-01-02"),
			stats.NewestBackup.Format("2006-01-02"))
	}

	if len(stats.PerFile) > 0 {
		fmt.Println()
		fmt.Println("By file:")
		names := make([]string, 0, len(stats.PerFile))
		for name := range stats.PerFile {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-30s %d\n", name, stats.PerFile[name])
		}
	}
	return nil
}
