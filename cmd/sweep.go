package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"snapback/internal/config"
	"snapback/internal/sweep"
)

var (
	sweepDays  int
	sweepAll   bool
	sweepForce bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire old backups",
	Long: `Remove backup entries older than the retention period and delete their
files from disk.

The retention period comes from --days or the config file:
  [retention]
  days = 30

Example:
  snapback sweep              # Show what would be removed
  snapback sweep --force      # Actually remove expired backups
  snapback sweep --all --force  # Remove every backup in this workspace`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().IntVar(&sweepDays, "days", 0, "Retention period in days (default: from config)")
	sweepCmd.Flags().BoolVar(&sweepAll, "all", false, "Expire every entry regardless of age")
	sweepCmd.Flags().BoolVar(&sweepForce, "force", false, "Actually delete (default is a dry run)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}

	days := sweepDays
	if days <= 0 {
		days = config.RetentionDays()
	}

	var cutoff time.Time
	if sweepAll {
		// Strictly after every recorded entry, so everything expires
		cutoff = time.Now().Add(time.Hour)
		fmt.Println("Retention policy: delete everything")
	} else {
		cutoff = time.Now().AddDate(0, 0, -days)
		fmt.Printf("Retention policy: %d days\n", days)
		fmt.Printf("Cutoff date: %s\n", cutoff.Format("2006-01-02"))
	}
	fmt.Println()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	reg, err := store.Load(ctx, ws.Key())
	if err != nil {
		return err
	}

	kept, expired := sweep.Partition(reg, cutoff)
	if len(expired) == 0 {
		fmt.Println("No backups to expire")
		return nil
	}

	fmt.Printf("Backups to expire (%d):\n\n", len(expired))
	for _, e := range expired {
		fmt.Printf("  %s\n", e.FileName)
		fmt.Printf("    Created: %s\n", e.Date.Format("2006-01-02 15:04"))
		fmt.Println()
	}
	fmt.Printf("Backups kept: %d\n\n", len(kept))

	if !sweepForce {
		fmt.Println("This is a dry run. Use --force to actually expire backups.")
		return nil
	}

	res, err := sweep.Run(ctx, ws, store, cutoff)
	if err != nil {
		return err
	}

	// Entry removals and disk deletions diverge under partial failure;
	// report both
	fmt.Printf("✓ Removed %d registry entr(ies)\n", res.Removed)
	if len(res.Failures) > 0 {
		fmt.Printf("  %d file(s) could not be deleted:\n", len(res.Failures))
		for _, f := range res.Failures {
			fmt.Printf("    %s: %v\n", f.Path, f.Err)
		}
	}
	return nil
}
