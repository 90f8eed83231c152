package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"snapback/internal/config"
	"snapback/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reconcile the registry against out-of-band deletions",
	Long: `Watch the backup directory and remove registry entries whose backing
file is deleted outside of snapback (a file manager, rm, a sync client).

Runs until interrupted. Reconciliation is debounced; the window is
configurable:
  [watch]
  debounce_ms = 200`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	bridge := watcher.New(ws, store, config.DebounceWindow())
	if err := bridge.Start(); err != nil {
		return err
	}
	defer bridge.Stop()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", ws.BackupDir)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Println("\nStopped.")
	return nil
}
