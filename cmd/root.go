package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"snapback/internal/config"
	"snapback/internal/registry"
	"snapback/internal/workspace"
)

var (
	cfgFile string
	rootDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "snapback",
	Short: "Per-file and per-project backup manager",
	Long: `snapback copies a file's (or selection's, or whole workspace's) contents
into a side-by-side backup store, tracks the association between originals
and their backup history in a persisted registry, and restores prior
versions back over the original.

Backups live under <workspace>/backups by default:
  <file>_<suffix><ext>                      file backups
  snippets/<file>_snippet_<name><ext>       selection backups
  project/project_backup_<suffix>.zip       whole-project archives
  undo_restore/<file>                       originals displaced by a restore`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/snapback/config.toml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "workspace root (default is the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "snapback")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("backup.dir", "")
	viper.SetDefault("retention.days", 30)
	viper.SetDefault("watch.debounce_ms", 200)
	viper.SetDefault("registry.path", defaultRegistryPath())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func defaultRegistryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".snapback-registry"
	}
	return filepath.Join(home, ".local", "share", "snapback", "registry")
}

// resolveWorkspace builds the workspace context for the --root flag or the
// current directory.
func resolveWorkspace() (*workspace.Context, error) {
	root := rootDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("no workspace root: %w", err)
		}
		root = wd
	}
	return workspace.New(root, config.BackupDir(), afero.NewOsFs())
}

// openStore opens the installation-wide registry database. Callers must
// Close it.
func openStore() (*registry.Store, error) {
	path := config.RegistryPath()
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}
	return registry.Open(path)
}

// interactive reports whether prompts can be shown.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
