package config

import (
	"time"

	"github.com/spf13/viper"
)

// BackupDir returns the configured backup directory. Empty means "use the
// workspace default"; values outside the workspace root are ignored by the
// workspace layer.
func BackupDir() string {
	return viper.GetString("backup.dir")
}

// RetentionDays returns the sweep retention period in days.
func RetentionDays() int {
	return viper.GetInt("retention.days")
}

// RegistryPath returns the directory holding the registry database.
func RegistryPath() string {
	return viper.GetString("registry.path")
}

// DebounceWindow returns how long the watcher waits after the last change
// notification before reconciling.
func DebounceWindow() time.Duration {
	ms := viper.GetInt("watch.debounce_ms")
	if ms <= 0 {
		ms = 200
	}
	return time.Duration(ms) * time.Millisecond
}
