package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the winstate data directory. Priority:
// 1) XDG_DATA_HOME/winstate (if XDG_DATA_HOME is set)
// 2) ~/.local/share/winstate
// 3) /tmp/winstate-<uid> (created)
func Dir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "winstate"), nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "winstate"), nil
	}

	tmpDir := fmt.Sprintf("/tmp/winstate-%d", os.Getuid())
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}
	return tmpDir, nil
}

// ConfigPath returns the default configuration file path.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "winstate", "config.yaml"), nil
}
