package common

import (
	"fmt"
	"os"
	"path/filepath"
)

// InstallDir returns the directory holding the running executable.
// It falls back to the working directory when the executable path is unknown.
func InstallDir() string {
	if execPath, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = resolved
		}
		return filepath.Dir(execPath)
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// DefaultPreferencesPath returns the preference file next to the executable.
func DefaultPreferencesPath() string {
	return filepath.Join(InstallDir(), PreferencesFileName)
}

// GetConfigDir returns ~/.config/lexair-launcher, creating it if needed.
func GetConfigDir() (string, error) {
	return userDir(".config", "config")
}

// GetDataDir returns ~/.local/share/lexair-launcher, creating it if needed.
// The session history lives here.
func GetDataDir() (string, error) {
	return userDir(filepath.Join(".local", "share"), "data")
}

func userDir(base, kind string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError(err, "failed to get home directory")
	}

	dir := filepath.Join(homeDir, base, ConfigDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", WrapError(err, "failed to create "+kind+" directory")
	}
	return dir, nil
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// StringInSlice checks if a string is in a slice.
func StringInSlice(s string, slice []string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

// FormatClock renders a second count as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds/60)%60, seconds%60)
}
