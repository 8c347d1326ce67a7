package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
)

// ExpandPath expands a leading ~ and environment variables in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	home, err := homedir.Expand(path)
	if err != nil {
		return os.ExpandEnv(path)
	}
	return os.ExpandEnv(home)
}

// ConfigDirs lists the directories searched for clatter.yml, highest
// priority first: $CLATTER_CONFIG_HOME, $XDG_CONFIG_HOME/clatter, then the
// platform's user config dirs.
func ConfigDirs() ([]string, error) {
	dirs, err := gap.NewScope(gap.User, Name).ConfigDirs()
	if err != nil {
		return nil, err
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, Name)}, dirs...)
	}

	if c := os.Getenv("CLATTER_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}

// CacheDir returns the user cache directory for clatter.
func CacheDir() (string, error) {
	return gap.NewScope(gap.User, Name).CacheDir()
}

// LogPath returns the default log file location.
func LogPath() (string, error) {
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, Name+".log"), nil
}
