// Package utils holds small filesystem helpers shared by the settings stores,
// the configuration and the command line.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading ~/ with the home directory. The path is
// returned unchanged when the home directory is unknown.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// FileExists reports whether path names a regular file or a symlink to one.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists reports whether path names a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir creates path and its parents with mode 0755.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil && !os.IsExist(err) {
		return err
	}
	return nil
}

// SanitizeName turns a domain or document name into a file base name:
// lower case, with spaces and underscores as dashes and anything else
// outside [a-z0-9-] dropped.
func SanitizeName(name string) string {
	result := strings.ToLower(name)
	result = strings.ReplaceAll(result, " ", "-")
	result = strings.ReplaceAll(result, "_", "-")

	var cleaned strings.Builder
	for _, r := range result {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			cleaned.WriteRune(r)
		}
	}

	return cleaned.String()
}
