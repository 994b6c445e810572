// Package fsutil holds small filesystem helpers shared by the model
// directory code.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveDir expands a leading '~' and returns the absolute form of path.
func ResolveDir(path string) (string, error) {
	p, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	return abs, nil
}

// ExpandHome expands "~" and a leading "~/" to the current user's home
// directory. Other paths, including "~user/...", are returned unchanged.
func ExpandHome(path string) (string, error) {
	var rest string
	switch {
	case path == "~":
	case strings.HasPrefix(path, "~/"), strings.HasPrefix(path, "~"+string(filepath.Separator)):
		rest = path[2:]
	default:
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, rest), nil
}

// ListFiles returns the names of the non-directory entries of dir, sorted by
// name. Dotfiles are skipped.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
