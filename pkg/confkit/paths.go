package confkit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrProjectRootNotFound is returned when no go.mod exists above the start dir.
var ErrProjectRootNotFound = errors.New("confkit: project root not found")

// ProjectRoot walks up from start until it finds a directory containing go.mod.
func ProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("confkit: resolve %s: %w", start, err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrProjectRootNotFound
		}
		dir = parent
	}
}

// ProjectPath joins rel onto the project root found from the working directory.
func ProjectPath(rel string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("confkit: getwd: %w", err)
	}
	root, err := ProjectRoot(wd)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}

// MustProjectPath is ProjectPath that panics on failure. Intended for tests and
// defaults wired at startup.
func MustProjectPath(rel string) string {
	path, err := ProjectPath(rel)
	if err != nil {
		panic(err)
	}
	return path
}

// Resolve returns path unchanged when absolute, otherwise joined onto base.
// An empty base leaves relative paths relative to the working directory.
func Resolve(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}
