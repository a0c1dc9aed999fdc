// Package filex resolves where the CLI keeps its local files.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubdDir creates dirName under the working directory if needed and
// returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ResolveDataFile returns the path a data file should live at. Absolute
// names are used as given once their parent directory exists; relative names
// are placed inside the dataDir subdirectory of the working directory.
func ResolveDataFile(dataDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		parent := filepath.Dir(name)
		if err := os.MkdirAll(parent, 0o770); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", parent, err)
		}
		return name, nil
	}

	dir, err := EnsureSubdDir(dataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
