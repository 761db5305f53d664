package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfigNotFound is returned when no config file exists in the directory or its parents
var ErrConfigNotFound = errors.New("configuration file not found")

// FindConfigFile searches for .configs.yaml file starting from the given directory
// and moving up the directory tree until it finds the file or reaches the root.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir

	visitedDirs := make(map[string]bool) // Track visited directories for symlink safety

	for {
		// Resolve the absolute path to prevent issues with symlinks and duplicates
		absDir, err := filepath.EvalSymlinks(dir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve symlink in directory %s: %w", dir, err)
		}
		absDir, err = filepath.Abs(absDir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
		}

		// Check for infinite loops due to symlinks
		if visitedDirs[absDir] {
			return "", fmt.Errorf("potential symlink loop detected in directory %s", absDir)
		}
		visitedDirs[absDir] = true

		configPath := filepath.Join(absDir, FileName)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath, nil
		}

		parent := filepath.Dir(absDir)

		// If we've reached the root directory, stop searching
		if parent == absDir {
			return "", fmt.Errorf("%w: %s in any parent directory of %s", ErrConfigNotFound, FileName, startDir)
		}

		dir = parent
	}
}
