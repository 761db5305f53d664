package layout

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that do not stay inside the layout roots
var ErrInvalidName = errors.New("invalid config file name")

// Roots holds the base locations every managed file is resolved against
type Roots struct {
	// RemoteRoot is the URL of the canonical source, file names are appended to it
	RemoteRoot string
	// LocalRoot is the working copy directory read by the downstream tools
	LocalRoot string
	// CacheRoot is the directory holding the repository copy used as a fallback
	CacheRoot string
}

// ConfigFile describes one managed file and where its copies live
type ConfigFile struct {
	Name      string
	RemoteURL string
	LocalPath string
	CachePath string
}

// NewConfigFile resolves the paths for name and makes sure the cache directory exists
func NewConfigFile(roots Roots, name string) (*ConfigFile, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	file := &ConfigFile{
		Name:      clean,
		RemoteURL: strings.TrimSuffix(roots.RemoteRoot, "/") + "/" + clean,
		LocalPath: filepath.Join(roots.LocalRoot, filepath.FromSlash(clean)),
		CachePath: filepath.Join(roots.CacheRoot, filepath.FromSlash(clean)),
	}

	if err := os.MkdirAll(filepath.Dir(file.CachePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory for %s: %w", clean, err)
	}

	return file, nil
}

// LocalExists reports whether the local copy is present
func (f *ConfigFile) LocalExists() (bool, error) {
	return fileExists(f.LocalPath)
}

// CacheExists reports whether the repository copy is present
func (f *ConfigFile) CacheExists() (bool, error) {
	return fileExists(f.CachePath)
}

func (f *ConfigFile) String() string {
	return fmt.Sprintf("%s (local: %s, cache: %s)", f.Name, f.LocalPath, f.CachePath)
}

// cleanName normalizes a slash-separated relative name and rejects anything
// that is empty, absolute or escapes the root with "..".
func cleanName(name string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.HasPrefix(trimmed, "/") || filepath.IsAbs(trimmed) {
		return "", fmt.Errorf("%w: %s is absolute", ErrInvalidName, name)
	}

	clean := path.Clean(trimmed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %s escapes the config root", ErrInvalidName, name)
	}
	return clean, nil
}

func fileExists(p string) (bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("expected %s to be a file, but it is a directory", p)
	}
	return true, nil
}
