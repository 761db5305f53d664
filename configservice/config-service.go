package configservice

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// ConfigService provides validation of .configs.yaml
type ConfigService interface {
	// EnsureValidConfig checks that .configs.yaml exists and is valid
	// Returns detailed diagnostic errors if validation fails
	EnsureValidConfig() error

	// Files returns the ManagedFilesService interface for managing the synced file list
	Files() ManagedFilesService
}

// configServiceImpl is the default implementation of ConfigService
type configServiceImpl struct {
	configPath string
}

// NewConfigService creates a new ConfigService instance with the given .configs.yaml path
func NewConfigService(configPath string) ConfigService {
	return &configServiceImpl{
		configPath: configPath,
	}
}

func (s *configServiceImpl) Files() ManagedFilesService {
	return s
}

// ReadProjectSection reads the project keys from .configs.yaml
func (s *configServiceImpl) ReadProjectSection() (*ProjectSection, error) {
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", s.configPath)
		}
		return nil, fmt.Errorf("failed to read configuration file %s: %w", s.configPath, err)
	}

	var section ProjectSection
	if err := yaml.Unmarshal(data, &section); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", s.configPath, err)
	}

	if err := validateProjectSection(&section); err != nil {
		return nil, fmt.Errorf("validation failed for %s: %w", s.configPath, err)
	}

	return &section, nil
}

// EnsureValidConfig checks that .configs.yaml exists and is valid
func (s *configServiceImpl) EnsureValidConfig() error {
	info, err := os.Stat(s.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf(".configs.yaml not found at: %s\n\nPlease run 'configs init' to create it", s.configPath)
		}
		return fmt.Errorf("cannot access .configs.yaml at %s: %w", s.configPath, err)
	}

	if info.IsDir() {
		return fmt.Errorf("expected .configs.yaml to be a file, but %s is a directory", s.configPath)
	}

	_, err = s.Files().ReadProjectSection()
	if err != nil {
		return fmt.Errorf(".configs.yaml is invalid:\n  %w\n\nPlease fix the configuration or run 'configs init' to recreate it", err)
	}

	return nil
}

// validateProjectSection validates the file list and the optional remote root
func validateProjectSection(section *ProjectSection) error {
	if section == nil {
		return fmt.Errorf("project section is empty")
	}

	if len(section.Files) == 0 {
		return fmt.Errorf("no files configured")
	}

	seen := make(map[string]bool, len(section.Files))
	for i, name := range section.Files {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty file name at position %d", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate file: %s", name)
		}
		seen[name] = true
	}

	if section.RemoteRoot != "" {
		u, err := url.Parse(section.RemoteRoot)
		if err != nil {
			return fmt.Errorf("invalid remote_root %q: %w", section.RemoteRoot, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid remote_root %q: expected an http or https URL", section.RemoteRoot)
		}
	}

	return nil
}
