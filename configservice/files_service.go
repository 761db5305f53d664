package configservice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// ManagedFilesService manages the list of synced files in .configs.yaml
type ManagedFilesService interface {
	// ReadProjectSection reads and validates the project keys from .configs.yaml
	ReadProjectSection() (*ProjectSection, error)

	// UpdateFiles updates or creates .configs.yaml with the given section
	// If the file doesn't exist, it creates it with proper headers
	// If the file exists, only the touched keys change and comments are preserved
	UpdateFiles(section *ProjectSection) error
}

// UpdateFiles updates or creates .configs.yaml with the given section
func (s *configServiceImpl) UpdateFiles(section *ProjectSection) error {
	if err := validateProjectSection(section); err != nil {
		return fmt.Errorf("invalid section: %w", err)
	}

	if _, err := os.Stat(s.configPath); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access configuration file %s: %w", s.configPath, err)
		}
		return s.createNewConfig(section)
	}

	return s.updateExistingConfig(section)
}

// createNewConfig creates a new .configs.yaml file
func (s *configServiceImpl) createNewConfig(section *ProjectSection) error {
	yamlBytes, err := yaml.Marshal(section)
	if err != nil {
		return fmt.Errorf("failed to marshal section: %w", err)
	}

	header := "# .configs.yaml - configuration for the configs sync tool\n"
	header += "# Lists the files kept in sync with the shared remote configuration repository\n\n"
	yamlBytes = []byte(header + string(yamlBytes))

	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}

	if err := os.WriteFile(s.configPath, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// updateExistingConfig updates an existing .configs.yaml file while preserving formatting
func (s *configServiceImpl) updateExistingConfig(section *ProjectSection) error {
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read existing configuration: %w", err)
	}

	var existing map[string]interface{}
	if err := yaml.Unmarshal(data, &existing); err != nil {
		return fmt.Errorf("failed to parse existing configuration: %w", err)
	}

	keys := []string{"files"}
	replacements := map[string]interface{}{"files": section.Files}
	if section.RemoteRoot != "" {
		keys = append(keys, "remote_root")
		replacements["remote_root"] = section.RemoteRoot
	}

	var replace, missing []string
	for _, key := range keys {
		if _, ok := existing[key]; ok {
			replace = append(replace, key)
		} else {
			missing = append(missing, key)
		}
	}

	content := string(data)
	if len(replace) > 0 {
		// Parse with comments to preserve formatting
		file, err := parser.ParseBytes(data, parser.ParseComments)
		if err != nil {
			return fmt.Errorf("failed to parse existing configuration: %w", err)
		}

		for _, key := range replace {
			if err := replaceKey(file, key, replacements[key]); err != nil {
				return err
			}
		}
		content = file.String()
	}

	for _, key := range missing {
		appended, err := yaml.Marshal(map[string]interface{}{key: replacements[key]})
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}
		content = withTrailingNewline(content) + string(appended)
	}

	if err := os.WriteFile(s.configPath, []byte(withTrailingNewline(content)), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	return nil
}

// replaceKey swaps the value of a top-level key in the AST.
// Values are rendered in flow style so they fit on the key's own line.
func replaceKey(file *ast.File, key string, value interface{}) error {
	path, err := yaml.PathString("$." + key)
	if err != nil {
		return fmt.Errorf("failed to create path: %w", err)
	}

	newYaml, err := yaml.MarshalWithOptions(value, yaml.Flow(true))
	if err != nil {
		return fmt.Errorf("failed to marshal new %s: %w", key, err)
	}

	newFile, err := parser.ParseBytes(newYaml, 0)
	if err != nil {
		return fmt.Errorf("failed to parse new %s: %w", key, err)
	}

	if len(newFile.Docs) == 0 || newFile.Docs[0].Body == nil {
		return fmt.Errorf("new %s has no body", key)
	}

	if err := path.ReplaceWithNode(file, newFile.Docs[0].Body); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

func withTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
