package syntax

import (
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

// Validator checks that fetched content is well-formed before it is used
type Validator interface {
	Check(name, content string) error
}

type checker func(content string) error

var checkers = map[string]checker{
	".toml":  checkTOML,
	".yaml":  checkYAML,
	".yml":   checkYAML,
	".json":  checkJSON,
	".jsonc": checkJSON,
	".json5": checkJSON,
}

// ExtensionValidator picks a parser by file extension.
// Files with an unknown extension are accepted as plain text.
type ExtensionValidator struct{}

// NewValidator returns the default Validator
func NewValidator() Validator {
	return ExtensionValidator{}
}

func (ExtensionValidator) Check(name, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%s is empty", name)
	}

	check, ok := checkers[strings.ToLower(path.Ext(name))]
	if !ok {
		return nil
	}
	if err := check(content); err != nil {
		return fmt.Errorf("%s is not valid: %w", name, err)
	}
	return nil
}

func checkTOML(content string) error {
	var v map[string]any
	return toml.Unmarshal([]byte(content), &v)
}

func checkYAML(content string) error {
	var v any
	return yaml.Unmarshal([]byte(content), &v)
}

// checkJSON uses JSON5 so the "//" version marker and other comments are accepted
func checkJSON(content string) error {
	var v any
	return json5.Unmarshal([]byte(content), &v)
}
