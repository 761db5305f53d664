package syntax

import "testing"

func TestExtensionValidator_Check(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"ruff.toml", "line-length = 100\n[lint]\nselect = [\"E\", \"F\"]\n", false},
		{"ruff.toml", "<html><body>Not Found</body></html>\n", true},
		{"mypy.ini", "[mypy]\nstrict = True\n", false},
		{".pre-commit-config.yaml", "repos:\n  - repo: local\n", false},
		{".pre-commit-config.yaml", "repos: [\n", true},
		{".vscode/settings.json", "// Config version: 1.0 (auto-managed)\n\n{\"editor.tabSize\": 4}\n", false},
		{".vscode/settings.json", "{\"editor.tabSize\": \n", true},
		{"mypy.ini", "   \n", true},
	}

	validator := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Check(tt.name, tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("Check(%q) error = %v, wantErr %v", tt.content, err, tt.wantErr)
			}
		})
	}
}
