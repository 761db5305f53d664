package configservice

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManagedFilesService_UpdateFiles_CreateNewFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "nested", ".configs.yaml")
	service := NewConfigService(testFile)

	section := &ProjectSection{
		RemoteRoot: "https://example.com/configs",
		Files:      []string{"ruff.toml", "mypy.ini"},
	}
	if err := service.Files().UpdateFiles(section); err != nil {
		t.Fatalf("Failed to create new config: %v", err)
	}

	readSection, err := service.Files().ReadProjectSection()
	if err != nil {
		t.Fatalf("Failed to read created config: %v", err)
	}
	if readSection.RemoteRoot != section.RemoteRoot {
		t.Errorf("Expected remote_root %s, got: %s", section.RemoteRoot, readSection.RemoteRoot)
	}
	if strings.Join(readSection.Files, ",") != "ruff.toml,mypy.ini" {
		t.Errorf("Unexpected files: %v", readSection.Files)
	}

	data, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if !strings.HasPrefix(string(data), "# .configs.yaml") {
		t.Errorf("Expected header comment, got:\n%s", data)
	}
}

func TestManagedFilesService_UpdateFiles_OmitsEmptyRemoteRoot(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), ".configs.yaml")
	service := NewConfigService(testFile)

	if err := service.Files().UpdateFiles(&ProjectSection{Files: []string{"ruff.toml"}}); err != nil {
		t.Fatalf("Failed to create new config: %v", err)
	}

	data, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if strings.Contains(string(data), "remote_root") {
		t.Errorf("Expected no remote_root key, got:\n%s", data)
	}
}

func TestManagedFilesService_UpdateFiles_PreservesComments(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), ".configs.yaml")

	initialContent := `# This is my custom header
remote_root: https://example.com/configs

# Managed files
files:
  - ruff.toml

# Some other settings
timeout: 10s
`
	if err := os.WriteFile(testFile, []byte(initialContent), 0644); err != nil {
		t.Fatalf("Failed to write initial config: %v", err)
	}

	service := NewConfigService(testFile)
	section := &ProjectSection{Files: []string{"ruff.toml", "mypy.ini", ".editorconfig"}}
	if err := service.Files().UpdateFiles(section); err != nil {
		t.Fatalf("Failed to update config: %v", err)
	}

	readSection, err := service.Files().ReadProjectSection()
	if err != nil {
		t.Fatalf("Failed to read updated config: %v", err)
	}
	if strings.Join(readSection.Files, ",") != "ruff.toml,mypy.ini,.editorconfig" {
		t.Errorf("Unexpected files: %v", readSection.Files)
	}
	if readSection.RemoteRoot != "https://example.com/configs" {
		t.Errorf("remote_root should be untouched, got: %s", readSection.RemoteRoot)
	}

	data, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "This is my custom header") {
		t.Error("Custom header comment was not preserved")
	}
	if !strings.Contains(content, "Some other settings") {
		t.Error("Comment before other settings was not preserved")
	}
	if !strings.Contains(content, "timeout:") {
		t.Error("Other key was not preserved")
	}
}

func TestManagedFilesService_UpdateFiles_ReplacesRemoteRoot(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), ".configs.yaml")
	if err := os.WriteFile(testFile, []byte("remote_root: https://old.example.com\nfiles: [ruff.toml]\n"), 0644); err != nil {
		t.Fatalf("Failed to write initial config: %v", err)
	}

	service := NewConfigService(testFile)
	section := &ProjectSection{RemoteRoot: "https://new.example.com", Files: []string{"mypy.ini"}}
	if err := service.Files().UpdateFiles(section); err != nil {
		t.Fatalf("Failed to update config: %v", err)
	}

	readSection, err := service.Files().ReadProjectSection()
	if err != nil {
		t.Fatalf("Failed to read updated config: %v", err)
	}
	if readSection.RemoteRoot != "https://new.example.com" {
		t.Errorf("Expected new remote_root, got: %s", readSection.RemoteRoot)
	}
	if strings.Join(readSection.Files, ",") != "mypy.ini" {
		t.Errorf("Unexpected files: %v", readSection.Files)
	}
}

func TestManagedFilesService_UpdateFiles_AppendsMissingKeys(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), ".configs.yaml")
	initialContent := "# only settings here\ntimeout: 5s"
	if err := os.WriteFile(testFile, []byte(initialContent), 0644); err != nil {
		t.Fatalf("Failed to write initial config: %v", err)
	}

	service := NewConfigService(testFile)
	section := &ProjectSection{RemoteRoot: "https://example.com/configs", Files: []string{"ruff.toml"}}
	if err := service.Files().UpdateFiles(section); err != nil {
		t.Fatalf("Failed to update config: %v", err)
	}

	data, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if !strings.HasPrefix(string(data), initialContent+"\n") {
		t.Errorf("Existing content must stay in place, got:\n%s", data)
	}

	readSection, err := service.Files().ReadProjectSection()
	if err != nil {
		t.Fatalf("Failed to read updated config: %v", err)
	}
	if readSection.RemoteRoot != section.RemoteRoot || strings.Join(readSection.Files, ",") != "ruff.toml" {
		t.Errorf("Unexpected section: %+v", readSection)
	}
}

func TestManagedFilesService_UpdateFiles_InvalidSection(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), ".configs.yaml")
	service := NewConfigService(testFile)

	testCases := []struct {
		name    string
		section *ProjectSection
		errText string
	}{
		{name: "nil section", section: nil, errText: "project section is empty"},
		{name: "no files", section: &ProjectSection{}, errText: "no files configured"},
		{name: "duplicate", section: &ProjectSection{Files: []string{"a.ini", "a.ini"}}, errText: "duplicate file"},
		{name: "bad remote", section: &ProjectSection{RemoteRoot: "file:///tmp", Files: []string{"a.ini"}}, errText: "http or https"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.Files().UpdateFiles(tc.section)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.errText) {
				t.Errorf("Expected error containing '%s', got: %v", tc.errText, err)
			}
		})
	}

	if _, err := os.Stat(testFile); !os.IsNotExist(err) {
		t.Errorf("Invalid sections must not create the file, got: %v", err)
	}
}
