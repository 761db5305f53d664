package integration_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const builtVersion = "1.2.3"

// TestBinaryExecution builds the configs binary and runs it as a separate process
func TestBinaryExecution(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("Skipping integration test, go toolchain not found")
	}

	binaryPath := buildBinary(t)
	t.Logf("Using binary: %s", binaryPath)

	t.Run("Version", func(t *testing.T) {
		testVersion(t, binaryPath)
	})

	t.Run("SyncInEmptyFolder", func(t *testing.T) {
		testSyncInEmptyFolder(t, binaryPath)
	})

	t.Run("FailureExitCode", func(t *testing.T) {
		testFailureExitCode(t, binaryPath)
	})
}

func buildBinary(t *testing.T) string {
	t.Helper()
	binaryName := "configs"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(t.TempDir(), binaryName)

	cmd := exec.Command("go", "build",
		"-o", binaryPath,
		"-ldflags", "-X jonnyzzz.com/configs/versioninfo.Version="+builtVersion,
		"jonnyzzz.com/configs",
	)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, output.String())
	}
	return binaryPath
}

// runBinary runs the binary in workDir with a private cache directory
func runBinary(t *testing.T, binaryPath, workDir string, env []string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "CONFIGS_CACHE_DIR="+filepath.Join(t.TempDir(), "cache"))
	cmd.Env = append(cmd.Env, env...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String() + stderr.String(), err
}

func newRemote(t *testing.T, broken string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		name := strings.TrimPrefix(req.URL.Path, "/")
		switch {
		case name == broken:
			http.Error(w, "unavailable", http.StatusInternalServerError)
		case name == "ruff.toml":
			_, _ = w.Write([]byte("line-length = 100\n"))
		case name == "mypy.ini":
			_, _ = w.Write([]byte("[mypy]\nstrict = True\n"))
		default:
			http.NotFound(w, req)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testVersion(t *testing.T, binaryPath string) {
	output, err := runBinary(t, binaryPath, t.TempDir(), nil, "version")
	if err != nil {
		t.Fatalf("Failed to run version: %v\n%s", err, output)
	}

	if !strings.Contains(output, "Version: "+builtVersion) {
		t.Errorf("Version output doesn't contain 'Version: %s': %s", builtVersion, output)
	}
}

func testSyncInEmptyFolder(t *testing.T, binaryPath string) {
	server := newRemote(t, "")
	workDir := t.TempDir()

	output, err := runBinary(t, binaryPath, workDir, []string{"CONFIGS_REMOTE_ROOT=" + server.URL})
	if err != nil {
		t.Fatalf("Sync failed: %v\n%s", err, output)
	}

	data, err := os.ReadFile(filepath.Join(workDir, "mypy.ini"))
	if err != nil {
		t.Fatalf("mypy.ini was not created: %v\n%s", err, output)
	}
	expected := "; Config version: " + builtVersion + " (auto-managed)\n\n[mypy]\nstrict = True\n"
	if string(data) != expected {
		t.Errorf("Unexpected mypy.ini:\n%s", data)
	}

	if _, err := os.Stat(filepath.Join(workDir, "ruff.toml")); err != nil {
		t.Errorf("ruff.toml was not created: %v", err)
	}
}

func testFailureExitCode(t *testing.T, binaryPath string) {
	server := newRemote(t, "mypy.ini")
	workDir := t.TempDir()

	output, err := runBinary(t, binaryPath, workDir, []string{"CONFIGS_REMOTE_ROOT=" + server.URL}, "-y")

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("Expected exit code 1, got %v\n%s", err, output)
	}
	if !strings.Contains(output, "Failed to update: mypy.ini") {
		t.Errorf("Expected failure summary in output: %s", output)
	}
}
