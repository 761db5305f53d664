package cmd

import (
	"bytes"
	"testing"

	"jonnyzzz.com/configs/versioninfo"
)

func TestVersionCommand(t *testing.T) {
	versionCmd := NewVersionCommand()

	buf := new(bytes.Buffer)
	versionCmd.SetOut(buf)
	versionCmd.SetArgs([]string{})
	if err := versionCmd.Execute(); err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	expected := "Version: " + versioninfo.Current() + "\n"
	if got := buf.String(); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	if got := versionCmd.Use; got != "version" {
		t.Errorf("Expected Use to be 'version', got %q", got)
	}
	if got := versionCmd.Short; got == "" {
		t.Error("Short description should not be empty")
	}
}

func TestVersionCommand_ViaRoot(t *testing.T) {
	root := NewRootCommand()

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	if got := buf.String(); got != "Version: "+versioninfo.Current()+"\n" {
		t.Errorf("Unexpected output %q", got)
	}
}
