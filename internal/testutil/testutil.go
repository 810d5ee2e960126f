// Package testutil provides testing utilities shared across taskflow tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// WritePipeline writes pipeline content into dir and returns the file path.
func WritePipeline(t *testing.T, dir, content string) string {
	t.Helper()

	return WriteFile(t, dir, "pipeline.yaml", content)
}

// WriteFile writes a file under dir, creating parent directories as needed.
// Returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// SkipIfNoSh skips the test if no Bourne shell is available. Task commands
// run through "sh -c", so executor tests cannot run without one.
func SkipIfNoSh(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH, skipping test")
	}
}

// SkipIfNoGolangciLint skips the test if golangci-lint is not installed.
func SkipIfNoGolangciLint(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint not found in PATH, skipping test")
	}
}
