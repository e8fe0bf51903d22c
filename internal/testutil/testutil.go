// Package testutil provides helpers for tests: a sandboxed file
// environment, golden-file assertions and config state management.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnv is a sandboxed directory for file-writing tests. All paths are
// resolved relative to a per-test temp dir and must stay inside it.
type TestEnv struct {
	t       *testing.T
	rootDir string
}

// NewTestEnv creates a sandbox rooted in t.TempDir.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return &TestEnv{
		t:       t,
		rootDir: t.TempDir(),
	}
}

// RootDir returns the sandbox root directory.
func (e *TestEnv) RootDir() string {
	return e.rootDir
}

// Path returns an absolute path within the sandbox. It fails the test if
// the cleaned path would escape it.
func (e *TestEnv) Path(elem ...string) string {
	e.t.Helper()

	relPath := filepath.Join(elem...)
	cleanPath := filepath.Clean(filepath.Join(e.rootDir, relPath))

	if !e.isWithinSandbox(cleanPath) {
		e.t.Fatalf("path %q escapes test sandbox %q", cleanPath, e.rootDir)
	}

	return cleanPath
}

func (e *TestEnv) isWithinSandbox(path string) bool {
	cleanRoot := filepath.Clean(e.rootDir)
	cleanPath := filepath.Clean(path)
	return strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator)) || cleanPath == cleanRoot
}

// WriteFile writes a file at the given sandbox-relative path, creating
// parent directories as needed.
func (e *TestEnv) WriteFile(path string, content []byte) {
	e.t.Helper()

	absPath := e.Path(path)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(absPath), 0o755))
	require.NoError(e.t, os.WriteFile(absPath, content, 0o644))
}

// WriteFileString writes a string file at the given sandbox-relative path.
func (e *TestEnv) WriteFileString(path, content string) {
	e.t.Helper()
	e.WriteFile(path, []byte(content))
}

// ReadFile reads a file at the given sandbox-relative path.
func (e *TestEnv) ReadFile(path string) []byte {
	e.t.Helper()

	content, err := os.ReadFile(e.Path(path))
	require.NoError(e.t, err)
	return content
}

// ReadFileString reads a file as a string.
func (e *TestEnv) ReadFileString(path string) string {
	e.t.Helper()
	return string(e.ReadFile(path))
}

// MkdirAll creates a directory tree inside the sandbox.
func (e *TestEnv) MkdirAll(path string) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(e.Path(path), 0o755))
}

// FileExists reports whether the sandbox-relative path exists.
func (e *TestEnv) FileExists(path string) bool {
	e.t.Helper()
	_, err := os.Stat(e.Path(path))
	return err == nil
}

// RequireFileExists fails the test if the path does not exist.
func (e *TestEnv) RequireFileExists(path string) {
	e.t.Helper()
	require.True(e.t, e.FileExists(path), "expected file to exist: %s", path)
}

// RequireFileNotExists fails the test if the path exists.
func (e *TestEnv) RequireFileNotExists(path string) {
	e.t.Helper()
	require.False(e.t, e.FileExists(path), "expected file to not exist: %s", path)
}

// AssertFileContains asserts that the file contains the expected substring.
func (e *TestEnv) AssertFileContains(path, expected string) {
	e.t.Helper()
	assert.Contains(e.t, e.ReadFileString(path), expected)
}
