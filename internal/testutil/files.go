// Package testutil provides file fixture helpers shared across package tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateFile writes content to path, creating parent directories as needed.
func CreateFile(t *testing.T, path, content string) {
	t.Helper()
	CreateFileBytes(t, path, []byte(content))
}

// CreateFileBytes writes content to path, creating parent directories as needed.
func CreateFileBytes(t *testing.T, path string, content []byte) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	require.NoError(t, err)

	err = os.WriteFile(path, content, 0o644)
	require.NoError(t, err)
}

// ReadFile reads path and returns its content as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(content)
}

// DirNames returns the sorted names of all non-directory entries in dir.
func DirNames(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names
}
