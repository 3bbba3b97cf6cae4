package testutil

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateTestDirectory returns a temporary directory laid out like a
// babycards working tree: an images tree, a Quick Draw data directory and
// a generated library
func CreateTestDirectory(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for _, dir := range []string{"images", filepath.Join("quickdraw", "data"), filepath.Join("library", "crayon")} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return root
}

// CreateTestFile writes content to path, creating parent directories
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// CreateTestImages writes placeholder PNG files under baseDir, one per
// relative path, and returns their full paths
func CreateTestImages(t *testing.T, baseDir string, relPaths ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(relPaths))
	for _, rel := range relPaths {
		path := filepath.Join(baseDir, rel)
		CreateTestFile(t, path, PNGData())
		paths = append(paths, path)
	}
	return paths
}

// AssertFileExists fails the test when path is missing
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected %s to exist", path)
	}
}

// AssertFileNotExists fails the test when path is present
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s not to exist", path)
	}
}

// AssertFileContent compares the whole file with expected
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()

	if actual := readFile(t, path); !bytes.Equal(actual, expected) {
		t.Errorf("content of %s:\nwant %q\ngot  %q", path, expected, actual)
	}
}

// AssertFileContains checks that the file holds substring
func AssertFileContains(t *testing.T, path, substring string) {
	t.Helper()

	if !strings.Contains(string(readFile(t, path)), substring) {
		t.Errorf("%s does not contain %q", path, substring)
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
