// Package testutil provides fixture loading and golden-file helpers for tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixtureContext describes one crate fixture under testdata/fixtures.
type FixtureContext struct {
	// Name is the fixture directory name (e.g., "basic", "generics")
	Name string

	// Root is the absolute path to the fixture directory
	Root string

	// DocJSONPath is the rustdoc JSON artifact of the fixture crate
	DocJSONPath string

	// ManifestPath is the fixture's Cargo.toml
	ManifestPath string

	// ExpectedDir is the path to the expected/ directory
	ExpectedDir string
}

// LoadFixture loads a crate fixture, failing the test on error.
func LoadFixture(t *testing.T, name string) *FixtureContext {
	t.Helper()

	root := getFixturesRoot(t)
	fixtureDir := filepath.Join(root, name)

	if _, err := os.Stat(fixtureDir); os.IsNotExist(err) {
		t.Fatalf("Fixture directory not found: %s", fixtureDir)
	}

	docPath := filepath.Join(fixtureDir, "doc.json")
	if _, err := os.Stat(docPath); os.IsNotExist(err) {
		t.Fatalf("rustdoc JSON not found: %s", docPath)
	}

	expectedDir := filepath.Join(fixtureDir, "expected")
	if _, err := os.Stat(expectedDir); os.IsNotExist(err) {
		if err := os.MkdirAll(expectedDir, 0o755); err != nil {
			t.Fatalf("Failed to create expected directory: %v", err)
		}
	}

	return &FixtureContext{
		Name:         name,
		Root:         fixtureDir,
		DocJSONPath:  docPath,
		ManifestPath: filepath.Join(fixtureDir, "Cargo.toml"),
		ExpectedDir:  expectedDir,
	}
}

// ExpectedPath returns the path of a golden file within the fixture.
// The file name includes its extension.
func (f *FixtureContext) ExpectedPath(file string) string {
	return filepath.Join(f.ExpectedDir, file)
}

// ReadDocJSON returns the raw bytes of the fixture's rustdoc JSON artifact.
func (f *FixtureContext) ReadDocJSON(t *testing.T) []byte {
	t.Helper()

	data, err := os.ReadFile(f.DocJSONPath)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", f.DocJSONPath, err)
	}
	return data
}

// getFixturesRoot returns the absolute path to testdata/fixtures/.
func getFixturesRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	// Navigate from internal/testutil to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	fixturesRoot := filepath.Join(projectRoot, "testdata", "fixtures")

	if _, err := os.Stat(fixturesRoot); os.IsNotExist(err) {
		t.Fatalf("Fixtures root not found: %s", fixturesRoot)
	}

	return fixturesRoot
}

// AvailableFixtures returns the fixture directories that carry a doc.json.
func AvailableFixtures(t *testing.T) []string {
	t.Helper()

	root := getFixturesRoot(t)
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("Failed to read fixtures directory: %v", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || isHiddenDir(entry.Name()) {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), "doc.json")); err == nil {
			names = append(names, entry.Name())
		}
	}

	return names
}

func isHiddenDir(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
