package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"testing"
)

var (
	// updateGolden controls whether golden files should be updated.
	// Use: go test ./... -run TestGolden -update
	updateGolden = flag.Bool("update", false, "update golden files")

	// goldenFixture filters which crate fixtures to test.
	// Use: go test ./... -run TestGolden -goldenFixture=basic,generics
	goldenFixture = flag.String("goldenFixture", "", "filter fixtures (comma-separated)")
)

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

// ShouldTestFixture returns true if the named fixture should be tested.
func ShouldTestFixture(name string) bool {
	if *goldenFixture == "" {
		return true
	}

	for _, f := range strings.Split(*goldenFixture, ",") {
		if strings.TrimSpace(f) == name {
			return true
		}
	}
	return false
}

// CompareGoldenText compares rendered text against name.txt in the fixture.
// Text is compared verbatim; only the fixture root is replaced.
func CompareGoldenText(t *testing.T, fixture *FixtureContext, name string, got string) {
	t.Helper()

	got = strings.ReplaceAll(got, fixture.Root, "<fixture>")
	compareGoldenFile(t, fixture, name+".txt", []byte(got))
}

func compareGoldenFile(t *testing.T, fixture *FixtureContext, file string, got []byte) {
	t.Helper()

	goldenPath := fixture.ExpectedPath(file)

	if *updateGolden {
		UpdateGolden(t, fixture, file, got)
		t.Logf("Updated golden: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test ./... -run %s -update",
				goldenPath, string(got), t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}

	if !bytes.Equal(got, expected) {
		diff := unifiedDiff(string(expected), string(got), goldenPath)
		t.Fatalf("Golden mismatch for %s:\n%s\n\nRun with -update to refresh:\n  go test ./... -run %s -update",
			file, diff, t.Name())
	}
}

// UpdateGolden writes data to the golden file, creating expected/ if needed.
func UpdateGolden(t *testing.T, fixture *FixtureContext, file string, data []byte) {
	t.Helper()

	goldenPath := fixture.ExpectedPath(file)

	// Create parent directories
	if err := os.MkdirAll(fixture.ExpectedDir, 0o755); err != nil {
		t.Fatalf("Failed to create expected directory: %v", err)
	}

	if err := os.WriteFile(goldenPath, data, 0o644); err != nil {
		t.Fatalf("Failed to write golden file: %v", err)
	}
}

// unifiedDiff produces a line-oriented diff between two strings.
func unifiedDiff(expected, got, path string) string {
	var buf bytes.Buffer

	expectedLines := strings.Split(expected, "\n")
	gotLines := strings.Split(got, "\n")

	fmt.Fprintf(&buf, "--- %s (expected)\n", path)
	fmt.Fprintf(&buf, "+++ %s (got)\n", path)

	// Simple line-by-line diff
	maxLines := len(expectedLines)
	if len(gotLines) > maxLines {
		maxLines = len(gotLines)
	}

	inHunk := false
	hunkStart := 0
	var hunkLines []string

	flushHunk := func() {
		if len(hunkLines) > 0 {
			fmt.Fprintf(&buf, "@@ -%d,%d +%d,%d @@\n", hunkStart+1, len(hunkLines), hunkStart+1, len(hunkLines))
			for _, line := range hunkLines {
				buf.WriteString(line)
				buf.WriteString("\n")
			}
			hunkLines = nil
		}
	}

	for i := 0; i < maxLines; i++ {
		var expLine, gotLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(gotLines) {
			gotLine = gotLines[i]
		}

		if expLine == gotLine {
			if inHunk {
				// Context line in hunk
				hunkLines = append(hunkLines, " "+expLine)
				if len(hunkLines) > 6 {
					flushHunk()
					inHunk = false
				}
			}
		} else {
			if !inHunk {
				inHunk = true
				hunkStart = i
				// Add context before
				for j := max(0, i-3); j < i; j++ {
					if j < len(expectedLines) {
						hunkLines = append(hunkLines, " "+expectedLines[j])
					}
				}
			}

			if i < len(expectedLines) && expLine != "" {
				hunkLines = append(hunkLines, "-"+expLine)
			}
			if i < len(gotLines) && gotLine != "" {
				hunkLines = append(hunkLines, "+"+gotLine)
			}
		}
	}

	flushHunk()

	return buf.String()
}

// ForEachFixture runs fn for each available crate fixture.
// Respects the -goldenFixture flag and -short flag.
func ForEachFixture(t *testing.T, fn func(t *testing.T, fixture *FixtureContext)) {
	t.Helper()

	names := AvailableFixtures(t)
	if len(names) == 0 {
		t.Skip("No fixtures available")
	}

	// In short mode, only test the first fixture
	if testing.Short() && len(names) > 1 {
		names = names[:1]
	}

	for _, name := range names {
		if !ShouldTestFixture(name) {
			continue
		}

		t.Run(name, func(t *testing.T) {
			fn(t, LoadFixture(t, name))
		})
	}
}
