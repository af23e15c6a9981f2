package version

import (
	"regexp"
	"testing"
)

// withBuild sets the ldflags variables for one test.
func withBuild(t *testing.T, version, commit, date string) {
	t.Helper()
	saved := [3]string{Version, Commit, BuildDate}
	t.Cleanup(func() { Version, Commit, BuildDate = saved[0], saved[1], saved[2] })
	Version, Commit, BuildDate = version, commit, date
}

func TestInfo(t *testing.T) {
	tests := []struct {
		commit string
		want   string
	}{
		{"unknown", "0.4.0"},
		{"1234567", "0.4.0"},
		{"12345678", "0.4.0 (1234567)"},
		{"9f1c2e7d4b3a", "0.4.0 (9f1c2e7)"},
	}

	for _, tt := range tests {
		t.Run(tt.commit, func(t *testing.T) {
			withBuild(t, "0.4.0", tt.commit, "unknown")
			if got := Info(); got != tt.want {
				t.Errorf("Info() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	withBuild(t, "0.5.0-rc.1", "9f1c2e7d4b3a", "2026-10-17T09:00:00Z")

	want := "pubcrates version 0.5.0-rc.1\nCommit: 9f1c2e7d4b3a\nBuilt: 2026-10-17T09:00:00Z"
	if got := Full(); got != want {
		t.Errorf("Full() = %q, want %q", got, want)
	}
}

func TestVersionIsSemver(t *testing.T) {
	semver := regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)
	if !semver.MatchString(Version) {
		t.Errorf("Version %q is not a semantic version", Version)
	}
}
