package version

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

func TestVersionIsSemver(t *testing.T) {
	if _, err := semver.StrictNewVersion(Version); err != nil {
		t.Fatalf("Version %q: %v", Version, err)
	}
}

func TestColoredPlain(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"1.2.3", "", "", "walter 1.2.3"},
		{"0.1.0-dev", "abc123", "", "walter 0.1.0-dev (abc123)"},
		{"2.0.0+build.7", "", "2024-01-15", "walter 2.0.0+build.7 built 2024-01-15"},
		{"weird", "", "", "walter weird"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := Full(); got != tt.want {
			t.Errorf("Full() = %q, want %q", got, tt.want)
		}
	}
}
