package version

import (
	"regexp"
	"strings"
	"testing"
)

func TestVersionVariables(t *testing.T) {
	// Test Version
	if Version == "" {
		t.Error("Version should not be empty")
	}

	// Test GitCommit
	if GitCommit == "" {
		t.Error("GitCommit should not be empty")
	}
	if GitCommit != "unknown" && len(GitCommit) < 7 {
		t.Errorf("GitCommit '%s' seems invalid, should be 'unknown' or a git hash", GitCommit)
	}

	// Test BuildTime
	if BuildTime == "" {
		t.Error("BuildTime should not be empty")
	}
}

var semver = regexp.MustCompile(`^\d+\.\d+\.\d+([-+].+)?$`)

// Release builds stamp Version via -ldflags, sometimes with a leading "v"
// from git describe; unstamped builds carry the source default.
func TestVersionFormat(t *testing.T) {
	v := strings.TrimPrefix(Version, "v")
	if !semver.MatchString(v) {
		t.Errorf("Version %q is not MAJOR.MINOR.PATCH", Version)
	}
	if GitCommit == "unknown" && BuildTime != "unknown" {
		t.Errorf("BuildTime %q stamped without GitCommit", BuildTime)
	}
}
