// Package build carries the release metadata stamped into gtm-api binaries.
package build

import "fmt"

// Set at link time:
//
//	-ldflags "-X github.com/mendel-gtm/gtm-api/internal/build.Version=v1.2.0 -X ...build.Commit=abc1234"
var (
	Version = "dev"
	Commit  = "unknown"
	Branch  = "unknown"
)

// Summary renders the release for `gtm-api --version` and the startup log,
// e.g. "v1.2.0 (abc1234 on main)". Unstamped dev builds render as "dev".
func Summary() string {
	if Commit == "unknown" {
		return Version
	}
	if Branch == "unknown" {
		return fmt.Sprintf("%s (%s)", Version, shortCommit())
	}
	return fmt.Sprintf("%s (%s on %s)", Version, shortCommit(), Branch)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
