// Package buildinfo carries version metadata stamped in at link time with
// -ldflags "-X github.com/cleared-dev/cashscore/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Summary renders the line printed by --version.
func Summary() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
