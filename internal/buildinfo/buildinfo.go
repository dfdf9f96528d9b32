package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/aalvaropc/gmscraper/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("gmscraper %s (commit=%s, date=%s)", Version, Commit, Date)
}
