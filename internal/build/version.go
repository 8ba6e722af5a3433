package build

import "fmt"

// Set with -ldflags "-X github.com/rohmanhakim/geo-analyzer/internal/build.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns Version with the commit appended as build metadata,
// e.g. "1.0.0+abc123". An empty or "none" commit is left out.
func FullVersion() string {
	if Commit == "" || Commit == "none" {
		return Version
	}
	return Version + "+" + Commit
}

// Banner is the one-line output of the version command.
func Banner(program string) string {
	return fmt.Sprintf("%s %s (built %s)", program, FullVersion(), BuildTime)
}
