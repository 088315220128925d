package build

import "fmt"

// Set at link time, e.g.
//
//	go build -ldflags "-X github.com/rohmanhakim/talk-parser/internal/build.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// Summary describes the binary on a single line, including the build time.
func Summary() string {
	return fmt.Sprintf("talk-parser %s (built %s)", FullVersion(), BuildTime)
}
