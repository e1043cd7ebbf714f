// Package version holds build information, overridden at link time:
//
//	go build -ldflags "-X github.com/ndewijer/graham-screener/internal/version.Version=1.2.0"
package version

var (
	// Version is the application version.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "unknown"
)
