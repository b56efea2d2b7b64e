// Package version carries the build stamp shown in the About dialog.
package version

// Overridden at build time via -ldflags; the defaults mark a local
// development build.
var (
	// Version is the studio release version.
	Version = "0.1.0-demo"

	// BuildTime is the UTC time the binary was built.
	BuildTime = "dev"

	// GitCommit is the git commit the binary was built from.
	GitCommit = "dev"
)
