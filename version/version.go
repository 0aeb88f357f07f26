package version

// Set at build time via -ldflags.
var (
	// Version is the human readable version string.
	Version = "unknown"
	// GitCommit is the commit the binary was built from.
	GitCommit = ""
)
