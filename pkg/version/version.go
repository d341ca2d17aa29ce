// Package version exposes the build version of mindtool.
package version

// Set at build time with -ldflags "-X github.com/rshade/mindtool/pkg/version.version=v1.2.3".
var (
	version = "dev"
	commit  = "none"
)

// GetVersion returns the build version, "dev" for untagged builds.
func GetVersion() string {
	return version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}
