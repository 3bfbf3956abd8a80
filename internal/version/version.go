// Package version holds the build version of the server.
package version

import "fmt"

var (
	// Version is the semantic version of the current build.
	Version = "0.3.0"
	// DevVersion marks non-prod builds.
	DevVersion = "0.3.0"
)

// GetCurrentVersion returns the version string for the given mode.
func GetCurrentVersion(mode string) string {
	if mode == "prod" {
		return Version
	}
	return fmt.Sprintf("%s-%s", DevVersion, mode)
}
